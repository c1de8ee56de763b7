package vlist

import (
	"slices"

	"github.com/rs/zerolog"
)

// Align selects where ScrollToIndex places a row.
type Align int

const (
	// AlignStart puts the row's leading edge at the viewport's near edge.
	AlignStart Align = iota
	// AlignEnd puts the row's trailing edge at the viewport's far edge.
	AlignEnd
	// AlignNearest scrolls the least distance that makes the row visible.
	AlignNearest
)

type mountedRow struct {
	handle RowHandle
	// Frame the row was mounted or invalidated in.
	frame    uint64
	measured bool
}

// Engine virtualizes a list on a host surface and keeps the rows on screen
// still while the sizes of rows around them change.
//
// Engine is not safe for concurrent use. Every method and every callback it
// registers runs on the host's UI goroutine.
type Engine struct {
	config  Config
	host    Host
	log     zerolog.Logger
	adapter ReverseAdapter

	store      *ItemStore
	measurer   *MeasurementScheduler
	compensate *CompensationEngine
	ctrl       *ScrollController

	// Mounted rows by logical index.
	mounted  map[int]*mountedRow
	rendered Range

	anchor    Anchor
	hasAnchor bool

	frameNo      uint64
	frameID      FrameID
	framePending bool

	unsubscribe func()
	closed      bool
}

// New attaches an engine to host. The list starts empty.
func New(host Host, opts ...Option) (*Engine, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := host.validate(); err != nil {
		return nil, err
	}

	log := config.Logger
	store := NewItemStore(config.estimator())
	e := &Engine{
		config:     config,
		host:       host,
		log:        log.With().Str("component", "engine").Logger(),
		adapter:    NewReverseAdapter(config.Axis, config.Reverse, config.RTL),
		store:      store,
		measurer:   NewMeasurementScheduler(store, log),
		compensate: NewCompensationEngine(log),
		ctrl:       newScrollController(host.Scroller, host.Scheduler, config),
		mounted:    make(map[int]*mountedRow),
	}
	e.ctrl.onFlush = func() { e.measure(true) }
	e.ctrl.invalidate = e.requestFrame
	e.unsubscribe = host.Scroller.Subscribe(e.handleEvent)

	e.layout()
	e.log.Debug().
		Stringer("axis", config.Axis).
		Bool("reverse", config.Reverse).
		Bool("rtl", config.RTL).
		Msg("attached")
	return e, nil
}

// Len returns the number of rows.
func (e *Engine) Len() int {
	return e.store.Len()
}

// SizeOf returns the current size of a row.
func (e *Engine) SizeOf(index int) (float64, error) {
	return e.store.SizeOf(index)
}

// OffsetOf returns the logical offset of a row.
func (e *Engine) OffsetOf(index int) (float64, error) {
	return e.store.OffsetOf(index)
}

// TotalSize returns the size of the whole list.
func (e *Engine) TotalSize() float64 {
	return e.store.TotalSize()
}

// Range returns the logical rows currently mounted.
func (e *Engine) Range() Range {
	return e.rendered
}

// Anchor returns the anchor chosen by the last render.
func (e *Engine) Anchor() (Anchor, bool) {
	return e.anchor, e.hasAnchor
}

// State returns the scroll controller's state.
func (e *Engine) State() State {
	return e.ctrl.State()
}

// Viewport returns the logical viewport for the last trusted offset.
func (e *Engine) Viewport() Viewport {
	g := e.geometry()
	offset := e.adapter.ScrollToLogical(e.ctrl.Offset(), g)
	offset = min(max(offset, 0), g.MaxOffset())
	return Viewport{Offset: offset, Extent: g.Extent}
}

// Append adds count rows after the last one.
func (e *Engine) Append(count int) error {
	return e.Insert(e.store.Len(), count)
}

// Prepend adds count rows before the first one. Rows on screen stay put.
func (e *Engine) Prepend(count int) error {
	return e.Insert(0, count)
}

// Insert adds count rows before index, which may equal Len.
func (e *Engine) Insert(index, count int) error {
	if e.closed {
		return ErrClosed
	}
	n := e.store.Len()
	if index < 0 || index > n {
		return &OutOfRangeError{Op: "Insert", Index: index, Len: n}
	}
	if count <= 0 {
		return nil
	}

	vp := e.Viewport()
	oldTotal := e.store.TotalSize()
	var anchor *Anchor
	if a, ok := e.currentAnchor(vp); ok {
		if index <= a.Index {
			a.Index += count
		}
		anchor = &a
	}

	if err := e.store.Insert(index, count); err != nil {
		return err
	}
	var report ReconciliationReport
	for i := index; i < index+count; i++ {
		size, _ := e.store.SizeOf(i)
		report.Changes = append(report.Changes, SizeChange{Index: i, NewSize: size})
	}
	e.log.Debug().Int("index", index).Int("count", count).Msg("insert")
	e.mutated(report, anchor, vp, oldTotal)
	return nil
}

// Remove deletes count rows starting at index. If the anchor row is removed a
// new anchor is derived from the old anchor's absolute offset.
func (e *Engine) Remove(index, count int) error {
	if e.closed {
		return ErrClosed
	}
	if count <= 0 {
		return nil
	}
	n := e.store.Len()
	if index < 0 || index+count > n {
		return &OutOfRangeError{Op: "Remove", Index: index, Len: n}
	}

	vp := e.Viewport()
	oldTotal := e.store.TotalSize()
	var anchor *Anchor
	removedAnchor := false
	if a, ok := e.currentAnchor(vp); ok {
		if a.Index >= index && a.Index < index+count {
			// The rows after the block shift into the gap, so the gap's
			// start is where the anchor was.
			a = Anchor{Index: index, Within: a.Within}
			removedAnchor = true
		}
		anchor = &a
	}

	var report ReconciliationReport
	for i := index; i < index+count; i++ {
		size, _ := e.store.SizeOf(i)
		report.Changes = append(report.Changes, SizeChange{Index: i, OldSize: size})
	}
	if err := e.store.Remove(index, count); err != nil {
		return err
	}
	e.log.Debug().Int("index", index).Int("count", count).Msg("remove")
	e.mutated(report, anchor, vp, oldTotal)

	if removedAnchor {
		e.anchor, e.hasAnchor = RederiveAnchor(e.store, vp.Offset)
		e.log.Debug().Int("anchor", e.anchor.Index).Msg("anchor rederived")
	}
	return nil
}

// Remeasure marks mounted rows for measurement on the next frame, for
// content that changed size after it was first measured.
func (e *Engine) Remeasure(indices ...int) {
	if e.closed {
		return
	}
	for _, i := range indices {
		if m := e.mounted[i]; m != nil {
			m.measured = false
			m.frame = e.frameNo
		}
	}
	e.requestFrame()
}

// ScrollTo moves the viewport to a logical offset, clamped to the content.
func (e *Engine) ScrollTo(offset float64) {
	if e.closed {
		return
	}
	g := e.geometry()
	offset = min(max(offset, 0), g.MaxOffset())
	e.ctrl.ScrollTo(e.adapter.ScrollToPhysical(offset, g))
	e.requestFrame()
}

// ScrollBy moves the viewport by a logical delta.
func (e *Engine) ScrollBy(delta float64) {
	e.ScrollTo(e.Viewport().Offset + delta)
}

// ScrollToIndex brings a row into view.
func (e *Engine) ScrollToIndex(index int, align Align) error {
	if e.closed {
		return ErrClosed
	}
	size, err := e.store.SizeOf(index)
	if err != nil {
		return err
	}
	start := e.store.offsetAt(index)
	vp := e.Viewport()
	end := start + size - vp.Extent
	switch align {
	case AlignStart:
		e.ScrollTo(start)
	case AlignEnd:
		e.ScrollTo(end)
	default:
		switch {
		case start < vp.Offset:
			e.ScrollTo(start)
		case start+size > vp.End():
			e.ScrollTo(end)
		}
	}
	return nil
}

// Flush settles pending corrections immediately instead of waiting for the
// debounce. It returns the physical delta written; a second call returns 0.
func (e *Engine) Flush() float64 {
	if e.closed {
		return 0
	}
	applied := e.ctrl.Flush()
	e.requestFrame()
	return applied
}

// Close detaches the engine. No callback it registered runs afterwards.
func (e *Engine) Close() error {
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	if e.framePending {
		e.host.Scheduler.CancelFrame(e.frameID)
		e.framePending = false
	}
	e.ctrl.Close()
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.unmountAll()
	e.log.Debug().Msg("closed")
	return nil
}

func (e *Engine) handleEvent(ev Event) {
	if e.closed {
		return
	}
	switch ev.Kind {
	case EventTouchStart:
		e.ctrl.TouchStart()
	case EventTouchEnd:
		e.ctrl.TouchEnd()
	case EventScroll:
		// Geometry is brought up to date before the offset is read.
		e.measure(false)
		e.ctrl.Observe()
	}
	e.requestFrame()
}

func (e *Engine) requestFrame() {
	if e.closed || e.framePending {
		return
	}
	e.framePending = true
	e.frameID = e.host.Scheduler.RequestFrame(e.frame)
}

func (e *Engine) frame() {
	e.framePending = false
	if e.closed {
		return
	}
	e.frameNo++
	e.measure(false)
	e.ctrl.Commit()
	e.ctrl.onFrame()
	e.render()
}

// measure reads the size of every mounted row that has not been measured.
// Unless all is set, rows mounted during the current frame are skipped since
// the host has not laid them out yet.
func (e *Engine) measure(all bool) {
	var rows []MountedRow
	for i, m := range e.mounted {
		if !m.measured && (all || m.frame < e.frameNo) {
			rows = append(rows, MountedRow{Index: i, Handle: m.handle})
		}
	}
	if len(rows) == 0 {
		return
	}
	slices.SortFunc(rows, func(a, b MountedRow) int { return a.Index - b.Index })

	vp := e.Viewport()
	oldTotal := e.store.TotalSize()
	anchor, hasAnchor := e.currentAnchor(vp)

	report, retry := e.measurer.Measure(e.host.Surface, rows)
	for _, r := range rows {
		e.mounted[r.Index].measured = true
	}
	for _, i := range retry {
		e.mounted[i].measured = false
	}
	if len(retry) > 0 {
		e.requestFrame()
	}
	if report.Empty() {
		return
	}

	var a *Anchor
	if hasAnchor {
		a = &anchor
	}
	c := e.compensate.Reconcile(report, a, vp)
	e.layout()
	e.ctrl.Queue(e.physicalJump(c, oldTotal))
	e.requestFrame()
}

// mutated applies the correction for an insertion or removal. Every row is
// remounted since physical indices shift.
func (e *Engine) mutated(report ReconciliationReport, anchor *Anchor, vp Viewport, oldTotal float64) {
	c := e.compensate.Reconcile(report, anchor, vp)
	e.unmountAll()
	e.layout()
	e.ctrl.Queue(e.physicalJump(c, oldTotal))
	e.ctrl.Commit()
	e.requestFrame()
}

// currentAnchor selects the anchor from the viewport, once anything has been
// rendered.
func (e *Engine) currentAnchor(vp Viewport) (Anchor, bool) {
	if !e.hasAnchor {
		return Anchor{}, false
	}
	return SelectAnchor(e.store, vp)
}

// physicalJump converts a logical correction into the change of the raw
// offset. Mirrored layouts measure from the far edge of the content, so the
// content's growth moves the raw offset too.
func (e *Engine) physicalJump(c Correction, oldTotal float64) float64 {
	if !e.adapter.Mirrored() {
		return float64(c)
	}
	extent := e.host.Scroller.Extent()
	grown := max(e.store.TotalSize(), extent) - max(oldTotal, extent)
	return grown - float64(c)
}

func (e *Engine) render() {
	vp := e.Viewport()
	e.anchor, e.hasAnchor = SelectAnchor(e.store, vp)
	rng := ComputeRange(e.store, vp, e.config.OverscanBefore, e.config.OverscanAfter)

	var gone []int
	for i, m := range e.mounted {
		if !rng.Contains(i) {
			gone = append(gone, m.handle.Index())
			delete(e.mounted, i)
		}
	}
	if len(gone) > 0 {
		slices.Sort(gone)
		e.host.Surface.Unmount(gone)
	}

	mounted := false
	start := -1
	for i := rng.Start; i <= rng.End; i++ {
		missing := i < rng.End && e.mounted[i] == nil
		switch {
		case missing && start < 0:
			start = i
		case !missing && start >= 0:
			e.mount(Range{Start: start, End: i})
			start = -1
			mounted = true
		}
	}
	e.rendered = rng
	e.layout()
	if mounted {
		e.requestFrame()
	}
}

func (e *Engine) mount(r Range) {
	n := e.store.Len()
	for _, h := range e.host.Surface.Mount(e.adapter.ToPhysicalRange(r, n)) {
		i := e.adapter.ToLogicalIndex(h.Index(), n)
		if i < 0 || i >= n {
			continue
		}
		e.mounted[i] = &mountedRow{handle: h, frame: e.frameNo}
	}
}

func (e *Engine) unmountAll() {
	if len(e.mounted) == 0 {
		return
	}
	gone := make([]int, 0, len(e.mounted))
	for _, m := range e.mounted {
		gone = append(gone, m.handle.Index())
	}
	slices.Sort(gone)
	e.host.Surface.Unmount(gone)
	clear(e.mounted)
	e.rendered = Range{}
}

// layout publishes the content size and places every mounted row at its
// physical offset.
func (e *Engine) layout() {
	g := e.geometry()
	e.host.Surface.SetContentExtent(g.Total)
	for i, m := range e.mounted {
		offset := e.store.offsetAt(i)
		size := e.store.rows[i].size()
		e.host.Surface.Place(m.handle, e.adapter.ToPhysicalOffset(offset, size, g), size)
	}
}

func (e *Engine) geometry() Geometry {
	return Geometry{Total: e.store.TotalSize(), Extent: e.host.Scroller.Extent()}
}
