package vlisttest

import (
	"slices"

	"github.com/xqrs/vlist"
)

// Row is a row mounted into a Host.
type Row struct {
	index  int
	Offset float64
	Size   float64
}

// Index returns the row's physical index.
func (r *Row) Index() int {
	return r.index
}

// Host is an in-memory scroll container and render surface. Rows measure as
// sizes(physicalIndex). Offsets written by the engine are clamped the way a
// browser clamps scrollTop, and they do not emit scroll events.
type Host struct {
	scheduler vlist.Scheduler
	sizes     func(index int) float64

	offset  float64
	extent  float64
	content float64

	listeners map[int]vlist.Listener
	nextSub   int

	rows map[int]*Row

	// StaleReadsAfterRelease is the number of Offset reads after a touch
	// release that report 0 instead of the real offset.
	StaleReadsAfterRelease int
	staleLeft              int

	// Writes records every offset written through SetOffset, before
	// clamping. ClampedWrites counts those outside the scrollable range.
	Writes        []float64
	ClampedWrites int
}

// NewHost returns a host with the given viewport extent.
func NewHost(scheduler vlist.Scheduler, extent float64, sizes func(index int) float64) *Host {
	return &Host{
		scheduler: scheduler,
		sizes:     sizes,
		extent:    extent,
		listeners: make(map[int]vlist.Listener),
		rows:      make(map[int]*Row),
	}
}

// Bindings returns the host as engine collaborators.
func (h *Host) Bindings() vlist.Host {
	return vlist.Host{Surface: h, Scroller: h, Scheduler: h.scheduler}
}

// Offset returns the scroll offset, or 0 while a simulated stale read is due.
func (h *Host) Offset() float64 {
	if h.staleLeft > 0 {
		h.staleLeft--
		return 0
	}
	return h.offset
}

// RawOffset returns the real scroll offset without simulating stale reads.
func (h *Host) RawOffset() float64 {
	return h.offset
}

// SetOffset moves the container, clamped to the content.
func (h *Host) SetOffset(offset float64) {
	h.Writes = append(h.Writes, offset)
	h.offset = h.clamp(offset)
	if h.offset != offset {
		h.ClampedWrites++
	}
}

// Extent returns the viewport extent.
func (h *Host) Extent() float64 {
	return h.extent
}

// ContentExtent returns the content size last set by the surface.
func (h *Host) ContentExtent() float64 {
	return h.content
}

// Subscribe registers a listener.
func (h *Host) Subscribe(listener vlist.Listener) func() {
	id := h.nextSub
	h.nextSub++
	h.listeners[id] = listener
	return func() { delete(h.listeners, id) }
}

// Listeners returns the number of subscribed listeners.
func (h *Host) Listeners() int {
	return len(h.listeners)
}

// Mount creates rows for every physical index in rng.
func (h *Host) Mount(rng vlist.Range) []vlist.RowHandle {
	handles := make([]vlist.RowHandle, 0, rng.Len())
	for i := rng.Start; i < rng.End; i++ {
		r := &Row{index: i}
		h.rows[i] = r
		handles = append(handles, r)
	}
	return handles
}

// Unmount removes rows.
func (h *Host) Unmount(indices []int) {
	for _, i := range indices {
		delete(h.rows, i)
	}
}

// Measure returns the rendered size of a row.
func (h *Host) Measure(row vlist.RowHandle) float64 {
	return h.sizes(row.Index())
}

// Place records a row's position.
func (h *Host) Place(row vlist.RowHandle, offset, size float64) {
	if r, ok := row.(*Row); ok {
		r.Offset = offset
		r.Size = size
	}
}

// SetContentExtent sets the content size and pulls the offset back inside it.
func (h *Host) SetContentExtent(total float64) {
	h.content = total
	h.offset = h.clamp(h.offset)
}

// Mounted returns the physical indices of the mounted rows in order.
func (h *Host) Mounted() []int {
	indices := make([]int, 0, len(h.rows))
	for i := range h.rows {
		indices = append(indices, i)
	}
	slices.Sort(indices)
	return indices
}

// Row returns a mounted row by physical index.
func (h *Host) Row(index int) (*Row, bool) {
	r, ok := h.rows[index]
	return r, ok
}

// TouchStart begins a drag.
func (h *Host) TouchStart() {
	h.emit(vlist.EventTouchStart)
}

// Drag moves the content by delta while a touch is down.
func (h *Host) Drag(delta float64) {
	h.Scroll(delta)
}

// TouchEnd releases a drag. The next StaleReadsAfterRelease offset reads
// report 0.
func (h *Host) TouchEnd() {
	h.staleLeft = h.StaleReadsAfterRelease
	h.emit(vlist.EventTouchEnd)
}

// Scroll moves the offset by delta as a wheel or momentum scroll would.
func (h *Host) Scroll(delta float64) {
	h.offset = h.clamp(h.offset + delta)
	h.emit(vlist.EventScroll)
}

func (h *Host) emit(kind vlist.EventKind) {
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if l, ok := h.listeners[id]; ok {
			l(vlist.Event{Kind: kind})
		}
	}
}

func (h *Host) clamp(v float64) float64 {
	return min(max(v, 0), max(h.content-h.extent, 0))
}
