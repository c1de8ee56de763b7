package term

import (
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/vlist"
)

// RowBuilder returns the text of the row with the given physical index.
type RowBuilder func(index int) string

// listRow is a row mounted into a VirtualList.
type listRow struct {
	index  int
	offset float64
	size   float64
}

// Index returns the row's physical index.
func (r *listRow) Index() int {
	return r.index
}

type listListener struct {
	id int
	fn vlist.Listener
}

type dragMode int

const (
	dragNone dragMode = iota
	dragContent
	dragThumb
)

// VirtualList is a vertical scroll container that renders only the rows a
// [vlist.Engine] mounts into it. It is both the engine's [vlist.Surface] and
// its [vlist.Scroller]: offsets and sizes are in terminal lines, rows are
// word-wrapped to the list's width, and the last column holds a scroll bar.
//
// Dragging with the left button behaves like a touch gesture, the mouse
// wheel and the keys of the list's key map scroll without one.
type VirtualList struct {
	*Box

	builder   RowBuilder
	rowStyle  tcell.Style
	keys      ListKeyMap
	wheelStep float64

	rows    map[int]*listRow
	offset  float64
	content float64

	listeners    []listListener
	nextListener int

	drag  dragMode
	dragY int

	scrollBar *ScrollBar

	// Inner size seen by the last draw.
	lastWidth, lastHeight int
	resized               func()
}

// NewVirtualList returns an empty list drawing rows produced by builder.
func NewVirtualList(builder RowBuilder) *VirtualList {
	return &VirtualList{
		Box:       NewBox(),
		builder:   builder,
		rowStyle:  tcell.StyleDefault.Foreground(Styles.PrimaryTextColor),
		keys:      DefaultListKeyMap(),
		wheelStep: 3,
		rows:      make(map[int]*listRow),
		scrollBar: NewScrollBar(),
	}
}

// SetKeyMap sets the keys the list scrolls with.
func (l *VirtualList) SetKeyMap(keys ListKeyMap) *VirtualList {
	l.keys = keys
	return l
}

// KeyMap returns the keys the list scrolls with.
func (l *VirtualList) KeyMap() ListKeyMap {
	return l.keys
}

// SetRowStyle sets the style rows are printed with.
func (l *VirtualList) SetRowStyle(style tcell.Style) *VirtualList {
	l.rowStyle = style
	l.MarkDirty()
	return l
}

// SetWheelStep sets the number of lines one wheel notch scrolls.
func (l *VirtualList) SetWheelStep(lines float64) *VirtualList {
	l.wheelStep = max(lines, 1)
	return l
}

// SetResizedFunc sets a handler called from Draw when the list's inner size
// changed. Rows wrap to the width, so the owner typically remeasures.
func (l *VirtualList) SetResizedFunc(handler func()) *VirtualList {
	l.resized = handler
	return l
}

// ScrollBar returns the list's scroll bar.
func (l *VirtualList) ScrollBar() *ScrollBar {
	return l.scrollBar
}

// Offset returns the scroll offset in lines.
func (l *VirtualList) Offset() float64 {
	return l.offset
}

// SetOffset moves the list, clamped to the content. It does not notify
// listeners.
func (l *VirtualList) SetOffset(offset float64) {
	if !isFinite(offset) {
		return
	}
	offset = l.clamp(offset)
	if offset != l.offset {
		l.offset = offset
		l.MarkDirty()
	}
}

// Extent returns the number of visible lines.
func (l *VirtualList) Extent() float64 {
	_, _, _, height := l.GetInnerRect()
	return float64(height)
}

// ContentExtent returns the content height in lines.
func (l *VirtualList) ContentExtent() float64 {
	return l.content
}

// Subscribe registers listener for scroll and drag notifications.
func (l *VirtualList) Subscribe(listener vlist.Listener) func() {
	id := l.nextListener
	l.nextListener++
	l.listeners = append(l.listeners, listListener{id: id, fn: listener})
	return func() {
		l.listeners = slices.DeleteFunc(l.listeners, func(e listListener) bool { return e.id == id })
	}
}

// Mount creates rows for every physical index in rng.
func (l *VirtualList) Mount(rng vlist.Range) []vlist.RowHandle {
	handles := make([]vlist.RowHandle, 0, rng.Len())
	for i := rng.Start; i < rng.End; i++ {
		r := &listRow{index: i, offset: math.NaN()}
		l.rows[i] = r
		handles = append(handles, r)
	}
	l.MarkDirty()
	return handles
}

// Unmount removes rows.
func (l *VirtualList) Unmount(indices []int) {
	for _, i := range indices {
		delete(l.rows, i)
	}
	l.MarkDirty()
}

// Measure returns the number of lines the row wraps to.
func (l *VirtualList) Measure(row vlist.RowHandle) float64 {
	return float64(len(l.wrap(row.Index())))
}

// Place positions a row.
func (l *VirtualList) Place(row vlist.RowHandle, offset, size float64) {
	r, ok := row.(*listRow)
	if !ok {
		return
	}
	if r.offset != offset || r.size != size {
		r.offset, r.size = offset, size
		l.MarkDirty()
	}
}

// SetContentExtent sets the content height and pulls the offset back inside
// it.
func (l *VirtualList) SetContentExtent(total float64) {
	if l.content != total {
		l.content = total
		l.MarkDirty()
	}
	l.SetOffset(l.offset)
}

// Draw draws the mounted rows and the scroll bar.
func (l *VirtualList) Draw(screen tcell.Screen) {
	defer l.MarkClean()
	l.Box.Draw(screen)

	x, y, width, height := l.GetInnerRect()
	if width != l.lastWidth || height != l.lastHeight {
		l.lastWidth, l.lastHeight = width, height
		l.SetOffset(l.offset)
		if l.resized != nil {
			l.resized()
		}
	}
	if width <= 0 || height <= 0 {
		return
	}

	textWidth := l.textWidth()
	for _, r := range l.mountedRows() {
		if math.IsNaN(r.offset) {
			continue
		}
		top := y + int(math.Round(r.offset-l.offset))
		if top >= y+height || top+int(math.Ceil(r.size)) <= y {
			continue
		}
		for i, line := range l.wrap(r.index) {
			row := top + i
			if row < y || row >= y+height {
				continue
			}
			printWithStyle(screen, line, x, row, 0, textWidth, AlignmentLeft, l.rowStyle, true)
		}
	}

	l.syncScrollBar()
	l.scrollBar.Draw(screen)
}

// syncScrollBar lays the scroll bar out in the last inner column.
func (l *VirtualList) syncScrollBar() {
	x, y, width, height := l.GetInnerRect()
	l.scrollBar.SetRect(x+width-1, y, 1, height)
	l.scrollBar.SetMetrics(l.offset, l.content, float64(height))
}

// InputHandler scrolls on the keys of the list's key map.
func (l *VirtualList) InputHandler(event *tcell.EventKey) Command {
	page := max(l.Extent()-1, 1)
	switch {
	case l.keys.LineUp.Matches(event):
		return l.userScroll(l.offset - 1)
	case l.keys.LineDown.Matches(event):
		return l.userScroll(l.offset + 1)
	case l.keys.PageUp.Matches(event):
		return l.userScroll(l.offset - page)
	case l.keys.PageDown.Matches(event):
		return l.userScroll(l.offset + page)
	case l.keys.Top.Matches(event):
		return l.userScroll(0)
	case l.keys.Bottom.Matches(event):
		return l.userScroll(l.maxOffset())
	}
	return nil
}

// MouseHandler turns left-button drags into touch gestures and scrolls on the
// wheel. Dragging inside the scroll bar column moves the thumb.
func (l *VirtualList) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	if l.drag != dragNone {
		switch action {
		case MouseMove:
			return l, l.dragTo(y)
		case MouseLeftUp:
			l.drag = dragNone
			l.emit(vlist.EventTouchEnd)
			return nil, RedrawCommand{}
		}
		return l, nil
	}

	if !l.InInnerRect(x, y) {
		return nil, nil
	}
	switch action {
	case MouseLeftDown:
		innerX, _, width, _ := l.GetInnerRect()
		l.drag = dragContent
		if x == innerX+width-1 {
			l.drag = dragThumb
		}
		l.dragY = y
		l.emit(vlist.EventTouchStart)
		cmd := Command(RedrawCommand{})
		if l.drag == dragThumb {
			cmd = AppendCommand(cmd, l.dragTo(y))
		}
		return l, cmd
	case MouseScrollUp:
		return nil, l.userScroll(l.offset - l.wheelStep)
	case MouseScrollDown:
		return nil, l.userScroll(l.offset + l.wheelStep)
	}
	return nil, nil
}

func (l *VirtualList) dragTo(y int) Command {
	switch l.drag {
	case dragThumb:
		l.syncScrollBar()
		_, innerY, _, _ := l.GetInnerRect()
		return l.userScroll(l.scrollBar.OffsetAt(y - innerY))
	case dragContent:
		delta := float64(l.dragY - y)
		l.dragY = y
		return l.userScroll(l.offset + delta)
	}
	return nil
}

// userScroll moves the list on behalf of the user and notifies listeners.
func (l *VirtualList) userScroll(offset float64) Command {
	offset = l.clamp(offset)
	if offset == l.offset {
		return ConsumeEventCommand{}
	}
	l.offset = offset
	l.MarkDirty()
	l.emit(vlist.EventScroll)
	return RedrawCommand{}
}

func (l *VirtualList) emit(kind vlist.EventKind) {
	for _, e := range slices.Clone(l.listeners) {
		e.fn(vlist.Event{Kind: kind})
	}
}

func (l *VirtualList) mountedRows() []*listRow {
	rows := make([]*listRow, 0, len(l.rows))
	for _, r := range l.rows {
		rows = append(rows, r)
	}
	slices.SortFunc(rows, func(a, b *listRow) int { return a.index - b.index })
	return rows
}

// textWidth is the inner width minus the scroll bar column.
func (l *VirtualList) textWidth() int {
	_, _, width, _ := l.GetInnerRect()
	return max(width-1, 1)
}

func (l *VirtualList) wrap(index int) []string {
	var text string
	if l.builder != nil {
		text = l.builder(index)
	}
	lines := WordWrap(text, l.textWidth())
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func (l *VirtualList) maxOffset() float64 {
	return max(l.content-l.Extent(), 0)
}

func (l *VirtualList) clamp(offset float64) float64 {
	return min(max(offset, 0), l.maxOffset())
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var (
	_ Primitive      = &VirtualList{}
	_ vlist.Surface  = &VirtualList{}
	_ vlist.Scroller = &VirtualList{}
)
