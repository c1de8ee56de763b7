package vlist

import "time"

// EventKind identifies a scroll container notification.
type EventKind int

const (
	// EventScroll is delivered whenever the container's offset changed.
	EventScroll EventKind = iota
	// EventTouchStart is delivered when a touch or drag input begins.
	EventTouchStart
	// EventTouchEnd is delivered when the input is released.
	EventTouchEnd
)

func (k EventKind) String() string {
	switch k {
	case EventScroll:
		return "scroll"
	case EventTouchStart:
		return "touchstart"
	case EventTouchEnd:
		return "touchend"
	}
	return "unknown"
}

// Event is a scroll container notification.
type Event struct {
	Kind EventKind
}

// Listener receives scroll container notifications on the UI goroutine.
type Listener func(Event)

// Scroller is the host scroll container. All values are physical.
type Scroller interface {
	// Offset returns the current scroll offset along the axis.
	Offset() float64
	// SetOffset moves the container. Hosts may clamp the value.
	SetOffset(offset float64)
	// Extent returns the visible size of the container along the axis.
	Extent() float64
	// ContentExtent returns the scrollable content size along the axis.
	ContentExtent() float64
	// Subscribe registers listener and returns a function that removes it.
	Subscribe(listener Listener) (unsubscribe func())
}

// RowHandle is a row mounted into the render surface.
type RowHandle interface {
	// Index returns the physical (DOM order) index of the row.
	Index() int
}

// Measurer reads the rendered size of a mounted row along the scroll axis.
type Measurer interface {
	Measure(row RowHandle) float64
}

// Surface renders rows. Ranges, indices and offsets are physical.
type Surface interface {
	Measurer
	// Mount renders every row of rng and returns their handles.
	Mount(rng Range) []RowHandle
	// Unmount removes the rows with the given physical indices.
	Unmount(indices []int)
	// Place positions a mounted row along the scroll axis.
	Place(row RowHandle, offset, size float64)
	// SetContentExtent sets the scrollable content size.
	SetContentExtent(total float64)
}

// FrameID identifies a requested frame callback.
type FrameID uint64

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// timer was still pending.
	Stop() bool
}

// Scheduler runs callbacks on the host's UI goroutine.
type Scheduler interface {
	// RequestFrame runs fn before the next frame is presented.
	RequestFrame(fn func()) FrameID
	// CancelFrame cancels a frame callback that has not run yet.
	CancelFrame(id FrameID)
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Host bundles the collaborators an Engine is attached to.
type Host struct {
	Surface   Surface
	Scroller  Scroller
	Scheduler Scheduler
}

func (h Host) validate() error {
	switch {
	case h.Surface == nil:
		return &ConfigError{Field: "host.surface", Reason: "required"}
	case h.Scroller == nil:
		return &ConfigError{Field: "host.scroller", Reason: "required"}
	case h.Scheduler == nil:
		return &ConfigError{Field: "host.scheduler", Reason: "required"}
	}
	return nil
}
