package vlist

import (
	"time"

	"github.com/rs/zerolog"
)

// State is the phase of the scroll controller's gesture state machine.
type State int

const (
	// StateIdle means no input and no scrolling in the last debounce window.
	StateIdle State = iota
	// StateDragging means a touch or drag input is active.
	StateDragging
	// StateSettling means input ended or momentum scrolling is in progress;
	// the flush runs once scrolling has been quiet for the debounce window.
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateSettling:
		return "settling"
	}
	return "unknown"
}

// ScrollController owns every read and write of the scroll container's
// offset. All offsets it handles are physical.
type ScrollController struct {
	scroller  Scroller
	scheduler Scheduler
	debounce  time.Duration
	quirk     bool
	log       zerolog.Logger

	// onFlush brings measurements up to date right before the flush.
	onFlush func()
	// invalidate asks the owner for another frame.
	invalidate func()

	state State
	timer Timer

	// Last trusted offset and the sign of the last movement.
	offset    float64
	direction int

	// Correction waiting to be written.
	pending float64

	// The next read must be verified against the touch-release defect.
	justReleased bool

	written float64
	echo    bool

	retryObserve bool
	retryFlush   bool
	closed       bool
}

func newScrollController(scroller Scroller, scheduler Scheduler, config Config) *ScrollController {
	offset := scroller.Offset()
	if !isFinite(offset) {
		offset = 0
	}
	return &ScrollController{
		scroller:  scroller,
		scheduler: scheduler,
		debounce:  config.FlushDebounce,
		quirk:     config.WebKitTouchQuirk,
		log:       config.Logger.With().Str("component", "scroll").Logger(),
		offset:    offset,
	}
}

// State returns the current gesture state.
func (c *ScrollController) State() State {
	return c.state
}

// Offset returns the last trusted physical offset.
func (c *ScrollController) Offset() float64 {
	return c.offset
}

// Pending returns the correction not yet written to the container.
func (c *ScrollController) Pending() float64 {
	return c.pending
}

// TouchStart enters Dragging and cancels any pending flush.
func (c *ScrollController) TouchStart() {
	c.stopTimer()
	c.retryFlush = false
	c.justReleased = false
	c.transition(StateDragging)
}

// TouchEnd enters Settling and starts the debounce timer. With the WebKit
// workaround enabled the next offset read is verified.
func (c *ScrollController) TouchEnd() {
	c.justReleased = c.quirk
	c.transition(StateSettling)
	c.restartTimer()
}

// Observe handles a scroll event: it reads the offset and eagerly writes any
// pending correction relative to it. It returns false if the read was
// discarded as stale; a retry is requested on the next frame.
func (c *ScrollController) Observe() bool {
	if c.state == StateIdle && c.echo {
		c.echo = false
		if v := c.scroller.Offset(); v == c.written {
			c.offset = v
			return true
		}
	}
	switch c.state {
	case StateIdle:
		// Scrolling without input: wheel or momentum.
		c.transition(StateSettling)
		c.restartTimer()
	case StateSettling:
		c.restartTimer()
	}
	return c.resync()
}

// Queue adds a physical correction to the pending one.
func (c *ScrollController) Queue(jump float64) {
	if jump == 0 {
		return
	}
	c.pending += jump
}

// Commit writes the pending correction relative to the last trusted offset.
// While a gesture is in flight on a host with the touch defect the write is
// deferred to the next observation or the flush.
func (c *ScrollController) Commit() float64 {
	if c.pending == 0 {
		return 0
	}
	if c.quirk && c.state != StateIdle {
		c.log.Debug().
			Stringer("state", c.state).
			Float64("pending", c.pending).
			Msg("correction deferred")
		return 0
	}
	return c.apply(c.offset)
}

// Flush measures with the freshest geometry, writes the final correction and
// returns to Idle. It returns the physical delta written. It does nothing
// while an input is active.
func (c *ScrollController) Flush() float64 {
	if c.closed || c.state == StateDragging {
		return 0
	}
	c.stopTimer()
	if c.onFlush != nil {
		c.onFlush()
	}
	v, ok := c.read()
	if !ok {
		c.retryFlush = true
		c.requestFrame()
		return 0
	}
	c.retryFlush = false
	c.retryObserve = false
	c.offset = v
	var applied float64
	if c.pending != 0 {
		applied = c.apply(v)
	}
	c.transition(StateIdle)
	c.log.Debug().Float64("offset", c.offset).Float64("correction", applied).Msg("flush")
	return applied
}

// ScrollTo writes an absolute offset, dropping any pending correction.
func (c *ScrollController) ScrollTo(offset float64) {
	target := c.clamp(offset)
	c.pending = 0
	c.offset = target
	c.write(target)
}

// Close cancels the debounce timer. No callback runs afterwards.
func (c *ScrollController) Close() {
	c.closed = true
	c.stopTimer()
}

func (c *ScrollController) onFrame() {
	switch {
	case c.retryFlush && c.state == StateSettling:
		c.Flush()
	case c.retryObserve:
		c.resync()
	}
}

func (c *ScrollController) resync() bool {
	v, ok := c.read()
	if !ok {
		c.retryObserve = true
		c.requestFrame()
		return false
	}
	c.retryObserve = false
	if d := sign(v - c.offset); d != 0 {
		c.direction = d
	}
	c.offset = v
	if c.pending != 0 {
		c.apply(v)
	}
	return true
}

func (c *ScrollController) read() (float64, bool) {
	if !c.justReleased {
		v := c.scroller.Offset()
		if !isFinite(v) {
			c.log.Warn().Err(&StaleObservationError{First: v, Second: v, Previous: c.offset}).Msg("discarding offset read")
			return 0, false
		}
		return v, true
	}
	v, err := readTrustedOffset(c.scroller.Offset, c.offset, c.direction, c.scroller.Extent())
	if err != nil {
		c.log.Warn().Err(err).Msg("discarding offset read")
		return 0, false
	}
	c.justReleased = false
	return v, true
}

func (c *ScrollController) apply(base float64) float64 {
	target := c.clamp(base + c.pending)
	c.pending = 0
	c.offset = target
	if target == base {
		return 0
	}
	c.write(target)
	return target - base
}

func (c *ScrollController) write(v float64) {
	c.written = v
	c.echo = true
	c.scroller.SetOffset(v)
	c.requestFrame()
}

func (c *ScrollController) clamp(v float64) float64 {
	limit := max(c.scroller.ContentExtent()-c.scroller.Extent(), 0)
	return min(max(v, 0), limit)
}

func (c *ScrollController) requestFrame() {
	if c.invalidate != nil && !c.closed {
		c.invalidate()
	}
}

func (c *ScrollController) restartTimer() {
	c.stopTimer()
	c.timer = c.scheduler.AfterFunc(c.debounce, c.fire)
}

func (c *ScrollController) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *ScrollController) fire() {
	c.timer = nil
	if c.closed {
		return
	}
	c.Flush()
}

func (c *ScrollController) transition(next State) {
	if c.state == next {
		return
	}
	c.log.Debug().Stringer("from", c.state).Stringer("to", next).Msg("transition")
	c.state = next
}
