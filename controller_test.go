package vlist

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScroller struct {
	offset, extent, content float64
	// Reads that report 0 before the real offset is returned again.
	stale  int
	writes []float64
}

func (s *stubScroller) Offset() float64 {
	if s.stale > 0 {
		s.stale--
		return 0
	}
	return s.offset
}

func (s *stubScroller) SetOffset(v float64) {
	s.offset = v
	s.writes = append(s.writes, v)
}

func (s *stubScroller) Extent() float64 { return s.extent }
func (s *stubScroller) ContentExtent() float64 { return s.content }
func (s *stubScroller) Subscribe(Listener) func() { return func() {} }

type stubTimer struct {
	fn      func()
	stopped bool
}

func (t *stubTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type stubScheduler struct {
	timers []*stubTimer
	frames int
}

func (s *stubScheduler) RequestFrame(func()) FrameID {
	s.frames++
	return FrameID(s.frames)
}

func (s *stubScheduler) CancelFrame(FrameID) {}

func (s *stubScheduler) AfterFunc(_ time.Duration, fn func()) Timer {
	t := &stubTimer{fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *stubScheduler) live() []*stubTimer {
	var live []*stubTimer
	for _, t := range s.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	return live
}

// fire runs the only pending timer.
func (s *stubScheduler) fire(t *testing.T) {
	t.Helper()
	live := s.live()
	require.Len(t, live, 1, "exactly one debounce timer pending")
	live[0].stopped = true
	live[0].fn()
}

func newTestController(quirk bool) (*ScrollController, *stubScroller, *stubScheduler) {
	scroller := &stubScroller{offset: 100, extent: 200, content: 1000}
	scheduler := &stubScheduler{}
	config := DefaultConfig()
	config.WebKitTouchQuirk = quirk
	config.Logger = zerolog.Nop()
	return newScrollController(scroller, scheduler, config), scroller, scheduler
}

func TestScrollController_Transitions(t *testing.T) {
	c, scroller, scheduler := newTestController(false)
	assert.Equal(t, StateIdle, c.State())

	c.TouchStart()
	assert.Equal(t, StateDragging, c.State())
	scroller.offset = 80
	assert.True(t, c.Observe())
	assert.Equal(t, StateDragging, c.State())
	assert.Empty(t, scheduler.live(), "no flush while dragging")

	c.TouchEnd()
	assert.Equal(t, StateSettling, c.State())
	require.Len(t, scheduler.live(), 1)

	// Momentum events restart the timer instead of stacking another.
	scroller.offset = 70
	c.Observe()
	assert.Len(t, scheduler.live(), 1)

	// A new touch cancels the pending flush.
	c.TouchStart()
	assert.Empty(t, scheduler.live())
	assert.Equal(t, StateDragging, c.State())

	c.TouchEnd()
	scheduler.fire(t)
	assert.Equal(t, StateIdle, c.State())

	// Wheel scrolling without a touch goes straight to Settling.
	scroller.offset = 90
	c.Observe()
	assert.Equal(t, StateSettling, c.State())
	scheduler.fire(t)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 90.0, c.Offset())
}

func TestScrollController_CommitClamps(t *testing.T) {
	tests := map[string]struct {
		jump float64
		want float64
	}{
		"forward":       {jump: 50, want: 150},
		"backward":      {jump: -30, want: 70},
		"below zero":    {jump: -500, want: 0},
		"past the end":  {jump: 10000, want: 800},
		"zero is no-op": {jump: 0, want: 100},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c, scroller, _ := newTestController(false)
			c.Queue(tc.jump)
			c.Commit()
			assert.Equal(t, tc.want, scroller.offset)
			assert.Equal(t, tc.want, c.Offset())
			assert.Zero(t, c.Pending())
		})
	}
}

func TestScrollController_CommitWhileDragging(t *testing.T) {
	c, scroller, _ := newTestController(false)
	c.TouchStart()
	c.Queue(40)
	assert.Equal(t, 40.0, c.Commit(), "hosts without the touch defect correct immediately")
	assert.Equal(t, 140.0, scroller.offset)
}

func TestScrollController_DeferredUntilObservation(t *testing.T) {
	c, scroller, _ := newTestController(true)
	c.TouchStart()
	c.Queue(30)
	assert.Zero(t, c.Commit())
	assert.Equal(t, 30.0, c.Pending())
	assert.Empty(t, scroller.writes)

	// The eager correction is applied relative to the fresh observation.
	scroller.offset = 60
	require.True(t, c.Observe())
	assert.Equal(t, 90.0, scroller.offset)
	assert.Zero(t, c.Pending())
}

func TestScrollController_StaleReadAfterRelease(t *testing.T) {
	c, scroller, scheduler := newTestController(true)
	scroller.offset = 500
	c.offset = 500

	c.TouchStart()
	scroller.offset = 400
	require.True(t, c.Observe())
	c.Queue(25)
	c.Commit()

	scroller.stale = 1
	c.TouchEnd()
	scheduler.fire(t)

	assert.Equal(t, StateSettling, c.State(), "flush waits for a trusted read")
	assert.Empty(t, scroller.writes, "nothing written from a stale read")
	assert.Equal(t, 25.0, c.Pending())

	c.onFrame()
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 425.0, scroller.offset)
	assert.Zero(t, c.Flush(), "second flush is a no-op")
	assert.Equal(t, []float64{425}, scroller.writes)
}

func TestScrollController_FlushIgnoredWhileDragging(t *testing.T) {
	c, scroller, _ := newTestController(true)
	c.TouchStart()
	c.Queue(10)
	assert.Zero(t, c.Flush())
	assert.Equal(t, StateDragging, c.State())
	assert.Empty(t, scroller.writes)
}

func TestScrollController_EchoIgnored(t *testing.T) {
	c, scroller, scheduler := newTestController(false)
	c.ScrollTo(300)
	assert.Equal(t, 300.0, scroller.offset)

	assert.True(t, c.Observe())
	assert.Equal(t, StateIdle, c.State(), "own write does not start a gesture")
	assert.Empty(t, scheduler.live())
}

func TestScrollController_Close(t *testing.T) {
	c, scroller, scheduler := newTestController(false)
	c.TouchStart()
	c.TouchEnd()
	timers := scheduler.live()
	require.Len(t, timers, 1)

	c.Close()
	assert.Empty(t, scheduler.live())

	c.Queue(10)
	timers[0].fn()
	assert.Empty(t, scroller.writes)
	assert.Equal(t, StateSettling, c.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "dragging", StateDragging.String())
	assert.Equal(t, "settling", StateSettling.String())
}
