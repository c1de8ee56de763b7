// Package vlisttest provides deterministic in-memory hosts for exercising a
// vlist.Engine without a terminal: a manual clock with explicit frames, and a
// scroll container that can replay the WebKit touch-release defect.
package vlisttest

import (
	"slices"
	"time"

	"github.com/xqrs/vlist"
)

// Scheduler is a vlist.Scheduler driven by hand. Frames run only when
// RunFrame is called and timers only when the clock is advanced.
type Scheduler struct {
	now    time.Duration
	nextID uint64
	frames []frame
	timers []*Timer
}

type frame struct {
	id vlist.FrameID
	fn func()
}

// NewScheduler returns a scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the time elapsed on the manual clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// RequestFrame queues fn for the next RunFrame.
func (s *Scheduler) RequestFrame(fn func()) vlist.FrameID {
	s.nextID++
	id := vlist.FrameID(s.nextID)
	s.frames = append(s.frames, frame{id: id, fn: fn})
	return id
}

// CancelFrame drops a queued frame callback.
func (s *Scheduler) CancelFrame(id vlist.FrameID) {
	s.frames = slices.DeleteFunc(s.frames, func(f frame) bool { return f.id == id })
}

// AfterFunc schedules fn to run once the clock has advanced by d.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) vlist.Timer {
	s.nextID++
	t := &Timer{s: s, seq: s.nextID, due: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// PendingFrames returns the number of queued frame callbacks.
func (s *Scheduler) PendingFrames() int {
	return len(s.frames)
}

// PendingTimers returns the number of timers that have not fired or been
// stopped.
func (s *Scheduler) PendingTimers() int {
	return len(s.timers)
}

// RunFrame runs the callbacks queued before the call. Callbacks they request
// wait for the next frame. It reports whether anything ran.
func (s *Scheduler) RunFrame() bool {
	batch := s.frames
	s.frames = nil
	for _, f := range batch {
		f.fn()
	}
	return len(batch) > 0
}

// RunFrames runs frames until none are requested or limit frames ran. It
// returns the number of frames run.
func (s *Scheduler) RunFrames(limit int) int {
	n := 0
	for n < limit && s.RunFrame() {
		n++
	}
	return n
}

// Advance moves the clock forward by d, firing due timers in order.
func (s *Scheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		t := s.nextDue(end)
		if t == nil {
			break
		}
		s.now = t.due
		s.remove(t)
		t.fn()
	}
	s.now = end
}

// Settle runs pending frames, advances the clock by d and runs the frames
// that follow.
func (s *Scheduler) Settle(d time.Duration) {
	const maxFrames = 1000
	s.RunFrames(maxFrames)
	s.Advance(d)
	s.RunFrames(maxFrames)
}

func (s *Scheduler) nextDue(end time.Duration) *Timer {
	var next *Timer
	for _, t := range s.timers {
		if t.due > end {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *Scheduler) remove(t *Timer) bool {
	i := slices.Index(s.timers, t)
	if i < 0 {
		return false
	}
	s.timers = slices.Delete(s.timers, i, i+1)
	return true
}

// Timer is a timer on the manual clock.
type Timer struct {
	s   *Scheduler
	seq uint64
	due time.Duration
	fn  func()
}

// Stop cancels the timer. It reports whether the timer was pending.
func (t *Timer) Stop() bool {
	return t.s.remove(t)
}
