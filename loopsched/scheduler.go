// Package loopsched runs engine callbacks on a go-eventloop loop: frames are
// immediates and the flush debounce is a timeout.
package loopsched

import (
	"fmt"
	"time"

	eventloop "github.com/joeycumines/go-eventloop"
	"github.com/rs/zerolog"

	"github.com/xqrs/vlist"
)

// Scheduler is a vlist.Scheduler backed by an event loop. Its methods must be
// called from the loop goroutine, as every engine callback is.
type Scheduler struct {
	loop *eventloop.Loop
	js   *eventloop.JS
	log  zerolog.Logger

	// Frames requested and not yet run or cancelled.
	pending map[vlist.FrameID]struct{}
}

// New returns a scheduler posting to loop.
func New(loop *eventloop.Loop, log zerolog.Logger) (*Scheduler, error) {
	js, err := eventloop.NewJS(loop)
	if err != nil {
		return nil, fmt.Errorf("loopsched: %w", err)
	}
	return &Scheduler{
		loop:    loop,
		js:      js,
		log:     log.With().Str("component", "loopsched").Logger(),
		pending: make(map[vlist.FrameID]struct{}),
	}, nil
}

// RequestFrame runs fn as an immediate, after the current task.
func (s *Scheduler) RequestFrame(fn func()) vlist.FrameID {
	var id vlist.FrameID
	raw, err := s.js.SetImmediate(func() {
		delete(s.pending, id)
		fn()
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("frame not scheduled")
		return 0
	}
	id = vlist.FrameID(raw)
	s.pending[id] = struct{}{}
	return id
}

// CancelFrame clears a pending immediate.
func (s *Scheduler) CancelFrame(id vlist.FrameID) {
	if _, ok := s.pending[id]; !ok {
		return
	}
	delete(s.pending, id)
	if err := s.js.ClearImmediate(uint64(id)); err != nil {
		s.log.Trace().Err(err).Uint64("frame", uint64(id)).Msg("cancel frame")
	}
}

// PendingFrames returns the number of frames requested that have neither run
// nor been cancelled.
func (s *Scheduler) PendingFrames() int {
	return len(s.pending)
}

// AfterFunc runs fn once d has elapsed.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) vlist.Timer {
	t := &timer{s: s}
	// The loop measures timeouts from the start of its current tick, which
	// lags the wall clock after the loop has been idle.
	delay := d + max(time.Since(s.loop.CurrentTickTime()), 0)
	id, err := s.js.SetTimeout(func() {
		if t.done {
			return
		}
		t.done = true
		fn()
	}, int((delay+time.Millisecond-1)/time.Millisecond))
	if err != nil {
		s.log.Warn().Err(err).Dur("delay", d).Msg("timer not scheduled")
		t.done = true
		return t
	}
	t.id = id
	return t
}

type timer struct {
	s    *Scheduler
	id   uint64
	done bool
}

func (t *timer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	if err := t.s.js.ClearTimeout(t.id); err != nil {
		t.s.log.Trace().Err(err).Uint64("timer", t.id).Msg("stop timer")
		return false
	}
	return true
}
