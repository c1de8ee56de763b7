package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventloop "github.com/joeycumines/go-eventloop"
	"github.com/rs/zerolog"

	"github.com/xqrs/vlist"
	"github.com/xqrs/vlist/loopsched"
	"github.com/xqrs/vlist/vlisttest"
)

var (
	// ErrUnsettled is returned when frames keep requesting frames.
	ErrUnsettled = errors.New("replay: frames did not settle")
	// ErrCheck is wrapped by every failed Result check.
	ErrCheck = errors.New("replay: check failed")
)

const maxSettleRounds = 1000

// Gesture is what one touch gesture left behind.
type Gesture struct {
	// Eager is the offset once the frames after the release have run.
	Eager float64
	// Flushed is the offset after the quiet period.
	Flushed float64

	Released vlist.State
	Settled  vlist.State
}

// Result is the outcome of a replayed scenario.
type Result struct {
	// Start is the offset before the first gesture.
	Start    float64
	Gestures []Gesture

	// Direction is the summed drag distance of one gesture.
	Direction float64
	// Deferred is set when corrections were deferred during gestures, so
	// every flush is expected to move the list.
	Deferred bool

	ClampedWrites int
}

// Check reports every way the result breaks the two-phase settle.
func (r Result) Check() error {
	var errs []error
	previous := r.Start
	for i, g := range r.Gestures {
		if g.Released != vlist.StateSettling {
			errs = append(errs, fmt.Errorf("%w: gesture %d: released into %s, want settling", ErrCheck, i, g.Released))
		}
		if g.Settled != vlist.StateIdle {
			errs = append(errs, fmt.Errorf("%w: gesture %d: quiet period ended in %s, want idle", ErrCheck, i, g.Settled))
		}
		if r.Deferred && g.Eager == g.Flushed {
			errs = append(errs, fmt.Errorf("%w: gesture %d: flush did not move the list from %g", ErrCheck, i, g.Eager))
		}
		switch {
		case r.Direction < 0 && g.Flushed >= previous:
			errs = append(errs, fmt.Errorf("%w: gesture %d: offset %g did not decrease from %g", ErrCheck, i, g.Flushed, previous))
		case r.Direction > 0 && g.Flushed <= previous:
			errs = append(errs, fmt.Errorf("%w: gesture %d: offset %g did not increase from %g", ErrCheck, i, g.Flushed, previous))
		}
		previous = g.Flushed
	}
	if r.ClampedWrites > 0 {
		errs = append(errs, fmt.Errorf("%w: %d offset writes were clamped", ErrCheck, r.ClampedWrites))
	}
	return errors.Join(errs...)
}

// Run replays sc on a fresh event loop. The engine and host live on the loop
// goroutine; the caller's goroutine only submits steps and waits for them.
func Run(ctx context.Context, sc Scenario, log zerolog.Logger) (Result, error) {
	if err := sc.Validate(); err != nil {
		return Result{}, err
	}
	loop, err := eventloop.New()
	if err != nil {
		return Result{}, fmt.Errorf("replay: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := loop.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Debug().Err(err).Msg("event loop stopped")
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
		defer shutdownCancel()
		if err := loop.Shutdown(shutdownCtx); err != nil {
			log.Debug().Err(err).Msg("event loop shutdown")
		}
		cancel()
		<-stopped
	}()

	sched, err := loopsched.New(loop, log)
	if err != nil {
		return Result{}, err
	}
	r := &runner{loop: loop, sched: sched, log: log}
	return r.replay(ctx, sc)
}

type runner struct {
	loop  *eventloop.Loop
	sched *loopsched.Scheduler
	log   zerolog.Logger

	host   *vlisttest.Host
	engine *vlist.Engine
}

func (r *runner) replay(ctx context.Context, sc Scenario) (Result, error) {
	err := r.do(ctx, func() error {
		r.host = vlisttest.NewHost(r.sched, sc.Extent, sc.Sizes.Size)
		r.host.StaleReadsAfterRelease = sc.StaleReads
		opts := append(sc.Options(), vlist.WithLogger(r.log))
		e, err := vlist.New(r.host.Bindings(), opts...)
		if err != nil {
			return err
		}
		r.engine = e
		return e.Append(sc.Rows)
	})
	if err != nil {
		return Result{}, err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second)
		defer closeCancel()
		if err := r.do(closeCtx, r.engine.Close); err != nil {
			r.log.Debug().Err(err).Msg("close engine")
		}
	}()

	if err := r.quiet(ctx, sc.quiet()); err != nil {
		return Result{}, err
	}
	result := Result{
		Direction: sc.direction(),
		Deferred:  sc.WebKitTouchQuirk,
		Gestures:  make([]Gesture, 0, sc.Gestures),
	}
	if err := r.do(ctx, func() error {
		result.Start = r.host.RawOffset()
		return nil
	}); err != nil {
		return Result{}, err
	}

	for i := range sc.Gestures {
		g, err := r.gesture(ctx, sc)
		if err != nil {
			return Result{}, fmt.Errorf("replay: gesture %d: %w", i, err)
		}
		r.log.Debug().
			Int("gesture", i).
			Float64("eager", g.Eager).
			Float64("flushed", g.Flushed).
			Stringer("released", g.Released).
			Msg("gesture settled")
		result.Gestures = append(result.Gestures, g)
	}

	err = r.do(ctx, func() error {
		result.ClampedWrites = r.host.ClampedWrites
		return nil
	})
	return result, err
}

func (r *runner) gesture(ctx context.Context, sc Scenario) (Gesture, error) {
	var g Gesture
	if err := r.do(ctx, func() error {
		r.host.TouchStart()
		return nil
	}); err != nil {
		return g, err
	}
	for _, delta := range sc.Drags {
		if err := r.do(ctx, func() error {
			r.host.Drag(delta)
			return nil
		}); err != nil {
			return g, err
		}
		if err := r.settle(ctx); err != nil {
			return g, err
		}
	}
	if err := r.do(ctx, func() error {
		r.host.TouchEnd()
		return nil
	}); err != nil {
		return g, err
	}
	if err := r.settle(ctx); err != nil {
		return g, err
	}
	if err := r.do(ctx, func() error {
		g.Eager = r.host.RawOffset()
		g.Released = r.engine.State()
		return nil
	}); err != nil {
		return g, err
	}

	if err := r.quiet(ctx, sc.quiet()); err != nil {
		return g, err
	}
	err := r.do(ctx, func() error {
		g.Flushed = r.host.RawOffset()
		g.Settled = r.engine.State()
		return nil
	})
	return g, err
}

// do runs fn on the loop and waits for it.
func (r *runner) do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	if err := r.loop.Submit(func() { done <- fn() }); err != nil {
		return fmt.Errorf("replay: submit: %w", err)
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settle waits until no frame is pending. Frames are immediates, so a probe
// submitted after them observes the frames they requested in turn.
func (r *runner) settle(ctx context.Context) error {
	for range maxSettleRounds {
		var pending int
		if err := r.do(ctx, func() error {
			pending = r.sched.PendingFrames()
			return nil
		}); err != nil {
			return err
		}
		if pending == 0 {
			return nil
		}
	}
	return ErrUnsettled
}

// quiet waits out d and then lets the frames the flush requested run.
func (r *runner) quiet(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.settle(ctx)
}
