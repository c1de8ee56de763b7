package term

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/xqrs/vlist"
)

// ErrNoScreen is returned by Run when no screen was set.
var ErrNoScreen = errors.New("term: no screen")

// The size of the queued updates channel.
const updatesQueueSize = 100

// MouseAction is what a mouse event means to a primitive. Only the left
// button and the vertical wheel are reported.
type MouseAction int16

// Available mouse actions.
const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseScrollUp
	MouseScrollDown
)

// queuedUpdate represents the execution of f queued by
// Application.QueueUpdate(). If "done" is not nil, it receives exactly one
// element after f has executed.
type queuedUpdate struct {
	f    func()
	done chan struct{}
}

type frameRequest struct {
	id vlist.FrameID
	fn func()
}

// Application represents the top node of an application. It owns the event
// loop and is the [vlist.Scheduler] for engines attached to its primitives:
// frame callbacks run right before the next draw and timers fire on the
// event loop.
//
// The following command displays a primitive p on the screen until the
// application is stopped (for example via QuitCommand):
//
//	if err := term.NewApplication().SetRoot(p).Run(); err != nil {
//	    panic(err)
//	}
type Application struct {
	sync.RWMutex

	// The application's screen.
	screen tcell.Screen

	// The root primitive. It receives every key event.
	root Primitive

	log zerolog.Logger

	// Functions queued from goroutines, used to serialize updates to primitives.
	updates chan queuedUpdate

	// wake requests a draw pass on the event loop.
	wake chan struct{}

	// Frame callbacks waiting for the next draw. Only touched on the event
	// loop.
	frames    []frameRequest
	nextFrame vlist.FrameID

	mouseCapturingPrimitive Primitive        // A Primitive returned by a MouseHandler which will capture future mouse events.
	lastMouseX, lastMouseY  int              // The last position of the mouse.
	lastMouseButtons        tcell.ButtonMask // The last mouse button state.

	// forceRedraw requests a full clear before the next frame.
	forceRedraw bool
}

// NewApplication creates and returns a new application.
func NewApplication() *Application {
	return &Application{
		updates: make(chan queuedUpdate, updatesQueueSize),
		wake:    make(chan struct{}, 1),
		log:     zerolog.Nop(),
	}
}

// SetScreen sets the application's screen, which must already be
// initialized. It has no effect once a screen is set. Run fails without one.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		a.screen = screen
		a.forceRedraw = true
	}
	return a
}

// SetLogger sets the logger used for event loop diagnostics.
func (a *Application) SetLogger(log zerolog.Logger) *Application {
	a.Lock()
	defer a.Unlock()
	a.log = log.With().Str("component", "app").Logger()
	return a
}

// Run starts the application and thus the event loop. This function returns
// when [Application.Stop] was called.
func (a *Application) Run() error {
	var appErr error
	a.Lock()
	screen := a.screen
	if screen == nil {
		a.Unlock()
		return ErrNoScreen
	}
	screen.EnableMouse()

	// We catch panics to clean up because they mess up the terminal.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	events := make(chan tcell.Event, updatesQueueSize)
	go screen.ChannelEvents(events, nil)
	a.Unlock()

	a.draw()

EventLoop:
	for {
		select {
		case event, ok := <-events:
			if !ok {
				break EventLoop
			}

			switch event := event.(type) {
			case *tcell.EventKey:
				a.RLock()
				root := a.root
				a.RUnlock()

				if root != nil {
					if a.executeCommand(root.InputHandler(event)) {
						a.draw()
					}
				}
			case *tcell.EventResize:
				a.Lock()
				// Resize events can imply terminal state changes even when size
				// reports unchanged, so force one redraw pass.
				a.forceRedraw = true
				a.Unlock()
				a.draw()
			case *tcell.EventMouse:
				if a.fireMouseActions(event) {
					a.draw()
				}
				a.lastMouseButtons = event.Buttons()
			case *tcell.EventError:
				a.log.Error().Err(event).Msg("screen error")
				appErr = event
				a.Stop()
			}

		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}

		case <-a.wake:
			a.draw()
		}
	}

	return appErr
}

// fireMouseActions derives mouse actions from event and forwards them to the
// capturing primitive, or to the root when nothing captures the mouse.
func (a *Application) fireMouseActions(event *tcell.EventMouse) (handled bool) {
	fire := func(action MouseAction) {
		primitive := a.mouseCapturingPrimitive
		if primitive == nil {
			a.RLock()
			primitive = a.root
			a.RUnlock()
		}
		if primitive == nil {
			return
		}
		capturing, cmd := primitive.MouseHandler(action, event)
		if a.executeCommand(cmd) {
			handled = true
		}
		a.mouseCapturingPrimitive = capturing
	}

	x, y := event.Position()
	if x != a.lastMouseX || y != a.lastMouseY {
		fire(MouseMove)
		a.lastMouseX, a.lastMouseY = x, y
	}

	buttons := event.Buttons()
	if (buttons^a.lastMouseButtons)&tcell.ButtonPrimary != 0 {
		if buttons&tcell.ButtonPrimary != 0 {
			fire(MouseLeftDown)
		} else {
			fire(MouseLeftUp)
		}
	}
	if buttons&tcell.WheelUp != 0 {
		fire(MouseScrollUp)
	}
	if buttons&tcell.WheelDown != 0 {
		fire(MouseScrollDown)
	}
	return handled
}

// Stop stops the application, causing Run() to return.
func (a *Application) Stop() {
	a.Lock()
	defer a.Unlock()
	screen := a.screen
	if screen == nil {
		return
	}
	screen.Fini()
	a.screen = nil
}

// draw runs the pending frame callbacks, then draws the root primitive.
func (a *Application) draw() *Application {
	frames := a.frames
	a.frames = nil
	for _, f := range frames {
		f.fn()
	}

	a.Lock()
	screen := a.screen
	root := a.root
	forceRedraw := a.forceRedraw
	a.Unlock()

	if screen == nil || root == nil {
		return a
	}

	drawWidth, drawHeight := screen.Size()
	root.SetRect(0, 0, drawWidth, drawHeight)

	// tcell already keeps a logical back buffer and emits only visual deltas in
	// Show(), so only forced redraws clear the screen.
	if forceRedraw {
		screen.Clear()
	}
	root.Draw(screen)
	screen.Show()

	a.Lock()
	a.forceRedraw = false
	a.Unlock()

	return a
}

// SetRoot sets the primitive that fills the screen and receives input.
// Nothing is displayed until it is set.
func (a *Application) SetRoot(root Primitive) *Application {
	a.Lock()
	defer a.Unlock()
	a.root = root
	if a.screen != nil {
		a.forceRedraw = true
	}
	return a
}

// QueueUpdate is used to synchronize access to primitives from non-main
// goroutines. The provided function will be executed as part of the event loop
// and thus will not cause race conditions with other such update functions or
// the Draw() function.
//
// This function returns after f has executed.
func (a *Application) QueueUpdate(f func()) *Application {
	ch := make(chan struct{})
	a.updates <- queuedUpdate{f: f, done: ch}
	<-ch
	return a
}

// QueueUpdateDraw works like QueueUpdate() except it refreshes the screen
// immediately after executing f.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	a.QueueUpdate(func() {
		f()
		a.draw()
	})
	return a
}

// RequestFrame runs fn on the event loop right before the next draw. It must
// be called from the event loop.
func (a *Application) RequestFrame(fn func()) vlist.FrameID {
	a.nextFrame++
	a.frames = append(a.frames, frameRequest{id: a.nextFrame, fn: fn})
	a.requestDraw()
	return a.nextFrame
}

// CancelFrame cancels a frame callback that has not run yet.
func (a *Application) CancelFrame(id vlist.FrameID) {
	a.frames = slices.DeleteFunc(a.frames, func(f frameRequest) bool { return f.id == id })
}

// AfterFunc runs fn on the event loop once d has elapsed.
func (a *Application) AfterFunc(d time.Duration, fn func()) vlist.Timer {
	t := &appTimer{}
	t.timer = time.AfterFunc(d, func() {
		a.updates <- queuedUpdate{f: func() {
			if t.stopped {
				return
			}
			t.fired = true
			fn()
		}}
	})
	return t
}

func (a *Application) requestDraw() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// appTimer is a timer whose callback is posted back onto the event loop. Its
// fields are only touched on the event loop.
type appTimer struct {
	timer   *time.Timer
	stopped bool
	fired   bool
}

// Stop reports whether the callback was still pending.
func (t *appTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

func (a *Application) executeCommand(cmd Command) bool {
	if cmd == nil {
		return false
	}

	switch c := cmd.(type) {
	case BatchCommand:
		handled := false
		for _, item := range c {
			if a.executeCommand(item) {
				handled = true
			}
		}
		return handled
	case RedrawCommand:
		return true
	case QuitCommand:
		a.Stop()
		return false
	case ConsumeEventCommand:
		return false
	}

	return false
}

var _ vlist.Scheduler = &Application{}
