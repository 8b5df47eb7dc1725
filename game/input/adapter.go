package input

import (
	"sync"

	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
)

// Adapter forwards input to one engine. All engine access goes through the
// adapter's lock so stimuli from several sources are applied one at a time.
type Adapter struct {
	mu      sync.Mutex
	engine  *engine.Engine
	onWon   func()
	stopped bool
}

// NewAdapter binds an adapter to eng. onWon runs once, after the move that
// reaches the goal, and may be nil.
func NewAdapter(eng *engine.Engine, onWon func()) *Adapter {
	return &Adapter{
		engine:  eng,
		onWon:   onWon,
		stopped: eng.Solved(),
	}
}

// Handle maps a key to a direction and forwards it. forwarded is false when
// the key is not a direction or the session is already solved; outcome is
// only meaningful when forwarded is true.
func (a *Adapter) Handle(key Key) (outcome engine.Outcome, forwarded bool) {
	dir, ok := key.Direction()
	if !ok {
		return outcome, false
	}
	return a.Forward(dir)
}

// Forward makes one engine call for dir unless the session is solved
func (a *Adapter) Forward(dir maze.Direction) (outcome engine.Outcome, forwarded bool) {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return engine.AlreadySolved, false
	}

	outcome = a.engine.AttemptMove(dir)

	var hook func()
	if outcome == engine.Won {
		a.stopped = true
		hook = a.onWon
	}
	a.mu.Unlock()

	if hook != nil {
		hook()
	}
	return outcome, true
}

// Attach registers the adapter with d and returns the release func
func (a *Adapter) Attach(d *Dispatcher) (release func()) {
	return d.Register(a.Handle)
}

// Stopped reports whether the adapter has stopped forwarding
func (a *Adapter) Stopped() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopped
}

// Reset starts a new session on the engine and replaces the win hook
func (a *Adapter) Reset(onWon func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.engine.Reset()
	a.onWon = onWon
	a.stopped = false
}

// Inspect runs fn with exclusive access to the engine
func (a *Adapter) Inspect(fn func(eng *engine.Engine)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.engine)
}
