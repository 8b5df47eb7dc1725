package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/input"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
	"github.com/CyberMindX-AI/merrychristmas/game/signal"
)

var ErrSessionClosed = errors.New("session closed")

// CompletionHandler is the host callback run once the celebration delay
// after a solved maze has elapsed.
type CompletionHandler func(s *Session)

// PressResult is the outcome of one input stimulus
type PressResult struct {
	Key       input.Key      `json:"key"`
	Outcome   engine.Outcome `json:"outcome"`
	Forwarded bool           `json:"forwarded"`
}

// Session is one maze-solving session: the engine, the input listener bound
// to it and the completion signal armed by the winning move.
type Session struct {
	ID        string
	Layout    *config.Layout
	CreatedAt time.Time

	def        *maze.Definition
	engine     *engine.Engine
	adapter    *input.Adapter
	dispatcher *input.Dispatcher
	onComplete CompletionHandler

	mu           sync.Mutex
	completion   *signal.Completion
	completedAt  time.Time
	lastAccessed time.Time
	release      func()
	stopAfter    func() bool
	open         bool
	closed       bool
}

// New builds a session for layout. The session receives no input until
// Open is called.
func New(id string, layout *config.Layout, onComplete CompletionHandler) (*Session, error) {
	def, err := layout.Definition()
	if err != nil {
		return nil, fmt.Errorf("failed to build maze: %w", err)
	}

	now := time.Now()
	s := &Session{
		ID:           id,
		Layout:       layout,
		CreatedAt:    now,
		def:          def,
		engine:       engine.New(def),
		dispatcher:   input.NewDispatcher(),
		onComplete:   onComplete,
		lastAccessed: now,
	}

	s.completion = s.newCompletion()
	s.adapter = input.NewAdapter(s.engine, armOnWon(s.completion))
	return s, nil
}

// armOnWon binds the win hook to one completion signal so a stale hook can
// only arm a signal that has already been cancelled.
func armOnWon(c *signal.Completion) func() {
	return func() {
		c.Arm()
	}
}

// Open attaches the input listener. The session closes itself when ctx is
// done.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.open {
		return nil
	}

	s.release = s.adapter.Attach(s.dispatcher)
	s.stopAfter = context.AfterFunc(ctx, s.Close)
	s.open = true
	return nil
}

// Close releases the input listener and cancels a pending completion.
// It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	if s.release != nil {
		s.release()
	}
	if s.stopAfter != nil {
		s.stopAfter()
	}
	if s.completion.Cancel() {
		log.Printf("[SESSION] %s closed with a pending completion, cancelled", s.ID)
	}
}

// Closed reports whether Close has run
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Press delivers a key through the session's input dispatcher
func (s *Session) Press(key input.Key) (*PressResult, error) {
	deliveries := s.dispatcher.Dispatch(key)
	if len(deliveries) == 0 {
		return nil, ErrSessionClosed
	}

	s.touch()
	return &PressResult{
		Key:       key,
		Outcome:   deliveries[0].Outcome,
		Forwarded: deliveries[0].Forwarded,
	}, nil
}

// Move presses the on-screen button for dir
func (s *Session) Move(dir maze.Direction) (*PressResult, error) {
	if !dir.IsUnit() {
		return nil, fmt.Errorf("%w: %v", maze.ErrUnknownDirection, dir)
	}
	return s.Press(input.Key(dir.String()))
}

// Reset starts a new session on the same maze. A pending completion from the
// previous session is cancelled.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.completion.Cancel()
	s.completion = s.newCompletion()
	s.completedAt = time.Time{}
	s.adapter.Reset(armOnWon(s.completion))
	s.lastAccessed = time.Now()
	return nil
}

// newCompletion creates a completion signal whose callback knows which
// signal fired it
func (s *Session) newCompletion() *signal.Completion {
	var c *signal.Completion
	c = signal.New(s.Layout.CelebrationDelay(), func() {
		s.fireCompletion(c)
	})
	return c
}

// fireCompletion notifies the host unless the session was closed or c was
// replaced by a Reset
func (s *Session) fireCompletion(c *signal.Completion) {
	s.mu.Lock()
	if s.closed || s.completion != c {
		s.mu.Unlock()
		return
	}
	s.completedAt = time.Now()
	s.mu.Unlock()

	log.Printf("[COMPLETE] Session %s: celebration delay elapsed", s.ID)
	if s.onComplete != nil {
		s.onComplete(s)
	}
}

// Dispatcher returns the session's input event source
func (s *Session) Dispatcher() *input.Dispatcher {
	return s.dispatcher
}

// Maze returns the session's maze definition
func (s *Session) Maze() *maze.Definition {
	return s.def
}

// State returns a snapshot of the engine state
func (s *Session) State() *engine.State {
	var state *engine.State
	s.adapter.Inspect(func(eng *engine.Engine) {
		state = eng.State()
	})
	return state
}

// History returns the move history of the current session
func (s *Session) History() []engine.MoveRecord {
	var history []engine.MoveRecord
	s.adapter.Inspect(func(eng *engine.Engine) {
		history = eng.History()
	})
	return history
}

// Completed reports whether the completion callback has run for the
// current session
func (s *Session) Completed() bool {
	return s.currentCompletion().Fired()
}

// CompletionPending reports whether the maze is solved and the celebration
// delay is still running
func (s *Session) CompletionPending() bool {
	return s.currentCompletion().Pending()
}

// CompletedAt returns when the completion callback ran, or the zero time
func (s *Session) CompletedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedAt
}

// CompletionDone is closed when the current completion fires or is cancelled
func (s *Session) CompletionDone() <-chan struct{} {
	return s.currentCompletion().Done()
}

// LastAccessed returns the time of the last input or reset
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccessed = time.Now()
	s.mu.Unlock()
}

func (s *Session) currentCompletion() *signal.Completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completion
}
