package desktop

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/input"
	"github.com/CyberMindX-AI/merrychristmas/game/service"
)

// Screen is what the window currently shows
type Screen int

const (
	ScreenMaze Screen = iota
	ScreenGreeting
)

// View is a consistent snapshot for one frame
type View struct {
	Screen   Screen
	State    *engine.State
	Messages config.Messages
	Status   string
}

// Model owns one session on an in-process game service. It doubles as the
// service notifier so the completion event switches it to the greeting.
type Model struct {
	svc       service.GameService
	sessionID string
	messages  config.Messages

	mu     sync.RWMutex
	state  *engine.State
	won    bool
	status string
}

// NewModel creates a session for configName and registers the model as the
// service notifier
func NewModel(ctx context.Context, svc service.GameService, configName string) (*Model, error) {
	info, err := svc.CreateSession(ctx, configName)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m := &Model{
		svc:       svc,
		sessionID: info.ID,
		messages:  info.Layout.Messages,
		state:     info.State,
		status:    info.Layout.Messages.Hint,
	}
	service.SetNotifier(svc, m)

	log.Printf("[SESSION] desktop session=%s layout=%s", info.ID, info.ConfigName)
	return m, nil
}

// SessionID returns the ID of the model's session
func (m *Model) SessionID() string {
	return m.sessionID
}

// Press delivers a key or button press. Keys with no direction are ignored
// by the service and leave the status untouched.
func (m *Model) Press(ctx context.Context, key input.Key) {
	result, err := m.svc.Press(ctx, m.sessionID, string(key))
	if err != nil {
		log.Printf("[MOVE] desktop key=%s: %v", key, err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = result.State
	if result.Forwarded {
		m.status = result.Message
	}
}

// Reset starts the maze over and returns to the maze screen
func (m *Model) Reset(ctx context.Context) {
	state, err := m.svc.Reset(ctx, m.sessionID)
	if err != nil {
		log.Printf("[SESSION] desktop reset: %v", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.won = false
	m.status = m.messages.Hint
}

// Won reports whether the completion event has arrived
func (m *Model) Won() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.won
}

// View returns the current frame snapshot
func (m *Model) View() View {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v := View{
		Screen:   ScreenMaze,
		State:    m.state,
		Messages: m.messages,
		Status:   m.status,
	}
	if m.won {
		v.Screen = ScreenGreeting
	}
	return v
}

// BroadcastState records state pushed by the service
func (m *Model) BroadcastState(sessionID string, state *engine.State) {
	if sessionID != m.sessionID || state == nil {
		return
	}
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// BroadcastEvent switches to the greeting on completion
func (m *Model) BroadcastEvent(sessionID string, event string, data interface{}) {
	if sessionID != m.sessionID || event != service.EventCompleted {
		return
	}
	m.mu.Lock()
	m.won = true
	m.status = m.messages.Won
	m.mu.Unlock()
}
