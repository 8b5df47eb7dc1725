package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/CyberMindX-AI/merrychristmas/game/config"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// Manager handles session lifecycle
type Manager struct {
	ctx      context.Context
	sessions map[string]*Session
	mu       sync.RWMutex

	handlerMu sync.RWMutex
	handler   CompletionHandler
}

// NewManager creates a session manager. Sessions it creates close when ctx
// is done.
func NewManager(ctx context.Context) *Manager {
	return &Manager{
		ctx:      ctx,
		sessions: make(map[string]*Session),
	}
}

// SetCompletionHandler sets the callback run when a session's completion
// signal fires
func (m *Manager) SetCompletionHandler(handler CompletionHandler) {
	m.handlerMu.Lock()
	defer m.handlerMu.Unlock()
	m.handler = handler
}

func (m *Manager) handleCompletion(s *Session) {
	m.handlerMu.RLock()
	handler := m.handler
	m.handlerMu.RUnlock()

	if handler != nil {
		handler(s)
	}
}

// Create creates and opens a session with the given ID and layout
func (m *Manager) Create(id string, layout *config.Layout) (*Session, error) {
	if id == "" {
		id = m.generateSessionID()
	} else if !validID.MatchString(id) {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	session, err := New(id, layout, m.handleCompletion)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := session.Open(m.ctx); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	m.sessions[strings.ToLower(id)] = session
	log.Printf("[SESSION] Created %s with layout %s", id, layout.Name)
	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, layout *config.Layout) (*Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, layout)
	}

	return nil, err
}

// List returns all active sessions, oldest first
func (m *Manager) List() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete closes and removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	lowerID := strings.ToLower(id)
	session, exists := m.sessions[lowerID]
	if exists {
		delete(m.sessions, lowerID)
	}
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}

	session.Close()
	log.Printf("[SESSION] Deleted %s", session.ID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.touch()
	return nil
}

// CleanupExpiredSessions closes and removes sessions that haven't been
// accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*Session
	for id, session := range m.sessions {
		if session.LastAccessed().Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, session)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	return len(expired)
}

// CloseAll closes and removes every session
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
	return len(sessions)
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	for {
		bytes := make([]byte, 2)
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)

		m.mu.RLock()
		exists := m.sessionExists(id)
		m.mu.RUnlock()
		if !exists {
			return id
		}
	}
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
