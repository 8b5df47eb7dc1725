package service

import (
	"context"

	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/session"
)

// GameService defines all maze operations exposed to the transports
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Input
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Press(ctx context.Context, sessionID, key string) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.State, error)

	// Session State
	GetState(ctx context.Context, sessionID string) (*engine.State, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error)

	// Layouts
	ListConfigs(ctx context.Context) ([]*config.Info, error)
	LoadConfig(ctx context.Context, configName string) (*config.Layout, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, layout *config.Layout) (*session.Session, error)
	Get(id string) (*session.Session, error)
	List() []*session.Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	SetCompletionHandler(handler session.CompletionHandler)
}

// ConfigManager handles layout loading
type ConfigManager interface {
	LoadConfig(name string) (*config.Layout, error)
	ListConfigs() ([]*config.Info, error)
	GetDefault() *config.Layout
}

// Notifier receives state updates and events for connected clients
type Notifier interface {
	BroadcastState(sessionID string, state *engine.State)
	BroadcastEvent(sessionID string, event string, data interface{})
}
