package service

import (
	"time"

	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
)

// MaxBulkMoves caps the number of moves accepted by one BulkMove call
const MaxBulkMoves = 100

// Event types
const (
	EventMove      = "move"
	EventBlocked   = "blocked"
	EventWon       = "won"
	EventReset     = "reset"
	EventCompleted = "completed"
)

// SessionInfo provides information about a maze session
type SessionInfo struct {
	ID                string         `json:"id"`
	ConfigName        string         `json:"config_name"`
	CreatedAt         time.Time      `json:"created_at"`
	LastAccessedAt    time.Time      `json:"last_accessed_at"`
	State             *engine.State  `json:"state"`
	Layout            *config.Layout `json:"layout"`
	Completed         bool           `json:"completed"`
	CompletionPending bool           `json:"completion_pending"`
}

// MoveResult contains the result of a single input
type MoveResult struct {
	Success     bool           `json:"success"`
	Forwarded   bool           `json:"forwarded"`
	Outcome     engine.Outcome `json:"outcome"`
	Key         string         `json:"key,omitempty"`
	Direction   string         `json:"direction,omitempty"`
	State       *engine.State  `json:"state"`
	Message     string         `json:"message"`
	Events      []GameEvent    `json:"events,omitempty"`
	Step        *StepInfo      `json:"step,omitempty"`
	AttemptedTo *AttemptInfo   `json:"attempted_to,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int           `json:"moves_executed"`
	RequestedMoves int           `json:"requested_moves"`
	Success        bool          `json:"success"`
	State          *engine.State `json:"state"`
	Events         []GameEvent   `json:"events"`
	StoppedReason  string        `json:"stopped_reason,omitempty"`
	StopReasonCode string        `json:"stop_reason_code,omitempty"` // blocked_wall|blocked_boundary|already_solved|invalid_direction|solved
	StoppedOnMove  int           `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool          `json:"truncated,omitempty"`
	Limit          int           `json:"limit,omitempty"`

	StartPos maze.Position `json:"start_pos"`
	EndPos   maze.Position `json:"end_pos"`

	Steps       []StepInfo   `json:"steps,omitempty"`
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	Solved        bool     `json:"solved"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record of one executed move
type StepInfo struct {
	Idx     int            `json:"idx"`
	Dir     string         `json:"dir"`
	From    maze.Position  `json:"from"`
	To      maze.Position  `json:"to"`
	Outcome engine.Outcome `json:"outcome"`
}

// AttemptInfo details a rejected target cell
type AttemptInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Cell     string `json:"cell"` // path|wall|start|goal|boundary
	Passable bool   `json:"passable"`
}

// GameEvent represents something that happened in a session
type GameEvent struct {
	ID        string         `json:"id,omitempty"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Position  *maze.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// CellInfo describes one cell of a session's maze
type CellInfo struct {
	X             int            `json:"x"`
	Y             int            `json:"y"`
	InBounds      bool           `json:"in_bounds"`
	Kind          *maze.CellKind `json:"kind,omitempty"`
	Passable      bool           `json:"passable"`
	Player        bool           `json:"player"`
	OpenNeighbors []string       `json:"open_neighbors,omitempty"`
}
