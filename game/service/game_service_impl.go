package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/input"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
	"github.com/CyberMindX-AI/merrychristmas/game/session"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex

	notifierMu sync.RWMutex
	notifier   Notifier
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithNotifier sets the receiver of state updates and completion events
func WithNotifier(n Notifier) Option {
	return func(s *gameServiceImpl) {
		s.notifier = n
	}
}

// NewGameService creates a new game service instance and takes over the
// session manager's completion handler.
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}

	sessions.SetCompletionHandler(s.handleCompletion)
	return s
}

// SetNotifier replaces the notifier on a service created by NewGameService
func SetNotifier(svc GameService, n Notifier) {
	if impl, ok := svc.(*gameServiceImpl); ok {
		impl.notifierMu.Lock()
		impl.notifier = n
		impl.notifierMu.Unlock()
	}
}

func (s *gameServiceImpl) currentNotifier() Notifier {
	s.notifierMu.RLock()
	defer s.notifierMu.RUnlock()
	return s.notifier
}

// handleCompletion runs once per solved session after the celebration delay
func (s *gameServiceImpl) handleCompletion(sess *session.Session) {
	event := GameEvent{
		ID:        uuid.NewString(),
		Type:      EventCompleted,
		Message:   sess.Layout.Messages.Won,
		Timestamp: time.Now(),
	}
	if state := sess.State(); state != nil {
		pos := state.Position
		event.Position = &pos
	}

	log.Printf("[COMPLETE] session=%s event=%s", sess.ID, event.ID)

	if n := s.currentNotifier(); n != nil {
		n.BroadcastEvent(sess.ID, EventCompleted, event)
	}
}

// notifyState pushes the session state to connected clients
func (s *gameServiceImpl) notifyState(sessionID string, state *engine.State) {
	if n := s.currentNotifier(); n != nil {
		n.BroadcastState(sessionID, state)
	}
}

// getConfigID returns the config_id for a layout name
func (s *gameServiceImpl) getConfigID(layoutName string) string {
	available, err := s.configs.ListConfigs()
	if err == nil {
		for _, info := range available {
			if info.Name == layoutName {
				return info.ConfigID
			}
		}
	}
	if layoutName == "" {
		return config.ReferenceName
	}
	return layoutName
}

func (s *gameServiceImpl) sessionInfo(sess *session.Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Layout.Name)
	}
	return &SessionInfo{
		ID:                sess.ID,
		ConfigName:        configID,
		CreatedAt:         sess.CreatedAt,
		LastAccessedAt:    sess.LastAccessed(),
		State:             sess.State(),
		Layout:            sess.Layout,
		Completed:         sess.Completed(),
		CompletionPending: sess.CompletionPending(),
	}
}

// getSession looks up a session and marks it accessed
func (s *gameServiceImpl) getSession(sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// CreateSession creates a new maze session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var layout *config.Layout
	if configName != "" {
		var err error
		layout, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				available, listErr := s.configs.ListConfigs()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, info := range available {
						ids = append(ids, info.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s', available layouts: %v", err, configName, ids)
				}
			}
			return nil, fmt.Errorf("failed to load layout %s: %w", configName, err)
		}
	} else {
		layout = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", layout)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession closes and removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	return nil
}

// Move presses the button for a direction name
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	dir, err := maze.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var events []GameEvent
	if reset {
		if err := sess.Reset(); err != nil {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}
		events = append(events, GameEvent{
			Type:      EventReset,
			Message:   "Maze reset to the start",
			Timestamp: time.Now(),
		})
	}

	before := sess.State().Position
	press, err := sess.Move(dir)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	result := s.buildMoveResult(sess, press, dir, before)
	result.Direction = dir.String()
	result.Events = append(events, result.Events...)
	s.notifyState(sess.ID, result.State)
	return result, nil
}

// Press delivers a raw key to a session. Unknown keys are ignored, not errors.
func (s *gameServiceImpl) Press(ctx context.Context, sessionID, key string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	before := sess.State().Position
	press, err := sess.Press(input.Key(key))
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	dir, ok := input.Key(key).Direction()
	if !ok {
		return &MoveResult{
			Key:     key,
			State:   sess.State(),
			Message: fmt.Sprintf("Key %q ignored", key),
		}, nil
	}

	result := s.buildMoveResult(sess, press, dir, before)
	result.Key = key
	result.Direction = dir.String()
	s.notifyState(sess.ID, result.State)
	return result, nil
}

// buildMoveResult describes one forwarded (or dropped) direction input
func (s *gameServiceImpl) buildMoveResult(sess *session.Session, press *session.PressResult, dir maze.Direction, before maze.Position) *MoveResult {
	state := sess.State()
	result := &MoveResult{
		Success:   press.Forwarded && press.Outcome.Accepted(),
		Forwarded: press.Forwarded,
		Outcome:   press.Outcome,
		State:     state,
	}

	if !press.Forwarded {
		result.Outcome = engine.AlreadySolved
		result.Message = "Maze already solved"
		return result
	}

	now := time.Now()
	switch press.Outcome {
	case engine.Moved, engine.Won:
		to := state.Position
		result.Step = &StepInfo{Idx: 1, Dir: dir.String(), From: before, To: to, Outcome: press.Outcome}
		result.Message = fmt.Sprintf("Moved %s to %s", dir, to)
		result.Events = append(result.Events, GameEvent{Type: EventMove, Message: result.Message, Timestamp: now, Position: &to})
		if press.Outcome == engine.Won {
			result.Message = sess.Layout.Messages.Won
			result.Events = append(result.Events, GameEvent{Type: EventWon, Message: result.Message, Timestamp: now, Position: &to})
		}
	default:
		result.AttemptedTo = attemptInfo(sess.Maze(), before.Add(dir))
		result.Message = rejectionMessage(press.Outcome)
		result.Events = append(result.Events, GameEvent{Type: EventBlocked, Message: result.Message, Timestamp: now})
	}

	log.Printf("[MOVE] session=%s %s %s->%s outcome=%s", sess.ID, dir, before, state.Position, press.Outcome)
	return result
}

// BulkMove executes moves in sequence and stops at the first rejection or
// the winning move
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		if err := sess.Reset(); err != nil {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}
		result.Events = append(result.Events, GameEvent{
			Type:      EventReset,
			Message:   "Maze reset to the start",
			Timestamp: time.Now(),
		})
	}

	result.StartPos = sess.State().Position

	if len(moves) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		moves = moves[:MaxBulkMoves]
	}

	for i, move := range moves {
		dir, err := maze.ParseDirection(move)
		if err != nil {
			result.Success = false
			result.StoppedReason = err.Error()
			result.StopReasonCode = "invalid_direction"
			result.StoppedOnMove = i + 1
			break
		}

		from := sess.State().Position
		press, err := sess.Move(dir)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}

		if !press.Forwarded || !press.Outcome.Accepted() {
			outcome := press.Outcome
			if !press.Forwarded {
				outcome = engine.AlreadySolved
			}
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d %s: %s", i+1, move, rejectionMessage(outcome))
			result.StopReasonCode = stopCode(outcome)
			result.StoppedOnMove = i + 1
			if outcome != engine.AlreadySolved {
				result.AttemptedTo = attemptInfo(sess.Maze(), from.Add(dir))
			}
			break
		}

		to := sess.State().Position
		result.MovesExecuted++
		result.Steps = append(result.Steps, StepInfo{Idx: i + 1, Dir: dir.String(), From: from, To: to, Outcome: press.Outcome})
		result.Events = append(result.Events, GameEvent{
			Type:      EventMove,
			Message:   fmt.Sprintf("Moved %s to %s", dir, to),
			Timestamp: time.Now(),
			Position:  &to,
		})

		if press.Outcome == engine.Won {
			result.StopReasonCode = "solved"
			result.Events = append(result.Events, GameEvent{
				Type:      EventWon,
				Message:   sess.Layout.Messages.Won,
				Timestamp: time.Now(),
				Position:  &to,
			})
			if i < len(moves)-1 {
				result.StoppedOnMove = i + 1
				result.StoppedReason = "maze solved"
			}
			break
		}
	}

	state := sess.State()
	result.State = state
	result.EndPos = state.Position
	result.Solved = state.Solved
	result.PossibleMoves = state.PossibleMoves
	if state.Solved {
		result.Message = sess.Layout.Messages.Won
	}

	log.Printf("[BULK] session=%s exec=%d/%d stop=%s end=%s", sessionID, result.MovesExecuted, result.RequestedMoves, result.StopReasonCode, result.EndPos)
	s.notifyState(sess.ID, state)
	return result, nil
}

// Reset starts a new session on the same maze
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Reset(); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	state := sess.State()
	s.notifyState(sess.ID, state)
	return state, nil
}

// GetState retrieves the current session state
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.State(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveRecord{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// DescribeCell reports what lies at (x,y) in a session's maze
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	def := sess.Maze()
	info := &CellInfo{X: x, Y: y}

	kind, err := def.CellAt(x, y)
	if err != nil {
		return info, nil
	}

	pos := maze.Position{X: x, Y: y}
	info.InBounds = true
	info.Kind = &kind
	info.Passable = kind.Passable()
	info.Player = sess.State().Position == pos
	for _, dir := range def.OpenNeighbours(pos) {
		info.OpenNeighbors = append(info.OpenNeighbors, dir.String())
	}
	return info, nil
}

// ListConfigs returns available layouts
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*config.Info, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific layout
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*config.Layout, error) {
	return s.configs.LoadConfig(configName)
}

func attemptInfo(def *maze.Definition, target maze.Position) *AttemptInfo {
	info := &AttemptInfo{X: target.X, Y: target.Y, Cell: "boundary"}
	if kind, err := def.CellAt(target.X, target.Y); err == nil {
		info.Cell = kind.String()
		info.Passable = kind.Passable()
	}
	return info
}

func rejectionMessage(outcome engine.Outcome) string {
	switch outcome {
	case engine.OutOfBounds:
		return "Can't leave the maze"
	case engine.Blocked:
		return "Blocked by a wall"
	case engine.AlreadySolved:
		return "Maze already solved"
	}
	return outcome.String()
}

func stopCode(outcome engine.Outcome) string {
	switch outcome {
	case engine.OutOfBounds:
		return "blocked_boundary"
	case engine.Blocked:
		return "blocked_wall"
	case engine.AlreadySolved:
		return "already_solved"
	}
	return outcome.String()
}
