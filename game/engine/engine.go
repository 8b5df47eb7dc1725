package engine

import (
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
)

// Navigator is the contract for driving a maze session
type Navigator interface {
	AttemptMove(dir maze.Direction) Outcome
	Position() maze.Position
	Solved() bool
	Status() Status
	State() *State
	Reset()
}

// Engine owns the session state of one maze and enforces the movement rules.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	maze     *maze.Definition
	position maze.Position
	solved   bool
	moves    int
	attempts int
	history  []MoveRecord
}

var _ Navigator = (*Engine)(nil)

// New creates an engine with the player on the maze start cell
func New(def *maze.Definition) *Engine {
	return &Engine{
		maze:     def,
		position: def.Start(),
		history:  []MoveRecord{},
	}
}

// Maze returns the definition the engine navigates
func (e *Engine) Maze() *maze.Definition {
	return e.maze
}

// Position returns the current player position
func (e *Engine) Position() maze.Position {
	return e.position
}

// Solved reports whether the goal has been reached in this session
func (e *Engine) Solved() bool {
	return e.solved
}

// Status returns the state machine status
func (e *Engine) Status() Status {
	if e.solved {
		return Solved
	}
	return InProgress
}

// Moves returns the number of accepted moves
func (e *Engine) Moves() int {
	return e.moves
}

// Reset starts a new session on the same maze
func (e *Engine) Reset() {
	e.position = e.maze.Start()
	e.solved = false
	e.moves = 0
	e.attempts = 0
	e.history = []MoveRecord{}
}

// PossibleMoves returns the directions that would currently be accepted
func (e *Engine) PossibleMoves() []string {
	if e.solved {
		return []string{}
	}

	open := e.maze.OpenNeighbours(e.position)
	possible := make([]string, 0, len(open))
	for _, dir := range open {
		possible = append(possible, dir.String())
	}
	return possible
}

// State returns a snapshot of the session
func (e *Engine) State() *State {
	return &State{
		Position:      e.position,
		Start:         e.maze.Start(),
		Goal:          e.maze.Goal(),
		Solved:        e.solved,
		Status:        e.Status(),
		Moves:         e.moves,
		Attempts:      e.attempts,
		Width:         e.maze.Width(),
		Height:        e.maze.Height(),
		Grid:          e.maze.Rows(),
		PossibleMoves: e.PossibleMoves(),
	}
}

// History returns a copy of the move history of the current session
func (e *Engine) History() []MoveRecord {
	return append([]MoveRecord(nil), e.history...)
}

// LastMove returns the most recent move attempt, or nil if there is none
func (e *Engine) LastMove() *MoveRecord {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// AttemptMoves applies directions in order and stops after the winning move
func (e *Engine) AttemptMoves(dirs []maze.Direction) []Outcome {
	outcomes := make([]Outcome, 0, len(dirs))
	for _, dir := range dirs {
		if e.solved {
			break
		}
		outcomes = append(outcomes, e.AttemptMove(dir))
	}
	return outcomes
}
