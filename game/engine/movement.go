package engine

import (
	"fmt"
	"time"

	"github.com/CyberMindX-AI/merrychristmas/game/maze"
)

// AttemptMove validates a unit displacement and applies it when legal.
//
// AlreadySolved is returned once the goal has been reached and leaves no
// trace, not even in the attempt count or history. Other rejections leave
// the position untouched and are recorded: OutOfBounds when the candidate cell lies outside the grid and
// Blocked when it is a wall. A move onto the goal returns Won and moves the
// session to Solved, which it never leaves.
//
// dir must be one of maze.Up, maze.Down, maze.Left or maze.Right.
func (e *Engine) AttemptMove(dir maze.Direction) Outcome {
	if !dir.IsUnit() {
		panic(fmt.Sprintf("engine: AttemptMove called with non-unit direction %v", dir))
	}

	if e.solved {
		return AlreadySolved
	}

	from := e.position
	outcome := e.apply(dir)
	e.record(dir, from, outcome)
	return outcome
}

func (e *Engine) apply(dir maze.Direction) Outcome {
	candidate := e.position.Add(dir)

	kind, err := e.maze.CellAt(candidate.X, candidate.Y)
	if err != nil {
		return OutOfBounds
	}
	if kind == maze.Wall {
		return Blocked
	}

	e.position = candidate
	e.moves++

	if kind == maze.Goal {
		e.solved = true
		return Won
	}
	return Moved
}

// record appends the attempt to the history
func (e *Engine) record(dir maze.Direction, from maze.Position, outcome Outcome) {
	e.attempts++
	e.history = append(e.history, MoveRecord{
		MoveNumber: e.attempts,
		Direction:  dir.String(),
		From:       from,
		To:         e.position,
		Outcome:    outcome,
		Timestamp:  time.Now().Unix(),
	})
}
