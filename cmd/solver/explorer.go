package main

import (
	"context"
	"fmt"

	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
)

// Mover attempts one move and reports the outcome
type Mover interface {
	Move(ctx context.Context, dir maze.Direction) (engine.Outcome, error)
}

// Explorer finds the goal without looking at the grid. It walks depth
// first, learning walls from rejected moves and backtracking out of dead
// ends, so every cell is entered at most once going forward.
type Explorer struct {
	mover    Mover
	maxMoves int
	verbose  func(format string, args ...interface{})

	pos      maze.Position
	visited  map[maze.Position]bool
	blocked  map[maze.Position]bool
	trail    []maze.Direction
	attempts int
}

// ExploreResult summarizes one exploration run
type ExploreResult struct {
	Solved   bool
	Attempts int
	Path     []maze.Direction // start to goal, without dead-end detours
	Walls    int
}

// NewExplorer prepares an exploration from start. maxMoves caps the number
// of move attempts; zero means no cap.
func NewExplorer(mover Mover, start maze.Position, maxMoves int) *Explorer {
	return &Explorer{
		mover:    mover,
		maxMoves: maxMoves,
		pos:      start,
		visited:  map[maze.Position]bool{start: true},
		blocked:  make(map[maze.Position]bool),
	}
}

func (e *Explorer) logf(format string, args ...interface{}) {
	if e.verbose != nil {
		e.verbose(format, args...)
	}
}

// Run explores until the goal is reached, every reachable cell has been
// visited, or the move cap is hit
func (e *Explorer) Run(ctx context.Context) (*ExploreResult, error) {
	for {
		if e.maxMoves > 0 && e.attempts >= e.maxMoves {
			return e.result(false), fmt.Errorf("gave up after %d moves", e.attempts)
		}

		dir, ok := e.nextUnexplored()
		if !ok {
			if len(e.trail) == 0 {
				return e.result(false), fmt.Errorf("goal unreachable: explored %d cells", len(e.visited))
			}
			if err := e.backtrack(ctx); err != nil {
				return e.result(false), err
			}
			continue
		}

		outcome, err := e.attempt(ctx, dir)
		if err != nil {
			return e.result(false), err
		}

		target := e.pos.Add(dir)
		switch outcome {
		case engine.Moved:
			e.pos = target
			e.visited[target] = true
			e.trail = append(e.trail, dir)
		case engine.Won, engine.AlreadySolved:
			e.pos = target
			e.trail = append(e.trail, dir)
			return e.result(true), nil
		default:
			e.blocked[target] = true
			e.logf("blocked %s at %s (%s)", dir, target, outcome)
		}
	}
}

func (e *Explorer) attempt(ctx context.Context, dir maze.Direction) (engine.Outcome, error) {
	e.attempts++
	outcome, err := e.mover.Move(ctx, dir)
	if err != nil {
		return outcome, fmt.Errorf("move %d (%s): %w", e.attempts, dir, err)
	}
	return outcome, nil
}

// nextUnexplored returns the first direction leading to an unknown cell
func (e *Explorer) nextUnexplored() (maze.Direction, bool) {
	for _, dir := range maze.Directions {
		target := e.pos.Add(dir)
		if !e.visited[target] && !e.blocked[target] {
			return dir, true
		}
	}
	return maze.Direction{}, false
}

// backtrack steps back along the trail
func (e *Explorer) backtrack(ctx context.Context) error {
	last := e.trail[len(e.trail)-1]
	back := maze.Direction{DX: -last.DX, DY: -last.DY}

	outcome, err := e.attempt(ctx, back)
	if err != nil {
		return err
	}
	if outcome != engine.Moved {
		return fmt.Errorf("backtrack %s from %s: %s", back, e.pos, outcome)
	}

	e.pos = e.pos.Add(back)
	e.trail = e.trail[:len(e.trail)-1]
	return nil
}

func (e *Explorer) result(solved bool) *ExploreResult {
	return &ExploreResult{
		Solved:   solved,
		Attempts: e.attempts,
		Path:     append([]maze.Direction(nil), e.trail...),
		Walls:    len(e.blocked),
	}
}
