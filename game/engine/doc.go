// Package engine provides the navigation logic for the greeting maze.
//
// The engine package implements:
//   - Move validation against maze bounds and walls
//   - The two-state session machine (InProgress -> Solved)
//   - Win detection on the goal cell
//   - Move history for the current session
//
// Core Types:
//
// Engine owns the player position and the solved flag of one session and
// exposes a single mutating operation, AttemptMove. Every attempt yields an
// Outcome: Moved or Won when accepted, OutOfBounds, Blocked or AlreadySolved
// when rejected. Rejections are ordinary results, not errors, and never
// change state.
//
// Usage:
//
//	eng := engine.New(maze.Reference())
//
//	switch eng.AttemptMove(maze.Right) {
//	case engine.Won:
//		// schedule the completion signal
//	case engine.Blocked, engine.OutOfBounds:
//		// ignore
//	}
//
// The engine performs no I/O and holds no locks. Callers that receive input
// from several goroutines must serialize calls, as the input package does.
package engine
