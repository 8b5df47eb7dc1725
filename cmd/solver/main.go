// Command solver plays a maze session against a running server. The
// "explore" strategy finds the goal blind, using only move feedback; the
// "shortest" strategy reads the grid and submits the optimal path in one
// bulk move.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
)

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Maze server URL")
	configID := flag.String("config", "", "Layout to play (default layout if empty)")
	sessionID := flag.String("continue", "", "Play an existing session by ID")
	strategy := flag.String("strategy", "explore", "Strategy: explore or shortest")
	maxMoves := flag.Int("max-moves", 3000, "Maximum move attempts for explore")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	ctx := context.Background()
	client := NewClient(*serverURL)
	log.Printf("Connecting to maze server at %s", *serverURL)

	state, err := startSession(ctx, client, *configID, *sessionID)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	log.Printf("Session %s: %dx%d maze, start %s, goal %s", client.SessionID(), state.Width, state.Height, state.Start, state.Goal)

	switch *strategy {
	case "explore":
		err = explore(ctx, client, state, *maxMoves, *verbose)
	case "shortest":
		err = solveShortest(ctx, client, state)
	default:
		err = fmt.Errorf("unknown strategy %q", *strategy)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// startSession resumes sessionID or creates a new session, then resets it
func startSession(ctx context.Context, client *Client, configID, sessionID string) (*engine.State, error) {
	if sessionID != "" {
		if _, err := client.Resume(ctx, sessionID); err != nil {
			return nil, err
		}
	} else if _, err := client.CreateSession(ctx, configID); err != nil {
		return nil, err
	}
	return client.Reset(ctx)
}

func explore(ctx context.Context, client *Client, state *engine.State, maxMoves int, verbose bool) error {
	explorer := NewExplorer(client, state.Position, maxMoves)
	if verbose {
		explorer.verbose = log.Printf
	}

	result, err := explorer.Run(ctx)
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	log.Printf("🎄 Reached the goal after %d attempts (%d walls found)", result.Attempts, result.Walls)
	log.Printf("Path (%d moves): %s", len(result.Path), joinDirections(result.Path))
	return nil
}

func solveShortest(ctx context.Context, client *Client, state *engine.State) error {
	def, err := maze.New(state.Grid)
	if err != nil {
		return fmt.Errorf("invalid maze: %w", err)
	}

	path, ok := def.ShortestPath(state.Position, def.Goal())
	if !ok {
		return fmt.Errorf("goal unreachable from %s", state.Position)
	}
	log.Printf("Submitting %d moves: %s", len(path), joinDirections(path))

	result, err := client.BulkMove(ctx, path)
	if err != nil {
		return err
	}
	if !result.Solved {
		return fmt.Errorf("not solved: stopped on move %d (%s)", result.StoppedOnMove, result.StopReasonCode)
	}
	log.Printf("🎄 %s", result.Message)
	return nil
}

func joinDirections(dirs []maze.Direction) string {
	names := make([]string, len(dirs))
	for i, dir := range dirs {
		names[i] = dir.String()
	}
	return strings.Join(names, " ")
}
