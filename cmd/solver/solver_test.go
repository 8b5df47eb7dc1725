package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberMindX-AI/merrychristmas/api"
	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
	"github.com/CyberMindX-AI/merrychristmas/game/service"
	"github.com/CyberMindX-AI/merrychristmas/game/session"
)

// engineMover plays directly against an in-process engine
type engineMover struct {
	eng *engine.Engine
	err error
}

func (m *engineMover) Move(ctx context.Context, dir maze.Direction) (engine.Outcome, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.eng.AttemptMove(dir), nil
}

func followPath(def *maze.Definition, path []maze.Direction) maze.Position {
	pos := def.Start()
	for _, dir := range path {
		pos = pos.Add(dir)
	}
	return pos
}

func TestExplorer_Reference(t *testing.T) {
	def := maze.Reference()
	eng := engine.New(def)

	result, err := NewExplorer(&engineMover{eng: eng}, def.Start(), 0).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Solved)
	assert.True(t, eng.Solved())
	assert.Equal(t, def.Goal(), followPath(def, result.Path))
	assert.GreaterOrEqual(t, len(result.Path), 22)
	assert.Greater(t, result.Walls, 0)
	assert.Equal(t, result.Attempts, eng.State().Attempts)
}

func TestExplorer_Unreachable(t *testing.T) {
	def := maze.MustNew([][]int{
		{2, 0, 0, 0},
		{0, 0, 1, 3},
	})
	eng := engine.New(def)
	mover := &wallMover{engineMover: engineMover{eng: eng}, wallX: 2}

	result, err := NewExplorer(mover, def.Start(), 0).Run(context.Background())
	assert.Error(t, err)
	assert.False(t, result.Solved)
	assert.Empty(t, result.Path)
}

// wallMover pretends every cell at or past column wallX is a wall
type wallMover struct {
	engineMover
	wallX int
}

func (m *wallMover) Move(ctx context.Context, dir maze.Direction) (engine.Outcome, error) {
	if m.eng.Position().Add(dir).X >= m.wallX {
		return engine.Blocked, nil
	}
	return m.engineMover.Move(ctx, dir)
}

func TestExplorer_MoveCap(t *testing.T) {
	def := maze.Reference()
	result, err := NewExplorer(&engineMover{eng: engine.New(def)}, def.Start(), 5).Run(context.Background())

	assert.Error(t, err)
	assert.False(t, result.Solved)
	assert.Equal(t, 5, result.Attempts)
}

func TestExplorer_MoverError(t *testing.T) {
	def := maze.Reference()
	mover := &engineMover{eng: engine.New(def), err: errors.New("connection refused")}

	_, err := NewExplorer(mover, def.Start(), 0).Run(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	configs, err := config.NewManager("../../configs")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	svc := service.NewGameService(session.NewManager(ctx), configs)
	ts := httptest.NewServer(api.NewServer(svc, nil))

	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func TestClient_Explore(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	client := NewClient(ts.URL + "/")

	state, err := startSession(ctx, client, "small", "")
	require.NoError(t, err)
	assert.NotEmpty(t, client.SessionID())
	assert.Equal(t, maze.Position{X: 0, Y: 0}, state.Position)

	outcome, err := client.Move(ctx, maze.Up)
	require.NoError(t, err)
	assert.Equal(t, engine.OutOfBounds, outcome)

	require.NoError(t, explore(ctx, client, state, 200, false))

	resumed, err := client.Resume(ctx, client.SessionID())
	require.NoError(t, err)
	assert.True(t, resumed.Solved)
	assert.Equal(t, maze.Position{X: 4, Y: 4}, resumed.Position)
}

func TestClient_Shortest(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	client := NewClient(ts.URL)

	state, err := startSession(ctx, client, "", "")
	require.NoError(t, err)
	require.NoError(t, solveShortest(ctx, client, state))

	resumed, err := client.Resume(ctx, client.SessionID())
	require.NoError(t, err)
	assert.Equal(t, 22, resumed.Moves)
	assert.Equal(t, engine.Solved, resumed.Status)

	// Resuming and resetting returns to the start
	state, err = startSession(ctx, client, "", client.SessionID())
	require.NoError(t, err)
	assert.Equal(t, maze.Position{X: 0, Y: 0}, state.Position)
	assert.False(t, state.Solved)
}

func TestClient_Errors(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	client := NewClient(ts.URL)

	_, err := client.CreateSession(ctx, "missing")
	assert.ErrorContains(t, err, "404")

	_, err = client.Resume(ctx, "nope")
	assert.ErrorContains(t, err, "404")
}

func TestJoinDirections(t *testing.T) {
	assert.Equal(t, "up right", joinDirections([]maze.Direction{maze.Up, maze.Right}))
	assert.Equal(t, "", joinDirections(nil))
}
