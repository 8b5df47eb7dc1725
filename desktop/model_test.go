package desktop

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/input"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
	"github.com/CyberMindX-AI/merrychristmas/game/service"
	"github.com/CyberMindX-AI/merrychristmas/game/session"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	dir := t.TempDir()
	layout := `{
		"name": "corridor",
		"celebration_delay_ms": 20,
		"layout": [[2, 0, 3]],
		"messages": {"title": "Find her", "hint": "Press right", "won": "Together!"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corridor.json"), []byte(layout), 0644))

	configs, err := config.NewManager(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	svc := service.NewGameService(session.NewManager(ctx), configs)
	m, err := NewModel(ctx, svc, "corridor")
	require.NoError(t, err)
	return m
}

func TestModel_InitialView(t *testing.T) {
	m := newTestModel(t)

	v := m.View()
	assert.Equal(t, ScreenMaze, v.Screen)
	assert.Equal(t, "Find her", v.Messages.Title)
	assert.Equal(t, "Press right", v.Status)
	require.NotNil(t, v.State)
	assert.Equal(t, maze.Position{X: 0, Y: 0}, v.State.Position)
	assert.NotEmpty(t, m.SessionID())
}

func TestModel_PressAndGreeting(t *testing.T) {
	m := newTestModel(t)
	ctx := context.Background()

	m.Press(ctx, input.ArrowLeft)
	assert.Equal(t, maze.Position{X: 0, Y: 0}, m.View().State.Position)

	m.Press(ctx, input.Key("Enter"))
	assert.Equal(t, 1, m.View().State.Attempts, "ignored keys must not reach the engine")

	m.Press(ctx, input.ButtonRight)
	m.Press(ctx, input.ArrowRight)

	v := m.View()
	assert.Equal(t, maze.Position{X: 2, Y: 0}, v.State.Position)
	assert.Equal(t, engine.Solved, v.State.Status)

	require.Eventually(t, m.Won, 2*time.Second, 10*time.Millisecond)

	v = m.View()
	assert.Equal(t, ScreenGreeting, v.Screen)
	assert.Equal(t, "Together!", v.Status)

	m.Reset(ctx)
	v = m.View()
	assert.Equal(t, ScreenMaze, v.Screen)
	assert.Equal(t, maze.Position{X: 0, Y: 0}, v.State.Position)
	assert.False(t, m.Won())
}

func TestModel_IgnoresOtherSessions(t *testing.T) {
	m := newTestModel(t)

	m.BroadcastEvent("other", service.EventCompleted, nil)
	m.BroadcastState("other", &engine.State{Position: maze.Position{X: 5, Y: 5}})
	m.BroadcastEvent(m.SessionID(), service.EventReset, nil)

	assert.False(t, m.Won())
	assert.Equal(t, maze.Position{X: 0, Y: 0}, m.View().State.Position)
}

func TestNewModel_UnknownLayout(t *testing.T) {
	configs, err := config.NewManager("")
	require.NoError(t, err)

	svc := service.NewGameService(session.NewManager(context.Background()), configs)
	_, err = NewModel(context.Background(), svc, "missing")
	assert.Error(t, err)
}
