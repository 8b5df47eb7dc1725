package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
	"github.com/CyberMindX-AI/merrychristmas/game/service"
	"github.com/CyberMindX-AI/merrychristmas/game/session"
	"github.com/CyberMindX-AI/merrychristmas/transport/websocket"
)

var solution = []string{
	"right", "down", "right", "right", "down", "down", "right", "right",
	"up", "up", "right", "right", "right", "down", "down", "down",
	"down", "down", "down", "right", "down", "down",
}

// setupTestServer wires the real service stack against the repository layouts
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	configs, err := config.NewManager("../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sessions := session.NewManager(ctx)

	hub := websocket.NewHub()
	go hub.Run()

	t.Cleanup(func() {
		sessions.CloseAll()
		cancel()
		hub.Stop()
	})

	gameService := service.NewGameService(sessions, configs, service.WithNotifier(hub))
	return NewServer(gameService, hub)
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func createSession(t *testing.T, server http.Handler, body interface{}) *service.SessionInfo {
	t.Helper()

	w := doRequest(t, server, "POST", "/api/sessions", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var info service.SessionInfo
	decode(t, w, &info)
	return &info
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t)

	w := doRequest(t, server, "GET", "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestCreateSession(t *testing.T) {
	server := setupTestServer(t)

	t.Run("default layout", func(t *testing.T) {
		info := createSession(t, server, nil)

		if len(info.ID) != 4 {
			t.Errorf("Expected a 4 character session ID, got %q", info.ID)
		}
		if info.ConfigName != config.ReferenceName {
			t.Errorf("Expected layout %s, got %s", config.ReferenceName, info.ConfigName)
		}
		if info.State == nil || info.State.Position != (maze.Position{X: 0, Y: 0}) {
			t.Errorf("Expected player on the start cell, got %+v", info.State)
		}
		if info.Layout == nil || info.Layout.Messages.Title != "Help him find her!" {
			t.Errorf("Expected layout messages, got %+v", info.Layout)
		}
	})

	t.Run("named layout", func(t *testing.T) {
		info := createSession(t, server, map[string]string{"config_id": "small"})
		if info.ConfigName != "small" {
			t.Errorf("Expected layout small, got %s", info.ConfigName)
		}
		if info.State.Width != 5 {
			t.Errorf("Expected width 5, got %d", info.State.Width)
		}
	})

	t.Run("unknown layout", func(t *testing.T) {
		w := doRequest(t, server, "POST", "/api/sessions", map[string]string{"config_id": "missing"})
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(t, server, "POST", "/api/sessions", "{not json")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestListSessions(t *testing.T) {
	server := setupTestServer(t)

	for i := 0; i < 3; i++ {
		createSession(t, server, nil)
	}

	w := doRequest(t, server, "GET", "/api/sessions?sort=created&order=asc&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Count    int                    `json:"count"`
		Total    int                    `json:"total"`
		Sessions []*service.SessionInfo `json:"sessions"`
		Sort     string                 `json:"sort"`
	}
	decode(t, w, &resp)

	if resp.Count != 2 || len(resp.Sessions) != 2 {
		t.Errorf("Expected 2 sessions after limit, got %d", resp.Count)
	}
	if resp.Total != 3 {
		t.Errorf("Expected total 3, got %d", resp.Total)
	}
	if resp.Sort != "created" {
		t.Errorf("Expected sort created, got %s", resp.Sort)
	}
}

func TestGetAndDeleteSession(t *testing.T) {
	server := setupTestServer(t)
	info := createSession(t, server, nil)

	w := doRequest(t, server, "GET", "/api/sessions/"+strings.ToUpper(info.ID), nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected case-insensitive lookup, got %d", w.Code)
	}

	w = doRequest(t, server, "DELETE", "/api/sessions/"+info.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = doRequest(t, server, "GET", "/api/sessions/"+info.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}

	w = doRequest(t, server, "DELETE", "/api/sessions/"+info.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name      string
		body      interface{}
		status    int
		success   bool
		outcome   engine.Outcome
		wantState maze.Position
	}{
		{"open cell", map[string]string{"direction": "right"}, http.StatusOK, true, engine.Moved, maze.Position{X: 1, Y: 0}},
		{"wall", map[string]string{"direction": "down"}, http.StatusOK, false, engine.Blocked, maze.Position{X: 0, Y: 0}},
		{"boundary", map[string]string{"direction": "left"}, http.StatusOK, false, engine.OutOfBounds, maze.Position{X: 0, Y: 0}},
		{"mixed case", map[string]string{"direction": "Right"}, http.StatusOK, true, engine.Moved, maze.Position{X: 1, Y: 0}},
		{"unknown direction", map[string]string{"direction": "sideways"}, http.StatusBadRequest, false, 0, maze.Position{}},
		{"malformed body", "{", http.StatusBadRequest, false, 0, maze.Position{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := setupTestServer(t)
			info := createSession(t, server, nil)

			w := doRequest(t, server, "POST", "/api/sessions/"+info.ID+"/move", test.body)
			if w.Code != test.status {
				t.Fatalf("Expected status %d, got %d: %s", test.status, w.Code, w.Body.String())
			}
			if test.status != http.StatusOK {
				return
			}

			var result service.MoveResult
			decode(t, w, &result)

			if result.Success != test.success {
				t.Errorf("Expected success %v, got %v", test.success, result.Success)
			}
			if result.Outcome != test.outcome {
				t.Errorf("Expected outcome %s, got %s", test.outcome, result.Outcome)
			}
			if result.State.Position != test.wantState {
				t.Errorf("Expected position %s, got %s", test.wantState, result.State.Position)
			}
		})
	}
}

func TestMove_UnknownSession(t *testing.T) {
	server := setupTestServer(t)

	w := doRequest(t, server, "POST", "/api/sessions/ffff/move", map[string]string{"direction": "up"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestBulkMove_Solve(t *testing.T) {
	server := setupTestServer(t)
	info := createSession(t, server, nil)

	w := doRequest(t, server, "POST", "/api/sessions/"+info.ID+"/bulk-move", map[string]interface{}{
		"moves": solution,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result service.BulkMoveResult
	decode(t, w, &result)

	if !result.Solved || result.State.Status != engine.Solved {
		t.Error("Expected the maze to be solved")
	}
	if result.MovesExecuted != len(solution) {
		t.Errorf("Expected %d moves executed, got %d", len(solution), result.MovesExecuted)
	}
	if result.Message != "Merry Christmas!" {
		t.Errorf("Expected the won message, got %q", result.Message)
	}

	// Further moves are rejected and do not leave the goal
	w = doRequest(t, server, "POST", "/api/sessions/"+info.ID+"/move", map[string]string{"direction": "up"})
	var after service.MoveResult
	decode(t, w, &after)
	if after.Success || after.Outcome != engine.AlreadySolved {
		t.Errorf("Expected already_solved, got %s", after.Outcome)
	}
	if after.State.Position != (maze.Position{X: 9, Y: 9}) {
		t.Errorf("Expected to stay on the goal, got %s", after.State.Position)
	}
}

func TestBulkMove_EmptyMoves(t *testing.T) {
	server := setupTestServer(t)
	info := createSession(t, server, nil)

	w := doRequest(t, server, "POST", "/api/sessions/"+info.ID+"/bulk-move", map[string]interface{}{
		"moves": []string{},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestPress(t *testing.T) {
	server := setupTestServer(t)
	info := createSession(t, server, nil)
	path := "/api/sessions/" + info.ID + "/press"

	w := doRequest(t, server, "POST", path, map[string]string{"key": "ArrowRight"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var result service.MoveResult
	decode(t, w, &result)
	if !result.Forwarded || result.Outcome != engine.Moved {
		t.Errorf("Expected forwarded move, got %+v", result)
	}

	// Keys without a direction are ignored
	w = doRequest(t, server, "POST", path, map[string]string{"key": "Enter"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for ignored key, got %d", w.Code)
	}
	var ignored service.MoveResult
	decode(t, w, &ignored)
	if ignored.Forwarded {
		t.Error("Expected unknown key not to be forwarded")
	}
	if ignored.State.Position != (maze.Position{X: 1, Y: 0}) {
		t.Errorf("Ignored key changed position to %s", ignored.State.Position)
	}

	w = doRequest(t, server, "POST", path, map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing key, got %d", w.Code)
	}
}

func TestResetAndHistory(t *testing.T) {
	server := setupTestServer(t)
	info := createSession(t, server, nil)
	base := "/api/sessions/" + info.ID

	for _, dir := range []string{"right", "down", "left"} {
		doRequest(t, server, "POST", base+"/move", map[string]string{"direction": dir})
	}

	w := doRequest(t, server, "GET", base+"/history?order=asc&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var history service.HistoryResponse
	decode(t, w, &history)
	if history.TotalMoves != 3 {
		t.Errorf("Expected 3 recorded attempts, got %d", history.TotalMoves)
	}
	if len(history.Moves) != 2 || !history.HasNext {
		t.Errorf("Expected a first page of 2 with more to come, got %d", len(history.Moves))
	}
	if history.Moves[0].Direction != "right" {
		t.Errorf("Expected oldest attempt first, got %s", history.Moves[0].Direction)
	}

	w = doRequest(t, server, "POST", base+"/reset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var reset struct {
		State *engine.State `json:"state"`
	}
	decode(t, w, &reset)
	if reset.State.Position != (maze.Position{X: 0, Y: 0}) || reset.State.Attempts != 0 {
		t.Errorf("Expected a fresh state, got %+v", reset.State)
	}

	w = doRequest(t, server, "GET", base+"/state", nil)
	var state engine.State
	decode(t, w, &state)
	if state.Status != engine.InProgress {
		t.Errorf("Expected in_progress after reset, got %s", state.Status)
	}
}

func TestDescribeCell(t *testing.T) {
	server := setupTestServer(t)
	info := createSession(t, server, nil)

	tests := []struct {
		name     string
		x, y     string
		status   int
		inBounds bool
		kind     maze.CellKind
	}{
		{"start", "0", "0", http.StatusOK, true, maze.Start},
		{"wall", "0", "1", http.StatusOK, true, maze.Wall},
		{"goal", "9", "9", http.StatusOK, true, maze.Goal},
		{"outside", "-1", "0", http.StatusOK, false, 0},
		{"not a number", "a", "0", http.StatusBadRequest, false, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := fmt.Sprintf("/api/sessions/%s/cells/%s/%s", info.ID, test.x, test.y)
			w := doRequest(t, server, "GET", path, nil)
			if w.Code != test.status {
				t.Fatalf("Expected status %d, got %d", test.status, w.Code)
			}
			if test.status != http.StatusOK {
				return
			}

			var cell service.CellInfo
			decode(t, w, &cell)
			if cell.InBounds != test.inBounds {
				t.Errorf("Expected in_bounds %v, got %v", test.inBounds, cell.InBounds)
			}
			if test.inBounds && (cell.Kind == nil || *cell.Kind != test.kind) {
				t.Errorf("Expected kind %s, got %v", test.kind, cell.Kind)
			}
		})
	}
}

func TestLayouts(t *testing.T) {
	server := setupTestServer(t)

	w := doRequest(t, server, "GET", "/api/layouts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var infos []*config.Info
	decode(t, w, &infos)

	ids := make(map[string]bool)
	for _, info := range infos {
		ids[info.ConfigID] = true
	}
	if !ids["reference"] || !ids["small"] {
		t.Errorf("Expected reference and small layouts, got %v", ids)
	}

	w = doRequest(t, server, "GET", "/api/layouts/small.yaml", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var layout config.Layout
	decode(t, w, &layout)
	if layout.Messages.Won != "Found her!" {
		t.Errorf("Expected small layout messages, got %+v", layout.Messages)
	}

	w = doRequest(t, server, "GET", "/api/layouts/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("session ab12: %w", session.ErrSessionNotFound), http.StatusNotFound},
		{fmt.Errorf("layout: %w", config.ErrConfigNotFound), http.StatusNotFound},
		{session.ErrSessionAlreadyExists, http.StatusConflict},
		{fmt.Errorf("%w: %q", maze.ErrUnknownDirection, "x"), http.StatusBadRequest},
		{session.ErrInvalidSessionID, http.StatusBadRequest},
		{session.ErrSessionClosed, http.StatusGone},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		if got := statusFor(test.err); got != test.status {
			t.Errorf("statusFor(%v): expected %d, got %d", test.err, test.status, got)
		}
	}
}

func TestWebSocket_Rejections(t *testing.T) {
	server := setupTestServer(t)

	w := doRequest(t, server, "GET", "/ws", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without session, got %d", w.Code)
	}

	w = doRequest(t, server, "GET", "/ws?session=ffff", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown session, got %d", w.Code)
	}
}

func TestWebSocket_KeyInput(t *testing.T) {
	server := setupTestServer(t)
	ts := httptest.NewServer(server)
	defer ts.Close()

	info := createSession(t, server, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?session=" + info.ID
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for server.hub.ClientCount(info.ID) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for the client to register")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := conn.WriteJSON(map[string]string{"key": "ArrowRight"}); err != nil {
		t.Fatalf("Failed to send key: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg websocket.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read state update: %v", err)
	}
	if msg.Event != websocket.EventStateUpdate || msg.State == nil {
		t.Fatalf("Expected a state update, got %+v", msg)
	}
	if msg.State.Position != (maze.Position{X: 1, Y: 0}) {
		t.Errorf("Expected the player on (1,0), got %s", msg.State.Position)
	}
}
