package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CyberMindX-AI/merrychristmas/game/engine"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
	"github.com/CyberMindX-AI/merrychristmas/game/service"
)

// Client plays one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client plays
func (c *Client) SessionID() string {
	return c.sessionID
}

// CreateSession starts a session on configID (empty for the default layout)
func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.State, error) {
	var info service.SessionInfo
	if err := c.post(ctx, "/api/sessions", map[string]string{"config_id": configID}, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return info.State, nil
}

// Resume attaches to an existing session and returns its state
func (c *Client) Resume(ctx context.Context, sessionID string) (*engine.State, error) {
	c.sessionID = sessionID
	var state engine.State
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}
	return &state, nil
}

// Move implements Mover with one POST per direction
func (c *Client) Move(ctx context.Context, dir maze.Direction) (engine.Outcome, error) {
	var result service.MoveResult
	if err := c.post(ctx, c.sessionPath("/move"), map[string]interface{}{"direction": dir.String()}, &result); err != nil {
		return result.Outcome, err
	}
	return result.Outcome, nil
}

// BulkMove sends a whole path in one request
func (c *Client) BulkMove(ctx context.Context, dirs []maze.Direction) (*service.BulkMoveResult, error) {
	moves := make([]string, len(dirs))
	for i, dir := range dirs {
		moves[i] = dir.String()
	}

	var result service.BulkMoveResult
	if err := c.post(ctx, c.sessionPath("/bulk-move"), map[string]interface{}{"moves": moves}, &result); err != nil {
		return nil, fmt.Errorf("bulk move: %w", err)
	}
	return &result, nil
}

// Reset starts the session over
func (c *Client) Reset(ctx context.Context) (*engine.State, error) {
	var resp struct {
		State *engine.State `json:"state"`
	}
	if err := c.post(ctx, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.State, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + c.sessionID + suffix
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
