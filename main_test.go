package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Merry Christmas Maze Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	for _, name := range []string{"serve", "mcp", "validate"} {
		found := false
		for _, cmd := range app.Commands {
			if cmd.Name == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected command %s", name)
		}
	}

	for _, name := range []string{"host", "port", "layouts-dir", "session-ttl", "debug", "ngrok", "ngrok-auth", "ngrok-domain"} {
		found := false
		for _, flag := range app.Flags {
			for _, n := range flag.Names() {
				if n == name {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("Expected flag --%s", name)
		}
	}
}

func TestInitializeServices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svcs, err := initializeServices(ctx, "configs")
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.close()

	if svcs.game == nil || svcs.hub == nil || svcs.sessions == nil || svcs.layouts == nil {
		t.Fatal("Expected every service to be initialized")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	if _, err := initializeServices(context.Background(), "/non/existent/path"); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func newTestRouter(t *testing.T) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	svcs, err := initializeServices(ctx, "configs")
	if err != nil {
		cancel()
		t.Fatalf("Failed to initialize services: %v", err)
	}

	ts := httptest.NewUnstartedServer(nil)
	ts.Config.Handler = newRouter(svcs, "http://"+ts.Listener.Addr().String())
	ts.Start()

	t.Cleanup(func() {
		ts.Close()
		svcs.close()
		cancel()
	})
	return ts
}

func TestRouter_API(t *testing.T) {
	ts := newTestRouter(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if !apiAvailable(ts.URL) {
		t.Error("Expected the API to be detected")
	}
}

func TestRouter_MCP(t *testing.T) {
	ts := newTestRouter(t)

	resp, err := http.Get(ts.URL + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	resp, err = http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /mcp failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Merry Christmas Maze") {
		t.Errorf("Expected server info in initialize response, got %s", buf.String())
	}
}

func TestAPIAvailable_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	if apiAvailable(ts.URL) {
		t.Error("Expected a closed server to be unavailable")
	}
}

func TestCleanupInterval(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{24 * time.Hour, time.Hour},
		{2 * time.Hour, time.Hour},
		{30 * time.Minute, 15 * time.Minute},
		{time.Second, time.Second},
	}

	for _, test := range tests {
		if got := cleanupInterval(test.ttl); got != test.want {
			t.Errorf("cleanupInterval(%s): expected %s, got %s", test.ttl, test.want, got)
		}
	}
}

func TestRunValidate(t *testing.T) {
	var buf bytes.Buffer
	if err := runValidate(&buf, "configs"); err != nil {
		t.Fatalf("Expected repository layouts to be valid: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "All layouts are valid") {
		t.Errorf("Unexpected report: %s", buf.String())
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"name": "bad", "layout": [[2, 1, 3]]}`), 0644); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := runValidate(&buf, dir); err == nil {
		t.Error("Expected an error for an invalid layout")
	}
}

func TestValidateCommand(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	if err := app.Run(context.Background(), []string{"merrychristmas", "validate", "configs"}); err != nil {
		t.Fatalf("validate command failed: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "reference.json") {
		t.Errorf("Expected reference.json in report, got %s", buf.String())
	}
}
