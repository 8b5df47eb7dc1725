// Command merrychristmas starts the Merry Christmas maze server.
//
// It supports three commands:
//  1. "serve" (default) – runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server, reusing a running API or spinning up an internal one
//  3. "validate" – checks every layout file in a directory and exits non-zero on errors
//
// Flags control host/port, the layouts directory, session expiry, debug
// logging, and optional ngrok tunneling for easy external access during
// development. Every flag can also be set through its environment variable.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/CyberMindX-AI/merrychristmas/api"
	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/service"
	"github.com/CyberMindX-AI/merrychristmas/game/session"
	"github.com/CyberMindX-AI/merrychristmas/transport/mcp"
	"github.com/CyberMindX-AI/merrychristmas/transport/websocket"
	"github.com/CyberMindX-AI/merrychristmas/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Merry Christmas Maze Server"
)

// options are the resolved command line settings
type options struct {
	host        string
	port        int
	layoutsDir  string
	sessionTTL  time.Duration
	debug       bool
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

// main loads .env, builds the command tree and runs it
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Running it without a command serves HTTP.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "merrychristmas",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("MAZE_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "layouts-dir",
				Value:   "configs",
				Usage:   "Directory containing maze layouts",
				Sources: cli.EnvVars("LAYOUTS_DIR", "CONFIG_DIR"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   24 * time.Hour,
				Usage:   "Remove sessions idle for longer than this (0 disables cleanup)",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runHTTPServer(ctx, optionsFrom(cmd))
		},
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runHTTPServer(ctx, optionsFrom(cmd))
				},
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server backed by a running or internal HTTP API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCP(ctx, optionsFrom(cmd))
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate maze layout files",
				ArgsUsage: "[dir]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					dir := cmd.Args().First()
					if dir == "" {
						dir = cmd.String("layouts-dir")
					}
					return runValidate(cmd.Root().Writer, dir)
				},
			},
		},
	}
}

// optionsFrom reads the flag values and applies the logging setup
func optionsFrom(cmd *cli.Command) options {
	opts := options{
		host:        cmd.String("host"),
		port:        cmd.Int("port"),
		layoutsDir:  cmd.String("layouts-dir"),
		sessionTTL:  cmd.Duration("session-ttl"),
		debug:       cmd.Bool("debug"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	}

	if opts.debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
	return opts
}

// services holds the long-lived components shared by every transport
type services struct {
	layouts  *config.Manager
	sessions *session.Manager
	hub      *websocket.Hub
	game     service.GameService
}

// initializeServices wires the layout and session managers, the WebSocket
// hub and the game service. Sessions close when ctx is done.
func initializeServices(ctx context.Context, layoutsDir string) (*services, error) {
	layouts, err := config.NewManager(layoutsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessions := session.NewManager(ctx)

	hub := websocket.NewHub()
	go hub.Run()

	game := service.NewGameService(sessions, layouts, service.WithNotifier(hub))

	return &services{
		layouts:  layouts,
		sessions: sessions,
		hub:      hub,
		game:     game,
	}, nil
}

// close stops the hub and closes every open session
func (s *services) close() {
	s.hub.Stop()
	if n := s.sessions.CloseAll(); n > 0 {
		log.Printf("[SESSION] closed %d sessions", n)
	}
}

// newRouter mounts the API at the root and the MCP endpoint at /mcp. The
// MCP tools call back into the API at baseURL.
func newRouter(svcs *services, baseURL string) http.Handler {
	apiServer := api.NewServer(svcs.game, svcs.hub)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runHTTPServer starts the HTTP server and, when enabled, an ngrok tunnel
// serving the same router. It blocks until SIGINT or SIGTERM.
func runHTTPServer(ctx context.Context, opts options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting %s v%s", AppName, Version)

	svcs, err := initializeServices(ctx, opts.layoutsDir)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svcs.close()

	go sessionCleanupRoutine(ctx, svcs.sessions, opts.sessionTTL)

	addr := opts.addr()
	mainRouter := newRouter(svcs, fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, opts, mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err = <-serveErr:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("HTTP server shutdown error: %v", shutdownErr)
	}

	wg.Wait()
	log.Println("Server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is done
func runNgrokTunnel(ctx context.Context, opts options, handler http.Handler) {
	if opts.ngrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// cleanupInterval picks how often to sweep for sessions idle past ttl
func cleanupInterval(ttl time.Duration) time.Duration {
	interval := time.Hour
	if ttl < 2*interval {
		interval = ttl / 2
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl. A non-positive ttl disables it.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(cleanupInterval(ttl))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Printf("[SESSION] cleaned up %d expired sessions", removed)
			}
		}
	}
}

// apiAvailable reports whether a maze API answers its health check at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening
// on host:port; otherwise it starts an internal API on a random loopback port.
func runStdioMCP(ctx context.Context, opts options) error {
	externalURL := fmt.Sprintf("http://%s", opts.addr())
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if apiAvailable(externalURL) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		svcs, err := initializeServices(ctx, opts.layoutsDir)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svcs.close()

		go sessionCleanupRoutine(ctx, svcs.sessions, opts.sessionTTL)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Printf("Starting internal HTTP server on %s for MCP stdio", listener.Addr())

		httpServer := &http.Server{Handler: api.NewServer(svcs.game, svcs.hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runValidate reports on every layout in dir and fails if any is invalid
func runValidate(w io.Writer, dir string) error {
	if w == nil {
		w = os.Stdout
	}

	results, err := validate.Dir(dir)
	if err != nil {
		return err
	}
	if !validate.Report(w, results) {
		return errors.New("some layouts have errors")
	}
	return nil
}
