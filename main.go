// Command mazegame runs the text-adventure maze.
//
// It supports four commands:
//  1. "play" (default) – plays the maze in the terminal
//  2. "serve" – runs the HTTP server exposing the REST API, WebSocket, /metrics and an /mcp endpoint
//  3. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  4. "export" – writes a maze definition as JSON or YAML
//
// The maze comes from --maze, MAZEGAME_MAZE_PATH or maze.path, else from
// maze.json next to the executable, else the built-in three-room maze.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazegame/api"
	"github.com/wricardo/mcp-training/mazegame/game/config"
	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/service"
	"github.com/wricardo/mcp-training/mazegame/game/session"
	"github.com/wricardo/mcp-training/mazegame/logger"
	"github.com/wricardo/mcp-training/mazegame/monitor"
	"github.com/wricardo/mcp-training/mazegame/settings"
	"github.com/wricardo/mcp-training/mazegame/transport/mcp"
	"github.com/wricardo/mcp-training/mazegame/transport/terminal"
	"github.com/wricardo/mcp-training/mazegame/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Maze Game"
)

// app carries what the Before hook resolved for the commands
type app struct {
	settings *settings.Settings
	mazes    *config.Manager
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCommand builds the command tree
func newCommand() *cli.Command {
	a := &app{}

	return &cli.Command{
		Name:           "mazegame",
		Usage:          "find your way through a maze of rooms",
		Version:        Version,
		DefaultCommand: "play",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "settings file or directory containing mazegame.yaml",
				Sources: cli.EnvVars("MAZEGAME_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "maze",
				Usage: "maze definition file (JSON or YAML)",
			},
			&cli.StringFlag{
				Name:  "maze-dir",
				Usage: "directory of maze files exposed as a catalog",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "HTTP server host",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP server port",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "expose prometheus metrics",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: a.before,
		After: func(ctx context.Context, cmd *cli.Command) error {
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play the maze in the terminal",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.runPlay(ctx, cmd.Root().Reader, cmd.Root().Writer)
				},
			},
			{
				Name:  "serve",
				Usage: "run the HTTP server with REST API, WebSocket, metrics and MCP endpoint",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
					defer stop()
					return a.runServe(ctx)
				},
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp"},
				Usage:   "run an MCP stdio server backed by the HTTP API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.runStdioMCP(ctx)
				},
			},
			{
				Name:  "export",
				Usage: "write a maze definition to stdout or a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "catalog maze to export instead of the startup maze",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: string(engine.FormatJSON),
						Usage: "json or yaml",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output file (default stdout)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.runExport(cmd.String("name"), engine.Format(cmd.String("format")), cmd.String("output"), cmd.Root().Writer)
				},
			},
		},
	}
}

// before loads .env and settings, applies flag overrides, and sets up logging
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	s, err := settings.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	applyFlagOverrides(cmd, s)
	a.settings = s

	if err := logger.Init(s.Debug); err != nil {
		return ctx, fmt.Errorf("failed to initialize logger: %w", err)
	}

	mazes, err := config.NewManager(s.Maze.Dir)
	if err != nil {
		return ctx, fmt.Errorf("failed to create maze manager: %w", err)
	}
	a.mazes = mazes

	return ctx, nil
}

// applyFlagOverrides lets explicitly set flags win over file and env settings
func applyFlagOverrides(cmd *cli.Command, s *settings.Settings) {
	if cmd.IsSet("maze") {
		s.Maze.Path = cmd.String("maze")
	}
	if cmd.IsSet("maze-dir") {
		s.Maze.Dir = cmd.String("maze-dir")
	}
	if cmd.IsSet("host") {
		s.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		s.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("metrics") {
		s.Metrics.Enabled = cmd.Bool("metrics")
	}
	if cmd.IsSet("debug") {
		s.Debug = cmd.Bool("debug")
	}
}

// newHost resolves the startup maze into the live session
func (a *app) newHost() *session.Host {
	state, source := a.mazes.Resolve(a.settings.Maze.Path)
	return session.NewHost(state, source)
}

// runPlay runs the terminal shell
func (a *app) runPlay(ctx context.Context, in io.Reader, out io.Writer) error {
	svc := service.NewGameService(a.newHost(), a.mazes, nil)
	return terminal.NewShell(svc, in, out).Run(ctx)
}

// httpService is a listening API server with its websocket hub
type httpService struct {
	server *http.Server
	ln     net.Listener
	hub    *websocket.Hub
	URL    string
}

// newHTTPService wires service, hub, metrics and the /mcp endpoint and
// starts listening on addr
func (a *app) newHTTPService(addr string) (*httpService, error) {
	var (
		recorder service.MetricsRecorder
		gauge    websocket.WatcherGauge
		observer api.RequestObserver
		mon      *monitor.Monitor
	)
	if a.settings.Metrics.Enabled {
		mon = monitor.NewMonitor(a.settings.Metrics.Namespace)
		recorder, gauge, observer = mon, mon, mon
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	baseURL := "http://" + ln.Addr().String()

	gameService := service.NewGameService(a.newHost(), a.mazes, recorder)
	hub := websocket.NewHub(gauge)
	apiServer := api.NewServer(gameService, hub, observer)

	if mon != nil {
		apiServer.Handle(a.settings.Metrics.Path, mon.Handler(), "GET")
	}

	mcpClient := mcp.NewClient(baseURL)
	apiServer.Handle("/mcp", mcpClient.HTTPHandler(), "POST")

	return &httpService{
		server: &http.Server{
			Handler:      apiServer,
			ReadTimeout:  a.settings.Server.ReadTimeout,
			WriteTimeout: a.settings.Server.WriteTimeout,
			IdleTimeout:  a.settings.Server.IdleTimeout,
		},
		ln:  ln,
		hub: hub,
		URL: baseURL,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (h *httpService) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go h.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.Serve(h.ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}

// runServe runs the HTTP server until ctx is cancelled
func (a *app) runServe(ctx context.Context) error {
	svc, err := a.newHTTPService(a.settings.Server.Addr())
	if err != nil {
		return err
	}

	logger.Log.Infow("HTTP server listening",
		"rest", svc.URL+"/api",
		"websocket", "ws"+svc.URL[len("http"):]+"/ws",
		"mcp", svc.URL+"/mcp",
		"metrics_enabled", a.settings.Metrics.Enabled)

	if err := svc.Run(ctx); err != nil {
		return err
	}
	logger.Log.Info("server stopped")
	return nil
}

// runStdioMCP runs an MCP stdio server. It reuses an API server already
// running at the configured address; otherwise it starts an internal one on
// a random loopback port.
func (a *app) runStdioMCP(ctx context.Context) error {
	externalURL := "http://" + a.settings.Server.Addr()
	baseURL := externalURL

	if !probeAPI(externalURL) {
		logger.Log.Infow("no external API server found, starting internal HTTP server", "probed", externalURL)

		internal, err := a.newHTTPService("127.0.0.1:0")
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := internal.Run(ctx); err != nil {
				logger.Log.Errorw("internal HTTP server error", "error", err)
			}
		}()
		baseURL = internal.URL
	}

	logger.Log.Infow("MCP stdio server ready", "api", baseURL)
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// probeAPI reports whether a maze API answers at baseURL
func probeAPI(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runExport writes the startup maze, or a catalog maze when name is set
func (a *app) runExport(name string, format engine.Format, output string, stdout io.Writer) error {
	var rooms []engine.Room
	if name != "" {
		maze, err := a.mazes.LoadMaze(name)
		if err != nil {
			return err
		}
		rooms = maze.Rooms
	} else {
		state, source := a.mazes.Resolve(a.settings.Maze.Path)
		logger.Log.Debugw("exporting startup maze", "source", source)
		rooms = state.Rooms
	}

	data, err := engine.MarshalMaze(rooms, format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0644)
}
