// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/mysnippets/internal/api"
	"github.com/starford/mysnippets/internal/host"
	"github.com/starford/mysnippets/internal/mcpserver"
	"github.com/starford/mysnippets/internal/menu"
	"github.com/starford/mysnippets/internal/registry"
	"github.com/starford/mysnippets/internal/snippetservice"
	"github.com/starford/mysnippets/internal/sse"
	"github.com/starford/mysnippets/internal/state"
	"github.com/starford/mysnippets/internal/storage"
)

const pluginID = "mysnippets"

// core is the part of the runtime shared by the HTTP and MCP front ends.
type core struct {
	cfg      *Config
	logger   *slog.Logger
	store    *storage.FS
	db       *state.DB
	reg      *registry.Registry
	svc      *snippetservice.Service
	plugin   *menu.Plugin
	settings menu.Settings
}

func setup(opts []Option) (*core, error) {
	app := &application{version: "dev", logOut: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("snippets_folder", cfg.Snippets.Folder),
		slog.String("state_path", cfg.Snippets.StatePath),
		slog.Bool("watch", cfg.Snippets.Watch),
		slog.String("failure_policy", cfg.Menu.FailurePolicy),
		slog.String("log_level", cfg.App.LogLevel.String()))

	settings, err := cfg.Menu.Settings()
	if err != nil {
		return nil, err
	}

	// Ensure the snippets folder exists.
	if err := os.MkdirAll(cfg.Snippets.Folder, 0o755); err != nil {
		return nil, fmt.Errorf("create snippets dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Snippets.Folder)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := state.Open(cfg.Snippets.StatePath)
	if err != nil {
		return nil, fmt.Errorf("init state: %w", err)
	}

	reg, err := registry.New(store, db, registry.WithLogger(logger))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init registry: %w", err)
	}

	return &core{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		db:       db,
		reg:      reg,
		svc:      snippetservice.NewService(reg, store),
		plugin:   &menu.Plugin{ID: pluginID, Name: "MySnippets", Version: app.version},
		settings: settings,
	}, nil
}

func (c *core) menuApp(notifier menu.Notifier, dialog menu.Dialog) *menu.App {
	vp := c.cfg.Menu.DefaultViewport
	return &menu.App{
		Registry: c.reg,
		Opener:   host.NewOpener(c.logger),
		Notifier: notifier,
		Dialog:   dialog,
		Viewport: menu.FixedViewport{Width: vp.Width, Height: vp.Height},
		Logger:   c.logger,
	}
}

// watch runs the folder watcher when enabled.
func (c *core) watch(ctx context.Context) error {
	if !c.cfg.Snippets.Watch {
		return nil
	}
	if err := registry.Watch(ctx, c.reg, c.logger, c.cfg.Snippets.Debounce); err != nil {
		return fmt.Errorf("watch snippets: %w", err)
	}
	return nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	c, err := setup(opts)
	if err != nil {
		return err
	}
	defer c.db.Close()

	cfg, logger := c.cfg, c.logger

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	c.reg.OnChange(broker.PublishChange)

	// Menu and API.
	app := c.menuApp(broker, host.NewCreateSnippetDialog(broker))
	menus := api.NewMenuHandler(menu.NewController(), app, c.plugin, c.settings)
	apiRouter := api.NewRouter(c.svc, menus, broker, cfg.Auth.AuthEnabled(), cfg.Auth.Token, cfg.App.HTTP.AllowedOrigins, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := c.store.List(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start the snippets folder watcher.
	g.Go(func() error {
		return c.watch(gCtx)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Open event streams would hold Shutdown until its timeout.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio until stdin closes or ctx is done.
func RunMCP(ctx context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	c, err := setup(opts)
	if err != nil {
		return err
	}
	defer c.db.Close()

	sink := host.LogNotifier{Logger: c.logger}
	srv := mcpserver.New(c.svc, mcpserver.MenuDeps{
		Controller: menu.NewController(),
		App:        c.menuApp(sink, host.NewCreateSnippetDialog(sink)),
		Plugin:     c.plugin,
		Settings:   c.settings,
	}, c.plugin.Version)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.watch(gCtx)
	})
	g.Go(func() error {
		if err := srv.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}
	return nil
}
