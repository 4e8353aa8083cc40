// Package app wires configuration, services, transport and the
// websocket hub into a runnable HTTP application.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"leanixcli/internal/config"
	apierrors "leanixcli/internal/errors"
	"leanixcli/internal/infrastructure"
	"leanixcli/internal/middleware"
	"leanixcli/internal/services"
	transport "leanixcli/internal/transport/http"
	"leanixcli/internal/websocket"
)

// Application holds all initialized components.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Router  chi.Router
	Server  *http.Server
	Hub     *websocket.Hub
	Metrics *infrastructure.Metrics

	AnalysisService *services.AnalysisService

	version    string
	frontendFS fs.FS
}

// NewApplication creates a fully wired application. frontendFS serves
// the dashboard page at the root path and may be nil.
func NewApplication(cfg *config.Config, version string, frontendFS fs.FS) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	metrics := infrastructure.NewMetrics()
	hub := websocket.NewHub(logger)
	analysisService := services.NewAnalysisService(cfg, logger, metrics, hub)

	app := &Application{
		Config:          cfg,
		Logger:          logger,
		Hub:             hub,
		Metrics:         metrics,
		AnalysisService: analysisService,
		version:         version,
		frontendFS:      frontendFS,
	}

	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

func (app *Application) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(app.Logger))
	r.Use(middleware.Recoverer(app.Logger))
	if app.Config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			app.Config.Security.RateLimit.RPS,
			app.Config.Security.RateLimit.Burst,
			app.Logger,
		)
		r.Use(limiter.Handler)
	}
	r.Use(middleware.RequestMetrics(app.Metrics))

	analysisHandler := transport.NewAnalysisHandler(app.AnalysisService, app.Logger)
	healthHandler := transport.NewHealthHandler(app.AnalysisService, app.Logger, app.version)
	wsHandler := transport.NewWebSocketHandler(app.Hub, app.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			render.Render(w, req, apierrors.ErrNotFound)
		})
		analysisHandler.RegisterRoutes(r)
		healthHandler.RegisterRoutes(r)
	})

	r.Get("/ws", wsHandler.Serve)
	r.Handle("/metrics", app.Metrics.Handler())

	if app.frontendFS != nil {
		r.Handle("/*", http.FileServer(http.FS(app.frontendFS)))
	}

	return r
}

// Run starts the hub and the HTTP server, blocking until the context is
// canceled or an interrupt signal arrives, then shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Hub.Start()
	defer app.Hub.Stop()

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server listening",
			slog.String("addr", app.Server.Addr),
			slog.String("version", app.version))
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	infrastructure.CloseLogFile()
	return nil
}

// RunInitialAnalysis loads the configured input file once at startup so
// the dashboard has data to show. A missing input file is logged but not
// fatal; the dashboard stays up and reports readiness once an analysis
// succeeds.
func (app *Application) RunInitialAnalysis(ctx context.Context) {
	if _, err := app.AnalysisService.Analyze(ctx, ""); err != nil {
		app.Logger.Warn("initial analysis failed",
			slog.String("input_file", app.Config.Paths.InputFile),
			slog.String("error", err.Error()))
	}
}

// WaitReady is a helper for tests: it polls the health endpoint until the
// server responds or the timeout elapses.
func (app *Application) WaitReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://localhost:%d/api/health", app.Config.Server.Port)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %s", timeout)
}
