package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"namescan/internal/config"
	"namescan/internal/infrastructure"
	custommw "namescan/internal/middleware"
	"namescan/internal/services"
	handlers "namescan/internal/transport/http"
	ws "namescan/internal/websocket"
	"namescan/pkg/contracts"
)

const AppName = "namescan"

// Application is the main application container.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Metrics       *infrastructure.Metrics
	WebSocketHub  *ws.Hub
	SearchService *services.SearchService

	registry *prometheus.Registry
}

// NewApplication loads configuration and wires all services together.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig wires the application around an existing
// configuration. Used by tests to point the app at temp directories.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", cfg.Server.Port),
	)

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensuring directories: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := infrastructure.NewMetrics(registry)

	hub := ws.NewHub(logger)

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Metrics:       metrics,
		WebSocketHub:  hub,
		SearchService: services.NewSearchService(cfg, logger, metrics, hub),
		registry:      registry,
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID stays outside the group so websocket upgrades get one too
	r.Use(custommw.RequestID)

	// Websocket route must avoid the wrapping middleware below
	r.HandleFunc("/ws", a.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.Metrics(a.Metrics))
		if a.Config.Server.RateLimitRPS > 0 {
			r.Use(custommw.NewRateLimiter(
				a.Config.Server.RateLimitRPS,
				a.Config.Server.RateLimitBurst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	a.Router = r
}

// setupAPIRoutes configures the API endpoints.
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler()
		r.Get("/health", healthHandler.Health)

		r.Mount("/names", handlers.NewNamesHandler(a.SearchService, a.Logger).Routes())
		r.Mount("/search", handlers.NewSearchHandler(a.SearchService, a.Logger).Routes())

		resultsHandler := handlers.NewResultsHandler(a.SearchService, a.Logger)
		r.Mount("/results", resultsHandler.Routes())
		r.Get("/report", resultsHandler.DownloadReport)
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the websocket hub and the HTTP server. Server errors
// cancel the supplied context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.WebSocketHub.Start()

	go func() {
		a.Logger.InfoContext(ctx, "http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully stops the server and background services.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.WebSocketHub.Stop()

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.Error("closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	// Fresh context: the run context may already be cancelled
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}

// handleWebSocket upgrades progress stream connections.
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	reqID := custommw.GetReqID(r.Context())
	ctx := infrastructure.WithTraceID(r.Context(), reqID)
	a.Logger.InfoContext(ctx, "websocket upgrade request",
		slog.String("remote_addr", r.RemoteAddr),
	)
	ws.ServeWS(a.WebSocketHub, a.Logger, w, r.WithContext(ctx))
}
