package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/buckalew/retirement-sim/internal/calculation"
	"github.com/buckalew/retirement-sim/internal/config"
	"github.com/buckalew/retirement-sim/internal/domain"
)

// Server exposes the calculators and the simulation runner over HTTP.
type Server struct {
	runner   *calculation.Runner
	monitor  *calculation.PerformanceMonitor
	logger   *zap.Logger
	settings config.ServerConfig
	defaults domain.RunConfig

	// baseCtx parents asynchronous runs so they outlive the request that started them.
	baseCtx context.Context
}

// NewServer wires a runner with a zap-backed logger and an in-memory performance monitor.
func NewServer(ctx context.Context, logger *zap.Logger, settings config.ServerConfig, defaults domain.RunConfig) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	monitor := calculation.NewPerformanceMonitor()
	sim := calculation.NewMonteCarloSimulator(calculation.NewZapLogger(logger), monitor)
	runner := calculation.NewRunner(sim)
	if settings.RunRetention > 0 {
		runner.Retention = settings.RunRetention
	}
	return &Server{
		runner:   runner,
		monitor:  monitor,
		logger:   logger,
		settings: settings,
		defaults: defaults,
		baseCtx:  ctx,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := s.settings.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}).Handler)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculators/compound", s.handleCompound)
		r.Post("/calculators/retirement", s.handleRetirement)
		r.Post("/calculators/mortgage", s.handleMortgage)

		r.Post("/simulations", s.handleSimulate)
		r.Post("/simulations/async", s.handleStartSimulation)
		r.Get("/simulations/{id}", s.handleGetSimulation)
		r.Delete("/simulations/{id}", s.handleCancelSimulation)

		r.Get("/metrics", s.handleMetrics)
	})
	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.settings.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("op", "api.ListenAndServe"), zap.String("addr", s.settings.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		for _, id := range s.runner.Active() {
			s.runner.Forget(id)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
