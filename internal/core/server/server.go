package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/restaurant-recommender/internal/clientprofile"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/config"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/gateway"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/health"
	middleware "github.com/mohammed-shakir/restaurant-recommender/internal/core/middleware"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/router"
	"github.com/mohammed-shakir/restaurant-recommender/internal/present"
	"github.com/mohammed-shakir/restaurant-recommender/internal/session"
)

// Deps are the wired components the HTTP surface serves.
type Deps struct {
	Gateway    gateway.Searcher
	Translator clientprofile.Translator
	Sessions   *session.Registry
	Ready      map[string]health.Pinger
	MapOptions present.MapOptions
	// Metrics defaults to promhttp.Handler()
	Metrics http.Handler
}

func Handler(cfg config.Config, logger *slog.Logger, d Deps) http.Handler {
	metrics := d.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(d.Ready, time.Second))
	r.Get("/api/health", health.Status())
	r.Method(http.MethodGet, metricsPath, metrics)

	r.Post("/api/search", router.Search(logger, d.Gateway))
	r.Post("/api/clients", router.Clients(logger, d.Translator))
	r.Get("/api/options", router.Options())

	r.Route("/api/session", func(sr chi.Router) {
		sr.Use(d.Sessions.Middleware)
		sr.Get("/", router.GetSession())
		sr.Delete("/", router.EndSession(d.Sessions))
		sr.Patch("/filters", router.PatchFilters(logger))
		sr.Post("/price", router.TogglePrice(logger))
		sr.Post("/search", router.SessionSearch(logger))
		sr.Post("/clients", router.SessionClients(logger, d.Translator))
		sr.Post("/reset", router.ResetSession())
		sr.Get("/view", router.View(logger, d.MapOptions))
		sr.Get("/restaurants/{id}", router.RestaurantDetail())
	})
	return r
}

// Run serves Handler on cfg.Addr until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, d Deps) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           Handler(cfg, logger, d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.SearchTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			// searches still running finish on their own timeout
			logger.Warn("http shutdown incomplete", "err", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
