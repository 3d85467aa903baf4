package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/httpapi/middleware"
	"github.com/novaquill/docmind/pkg/logger_i"
)

var (
	server     *http.Server
	routerOnce sync.Once
	router     *chi.Mux
	srvLogger  *logger_i.Logger
)

// getRouter returns the process-wide chi router, created exactly once so
// /metrics and every /analyze/* route share one mux.
func getRouter() *chi.Mux {
	routerOnce.Do(func() {
		router = chi.NewRouter()
		router.Handle("/metrics", promhttp.Handler())
	})
	return router
}

// CreateServer registers every route against the shared router and blocks
// serving HTTP until the listener is closed.
func CreateServer(listenAddr string, h *Handlers, limiter *middleware.RateLimiter) {
	srvLogger = logger_i.NewLogger("httpapi.server")

	r := getRouter()
	wrap := middleware.Wrap(limiter)

	r.Post("/analyze/chunk", wrap(withRequestMetrics("/analyze/chunk", h.Chunk)))
	r.Post("/analyze/stats", wrap(withRequestMetrics("/analyze/stats", h.Stats)))
	r.Post("/analyze/hierarchy", wrap(withRequestMetrics("/analyze/hierarchy", h.Hierarchy)))
	r.Post("/analyze/query", wrap(withRequestMetrics("/analyze/query", h.Query)))
	r.Post("/analyze/criticize", wrap(withRequestMetrics("/analyze/criticize", h.Criticize)))
	r.Post("/analyze/suggest", wrap(withRequestMetrics("/analyze/suggest", h.Suggest)))
	r.Post("/analyze/summarize", wrap(withRequestMetrics("/analyze/summarize", h.Summarize)))
	r.Post("/analyze/ingest", wrap(withRequestMetrics("/analyze/ingest", h.Ingest)))

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	srvLogger.Info("server is listening", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		srvLogger.Error("server crashed", "error", err, "addr", listenAddr)
	}
}

// ShutdownParams bundles what graceful shutdown needs to wait on besides
// the HTTP server itself.
type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	CloseServices    context.CancelFunc
}

func ShutDownHandler(params ShutdownParams) {
	<-params.GracefulShutdown
	srvLogger.Info("server is shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			srvLogger.Error("could not shutdown gracefully", "error", err)
		}
		params.CloseServices()
		close(done)
	}()

	select {
	case <-done:
		srvLogger.Info("gracefully shut down")
	case <-ctx.Done():
		srvLogger.Info("force shut down")
		os.Exit(1)
	}
}
