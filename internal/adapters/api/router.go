package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/metrics"
	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
)

// RouterOptions configures the HTTP display API
type RouterOptions struct {
	// Origins allowed to call the API from a browser; empty allows any
	CORSOrigins []string

	// MetricsPath mounts MetricsHandler when both are set
	MetricsPath    string
	MetricsHandler http.Handler

	// HTTPMetrics records request counts and durations when set
	HTTPMetrics *metrics.HTTPMetricsCollector
}

// NewRouter builds the display and selection API
func NewRouter(m mediator.Mediator, logger common.Logger, opts RouterOptions) http.Handler {
	h := &handlers{mediator: m}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if opts.HTTPMetrics != nil {
		r.Use(requestMetrics(opts.HTTPMetrics))
	}
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		// Active goal's deficit
		r.Get("/deficit", h.getDeficit)

		// Presets
		r.Get("/presets", h.listPresets)

		// Select the active goal
		r.Post("/goal", h.switchGoal)

		// Material tree of the active goal or ?preset=
		r.Get("/breakdown", h.getBreakdown)
	})

	if opts.MetricsPath != "" && opts.MetricsHandler != nil {
		r.Method(http.MethodGet, opts.MetricsPath, opts.MetricsHandler)
	}

	return r
}

// requestLogger puts the logger into the request context and logs each request
func requestLogger(logger common.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(common.WithLogger(r.Context(), logger)))

			logger.Log(common.LevelDebug, "HTTP request", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			})
		})
	}
}

// requestMetrics labels requests by route pattern so path parameters do not explode cardinality
func requestMetrics(collector *metrics.HTTPMetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			collector.RecordRequest(r.Method, route, status, time.Since(start).Seconds())
		})
	}
}
