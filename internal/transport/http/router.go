package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	platformmetrics "finhabit/internal/platform/metrics"
	"finhabit/pkg/platform/httputil"
	"finhabit/pkg/platform/middleware/metadata"
	"finhabit/pkg/platform/middleware/request"
	"finhabit/pkg/platform/middleware/requesttime"
)

// RouteRegistrar mounts a module's endpoints on a router.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// RouterConfig collects everything the router wires together.
type RouterConfig struct {
	Logger      *slog.Logger
	HTTPMetrics *platformmetrics.Metrics
	Gatherer    prometheus.Gatherer
	// Auth guards every module route; nil leaves them open, which only tests do.
	Auth   func(http.Handler) http.Handler
	Clock  func() time.Time
	Health map[string]HealthCheck
	// HealthTimeout bounds each probe; zero means two seconds.
	HealthTimeout time.Duration
	Modules       []RouteRegistrar
}

// NewRouter builds the chi router: shared middleware, the unauthenticated
// health and metrics endpoints, and the authenticated module routes.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Use(cfg.HTTPMetrics.Middleware)
	r.Use(requesttime.MiddlewareWithClock(clock))

	r.Get("/health", healthHandler(cfg.Health, cfg.HealthTimeout))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}
		for _, m := range cfg.Modules {
			m.Register(r)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, timeout time.Duration) http.HandlerFunc {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			err := checks[name](ctx)
			cancel()
			if err != nil {
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
