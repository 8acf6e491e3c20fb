package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	platformmetrics "finhabit/internal/platform/metrics"
	"finhabit/pkg/platform/middleware/request"
	"finhabit/pkg/requestcontext"
)

type echoModule struct {
	seenTime time.Time
	seenReq  string
}

func (m *echoModule) Register(r chi.Router) {
	r.Get("/api/echo", func(w http.ResponseWriter, r *http.Request) {
		m.seenTime = requestcontext.Now(r.Context())
		m.seenReq = requestcontext.RequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/api/panic", func(http.ResponseWriter, *http.Request) {
		panic("handler exploded")
	})
}

type RouterSuite struct {
	suite.Suite
	module *echoModule
	now    time.Time
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.module = &echoModule{}
	s.now = time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
}

func (s *RouterSuite) router(cfg RouterConfig) http.Handler {
	reg := prometheus.NewRegistry()
	cfg.HTTPMetrics = platformmetrics.NewWithRegisterer(reg)
	cfg.Gatherer = reg
	cfg.Clock = func() time.Time { return s.now }
	cfg.Modules = []RouteRegistrar{s.module}
	return NewRouter(cfg)
}

func (s *RouterSuite) serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *RouterSuite) TestModuleRoutesSeeRequestScope() {
	rec := s.serve(s.router(RouterConfig{}), "/api/echo")

	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal(s.now, s.module.seenTime)
	s.NotEmpty(s.module.seenReq)
	s.Equal(s.module.seenReq, rec.Header().Get(request.HeaderRequestID))
}

func (s *RouterSuite) TestAuthGuardsModulesButNotHealth() {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	h := s.router(RouterConfig{Auth: deny})

	s.Equal(http.StatusUnauthorized, s.serve(h, "/api/echo").Code)
	s.Equal(http.StatusOK, s.serve(h, "/health").Code)
	s.Equal(http.StatusOK, s.serve(h, "/metrics").Code)
}

func (s *RouterSuite) TestHealthReportsDegradedDependency() {
	h := s.router(RouterConfig{Health: map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}})

	rec := s.serve(h, "/health")

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	var body healthResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("degraded", body.Status)
	s.Equal(map[string]string{"postgres": "up", "redis": "down"}, body.Checks)
}

func (s *RouterSuite) TestPanicsBecomeInternalErrors() {
	rec := s.serve(s.router(RouterConfig{}), "/api/panic")

	s.Equal(http.StatusInternalServerError, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "internal_error")
}

func (s *RouterSuite) TestMetricsEndpointExposesHTTPMetrics() {
	h := s.router(RouterConfig{})
	s.serve(h, "/api/echo")

	rec := s.serve(h, "/metrics")

	s.Equal(http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "finhabit_http_requests_total")
}
