package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/gokatarajesh/kickoff-quiz/internal/config"
)

type stubRoutes struct{}

func (stubRoutes) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/matches", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func newTestServer(routes RouteRegistrar) (*http.Server, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	srv := NewHTTPServer(&config.App{HTTPAddr: ":0"}, zerolog.Nop(), nil, nil, reg, routes, nil)
	return srv, reg
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPingWithoutDependencies(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPingReportsUnreachableRedis(t *testing.T) {
	var buf bytes.Buffer
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	srv := NewHTTPServer(&config.App{HTTPAddr: ":0"}, zerolog.New(&buf), nil, client, prometheus.NewRegistry(), nil, nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, buf.String(), "dependency ping failed")
}

func TestMetricsUsesGivenRegistry(t *testing.T) {
	srv, reg := newTestServer(nil)
	promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "kickoff_test_total", Help: "test"}).Inc()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kickoff_test_total 1")
}

func TestMatchRoutesAndWebSocketFallback(t *testing.T) {
	srv, _ := newTestServer(stubRoutes{})

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/matches", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestCheckOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://quiz.local/ws/matches", nil)
	assert.True(t, checkOrigin(req))

	req.Header.Set("Origin", "http://quiz.local")
	assert.True(t, checkOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, checkOrigin(req))

	AllowedOrigins = []string{"http://evil.example"}
	defer func() { AllowedOrigins = nil }()
	assert.True(t, checkOrigin(req))
}
