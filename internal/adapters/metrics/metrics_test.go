package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/static/*", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/static/*", "418"))

	for _, path := range []string{"/static/a.css", "/static/b.css"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	after := testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/static/*", "418"))
	if after-before != 2 {
		t.Fatalf("counter delta = %v; want 2", after-before)
	}
}

func TestMiddleware_DefaultStatusAndUnmatched(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))

	before := testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "200"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plain", nil))
	after := testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "200"))

	if after-before != 1 {
		t.Fatalf("counter delta = %v; want 1", after-before)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{"taskboard_http_requests_total", "taskboard_http_request_duration_seconds", "taskboard_http_in_flight_requests"} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
