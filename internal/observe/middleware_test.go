package observe

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func serveThrough(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, *tracetest.InMemoryExporter, metricdata.ResourceMetrics) {
	t.Helper()
	exp := installTracer(t)
	m, reader := newTestMetrics(t)

	rec := httptest.NewRecorder()
	Middleware(m)(h).ServeHTTP(rec, req)
	return rec, exp, collect(t, reader)
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/corrections/{wrong}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /v1/process", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return mux
}

func attrString(set attribute.Set, key string) string {
	v, ok := set.Value(attribute.Key(key))
	if !ok {
		return ""
	}
	return v.Emit()
}

func TestMiddleware_RouteLabels(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantRoute  string
		wantStatus int
	}{
		{"pattern with wildcard", http.MethodGet, "/v1/corrections/guzel", "GET /v1/corrections/{wrong}", http.StatusNoContent},
		{"server error", http.MethodPost, "/v1/process", "POST /v1/process", http.StatusInternalServerError},
		{"no match", http.MethodGet, "/nowhere", unmatchedRoute, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, exp, rm := serveThrough(t, newMux(), httptest.NewRequest(tc.method, tc.path, nil))

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}

			met := findMetric(rm, "dikte.http.request.duration")
			if met == nil {
				t.Fatal("metric dikte.http.request.duration not found")
			}
			hist, ok := met.Data.(metricdata.Histogram[float64])
			if !ok || len(hist.DataPoints) != 1 {
				t.Fatalf("want one histogram data point, got %#v", met.Data)
			}
			dp := hist.DataPoints[0]
			if got := attrString(dp.Attributes, "route"); got != tc.wantRoute {
				t.Errorf("route attribute = %q, want %q", got, tc.wantRoute)
			}
			if got := attrString(dp.Attributes, "method"); got != tc.method {
				t.Errorf("method attribute = %q, want %q", got, tc.method)
			}

			spans := exp.GetSpans()
			if len(spans) != 1 {
				t.Fatalf("got %d spans, want 1", len(spans))
			}
			if want := "HTTP " + tc.wantRoute; spans[0].Name != want {
				t.Errorf("span name = %q, want %q", spans[0].Name, want)
			}
			var statusAttr int64
			for _, a := range spans[0].Attributes {
				if a.Key == "http.response.status_code" {
					statusAttr = a.Value.AsInt64()
				}
			}
			if statusAttr != int64(tc.wantStatus) {
				t.Errorf("span status attribute = %d, want %d", statusAttr, tc.wantStatus)
			}
		})
	}
}

func TestMiddleware_CorrelationHeader(t *testing.T) {
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CorrelationID(r.Context())
	})

	rec, _, _ := serveThrough(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(seen) != 32 {
		t.Fatalf("handler saw correlation ID %q, want a 32-char trace ID", seen)
	}
	if got := rec.Header().Get("X-Correlation-ID"); got != seen {
		t.Errorf("X-Correlation-ID = %q, want %q", got, seen)
	}
}

func TestMiddleware_ContinuesIncomingTrace(t *testing.T) {
	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CorrelationID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	rec, _, _ := serveThrough(t, h, req)

	if seen != traceID {
		t.Errorf("correlation ID = %q, want %q", seen, traceID)
	}
	if got := rec.Header().Get("X-Correlation-ID"); got != traceID {
		t.Errorf("X-Correlation-ID = %q, want %q", got, traceID)
	}
}
