package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrWong99/dikte/internal/storage"
)

func readyz(t *testing.T, h *Handler) (int, result) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest("GET", "/readyz", nil))

	var body result
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return rec.Code, body
}

func TestHealthz_AlwaysReturns200(t *testing.T) {
	t.Parallel()
	h := New()

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body result
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestReadyz_NotReadyUntilMarked(t *testing.T) {
	t.Parallel()
	h := New()

	code, body := readyz(t, h)
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", code, http.StatusServiceUnavailable)
	}
	if body.Checks["startup"] != "fail: still loading" {
		t.Errorf("startup check = %q", body.Checks["startup"])
	}

	h.MarkReady()
	code, body = readyz(t, h)
	if code != http.StatusOK || body.Status != "ok" {
		t.Errorf("after MarkReady: status %d %q, want 200 ok", code, body.Status)
	}
}

func TestReadyz_Checkers(t *testing.T) {
	t.Parallel()
	pass := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checkers   []Checker
		wantCode   int
		wantChecks map[string]string
	}{
		{
			name:       "all pass",
			checkers:   []Checker{{Name: "a", Check: pass}, {Name: "b", Check: pass}},
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"a": "ok", "b": "ok", "startup": "ok"},
		},
		{
			name:       "one fails",
			checkers:   []Checker{{Name: "a", Check: fail}, {Name: "b", Check: pass}},
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"a": "fail: connection refused", "b": "ok", "startup": "ok"},
		},
		{
			name:       "storage ping",
			checkers:   []Checker{Storage("memory", storage.NewMemory())},
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"storage:memory": "ok", "startup": "ok"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := New(tt.checkers...)
			h.MarkReady()

			code, body := readyz(t, h)
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d", code, tt.wantCode)
			}
			for name, want := range tt.wantChecks {
				if got := body.Checks[name]; got != want {
					t.Errorf("check %q = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestReadyz_RespectsTimeoutContext(t *testing.T) {
	t.Parallel()
	h := New(Checker{Name: "slow", Check: func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	}})
	h.MarkReady()

	if code, body := readyz(t, h); code != http.StatusOK {
		t.Errorf("status = %d, checks %v", code, body.Checks)
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	h := New()
	h.MarkReady()
	mux := http.NewServeMux()
	h.Register(mux)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}
