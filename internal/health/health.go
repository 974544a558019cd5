// Package health serves the liveness and readiness probes of `dikte serve`.
//
//   - /healthz: liveness; 200 while the process can serve HTTP.
//   - /readyz: readiness; 200 once startup has finished and every
//     [Checker] passes, 503 otherwise.
//
// Bodies are JSON with a "status" of "ok" or "fail" and, for /readyz, a
// "checks" map from checker name to "ok" or "fail: <reason>".
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/dikte/internal/storage"
)

// checkTimeout bounds each readiness check.
const checkTimeout = 5 * time.Second

// ErrStarting is reported by the "startup" check until [Handler.MarkReady].
var ErrStarting = errors.New("still loading")

// Checker is a named readiness check. Check returns nil when healthy and
// must respect context cancellation.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// Storage returns a checker that pings b.
func Storage(kind string, b storage.Backend) Checker {
	return Checker{
		Name:  "storage:" + kind,
		Check: b.Ping,
	}
}

type result struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler serves the probes. The checker list is fixed at construction.
type Handler struct {
	checkers []Checker
	ready    atomic.Bool
}

// New returns a Handler that is not ready until [Handler.MarkReady] is
// called.
func New(checkers ...Checker) *Handler {
	h := &Handler{checkers: make([]Checker, 0, len(checkers)+1)}
	h.checkers = append(h.checkers, Checker{Name: "startup", Check: h.startup})
	h.checkers = append(h.checkers, checkers...)
	return h
}

// MarkReady records that startup (loading the engine state) has finished.
func (h *Handler) MarkReady() { h.ready.Store(true) }

func (h *Handler) startup(context.Context) error {
	if !h.ready.Load() {
		return ErrStarting
	}
	return nil
}

// Healthz always answers 200.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, result{Status: "ok"})
}

// Readyz runs every checker concurrently, each under [checkTimeout].
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	var (
		mu     sync.Mutex
		checks = make(map[string]string, len(h.checkers))
		failed bool
	)

	g, ctx := errgroup.WithContext(r.Context())
	for _, c := range h.checkers {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			err := c.Check(cctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				checks[c.Name] = "fail: " + err.Error()
				failed = true
			} else {
				checks[c.Name] = "ok"
			}
			// Failures are reported in the body; one failing probe must
			// not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	res := result{Status: "ok", Checks: checks}
	status := http.StatusOK
	if failed {
		res.Status = "fail"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, res)
}

// Register adds GET /healthz and GET /readyz to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
