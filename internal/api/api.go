// Package api exposes the engine as a JSON HTTP API.
//
// Routes (all under /v1):
//
//	POST   /process                     normalise a raw transcript
//	POST   /learn                       learn from a user edit
//	GET    /corrections[?status=]       list corrections with confidence
//	POST   /corrections                 add a manual correction
//	DELETE /corrections/{wrong}         remove a correction
//	POST   /corrections/{wrong}/promote Pending or Confirmed to Active
//	POST   /corrections/{wrong}/demote  force Deprecated
//	POST   /corrections/{wrong}/revert  report that the user undid it
//	GET    /corrections/export          download the store document
//	POST   /corrections/import          replace the store from a document
//	POST   /reset                       clear corrections and profile
//	GET    /profile                     user profile
//	GET    /prompt[?lang=]              recogniser prompt
//	GET    /prompt/preview[?lang=]      prompt layers
//	GET    /ngrams[?limit=]             stored n-grams
//	GET    /domain                      detected domain with scores
//	GET    /suggest?word=[&limit=]      similar known terms
//	GET    /history                     processed transcripts, newest first
//	DELETE /history                     clear history
//
// Errors are JSON objects of the form {"error": "..."}.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrWong99/dikte/internal/correction"
	"github.com/MrWong99/dikte/internal/engine"
	"github.com/MrWong99/dikte/internal/observe"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 4 << 20

// Server serves the API for one engine.
type Server struct {
	eng     *engine.Engine
	log     *slog.Logger
	maxBody int64
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxBodyBytes caps request bodies. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New creates a Server for eng.
func New(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{eng: eng, log: slog.Default(), maxBody: DefaultMaxBodyBytes}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register adds the API routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/process", s.handleProcess)
	mux.HandleFunc("POST /v1/learn", s.handleLearn)

	mux.HandleFunc("GET /v1/corrections", s.handleListCorrections)
	mux.HandleFunc("POST /v1/corrections", s.handleAddCorrection)
	mux.HandleFunc("GET /v1/corrections/export", s.handleExport)
	mux.HandleFunc("POST /v1/corrections/import", s.handleImport)
	mux.HandleFunc("DELETE /v1/corrections/{wrong}", s.handleRemove)
	mux.HandleFunc("POST /v1/corrections/{wrong}/promote", s.handlePromote)
	mux.HandleFunc("POST /v1/corrections/{wrong}/demote", s.handleDemote)
	mux.HandleFunc("POST /v1/corrections/{wrong}/revert", s.handleRevert)
	mux.HandleFunc("POST /v1/reset", s.handleReset)

	mux.HandleFunc("GET /v1/profile", s.handleProfile)
	mux.HandleFunc("GET /v1/prompt", s.handlePrompt)
	mux.HandleFunc("GET /v1/prompt/preview", s.handlePromptPreview)
	mux.HandleFunc("GET /v1/ngrams", s.handleNgrams)
	mux.HandleFunc("GET /v1/domain", s.handleDomain)
	mux.HandleFunc("GET /v1/suggest", s.handleSuggest)

	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("DELETE /v1/history", s.handleClearHistory)
}

// Handler returns a mux serving only the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

// ── Transcripts ──────────────────────────────────────────────────────────────

type processRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	res, err := s.eng.ProcessTranscript(r.Context(), req.Language, req.Text)
	if err != nil {
		s.internalError(w, r, "process transcript", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type learnRequest struct {
	Original string `json:"original"`
	Edited   string `json:"edited"`
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Original == "" || req.Edited == "" {
		writeError(w, http.StatusBadRequest, "original and edited are required")
		return
	}
	writeJSON(w, http.StatusOK, s.eng.LearnFromEdit(r.Context(), req.Original, req.Edited))
}

// ── Corrections ──────────────────────────────────────────────────────────────

func (s *Server) handleListCorrections(w http.ResponseWriter, r *http.Request) {
	views := s.eng.Corrections()
	if q := r.URL.Query().Get("status"); q != "" {
		status, ok := parseStatus(q)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", q))
			return
		}
		filtered := views[:0]
		for _, v := range views {
			if v.Status == status {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}
	if views == nil {
		views = []correction.View{}
	}
	writeJSON(w, http.StatusOK, views)
}

type addRequest struct {
	Wrong string `json:"wrong"`
	Right string `json:"right"`
}

func (s *Server) handleAddCorrection(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.eng.AddCorrection(r.Context(), req.Wrong, req.Right)
	switch {
	case errors.Is(err, engine.ErrEmptyWord), errors.Is(err, engine.ErrSelfCorrection):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.internalError(w, r, "add correction", err)
	default:
		w.WriteHeader(http.StatusCreated)
	}
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	s.changed(w, s.eng.RemoveCorrection(r.Context(), r.PathValue("wrong")))
}

// handlePromote answers 409 for records that exist but are already Active
// or Deprecated.
func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	wrong := r.PathValue("wrong")
	if s.eng.PromoteCorrection(r.Context(), wrong) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.eng.PromoteError(wrong); errors.Is(err, engine.ErrNotPromotable) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.changed(w, false)
}

func (s *Server) handleDemote(w http.ResponseWriter, r *http.Request) {
	s.changed(w, s.eng.DemoteCorrection(r.Context(), r.PathValue("wrong")))
}

type revertRequest struct {
	Right string `json:"right"`
}

func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	var req revertRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Right == "" {
		writeError(w, http.StatusBadRequest, "right is required")
		return
	}
	s.changed(w, s.eng.ReportRevert(r.Context(), r.PathValue("wrong"), req.Right))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.eng.Export()
	if err != nil {
		s.internalError(w, r, "export corrections", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="corrections.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type importResponse struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	n, err := s.eng.Import(r.Context(), data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: n, Total: len(s.eng.Corrections())})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.eng.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ── Profile ──────────────────────────────────────────────────────────────────

func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Profile())
}

type promptResponse struct {
	Prompt string `json:"prompt"`
	Length int    `json:"length"`
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	p := s.eng.Prompt(r.URL.Query().Get("lang"))
	writeJSON(w, http.StatusOK, promptResponse{Prompt: p, Length: len(p)})
}

func (s *Server) handlePromptPreview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.PromptPreview(r.URL.Query().Get("lang")))
}

func (s *Server) handleNgrams(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	ngrams := s.eng.Ngrams()
	if limit > 0 && len(ngrams) > limit {
		ngrams = ngrams[:limit]
	}
	writeJSON(w, http.StatusOK, ngrams)
}

func (s *Server) handleDomain(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.DomainInfo())
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	word := strings.TrimSpace(r.URL.Query().Get("word"))
	if word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Suggest(word, limit))
}

// ── History ──────────────────────────────────────────────────────────────────

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	entries := s.eng.History()
	if entries == nil {
		entries = []engine.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.eng.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type errorResponse struct {
	Error string `json:"error"`
}

// decode reads a JSON body into v and answers 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// changed answers 204 when a correction was modified and 404 otherwise.
func (s *Server) changed(w http.ResponseWriter, ok bool) {
	if !ok {
		writeError(w, http.StatusNotFound, "correction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, action string, err error) {
	observe.LoggerFrom(r.Context(), s.log).ErrorContext(r.Context(), "api: "+action, "err", err)
	writeError(w, http.StatusInternalServerError, action+" failed")
}

func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	q := r.URL.Query().Get("limit")
	if q == "" {
		return 0, true
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", q))
		return 0, false
	}
	return n, true
}

// parseStatus accepts status names in any case.
func parseStatus(name string) (correction.Status, bool) {
	for _, st := range []correction.Status{
		correction.StatusPending,
		correction.StatusConfirmed,
		correction.StatusActive,
		correction.StatusDeprecated,
	} {
		if strings.EqualFold(st.String(), name) {
			return st, true
		}
	}
	return correction.StatusPending, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
