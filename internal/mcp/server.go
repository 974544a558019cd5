// Package mcp serves the engine as a Model Context Protocol server so that
// editors and assistants can normalise transcripts, teach corrections and
// fetch the recogniser prompt over stdio.
//
// Tools:
//
//   - process_transcript: normalise a raw transcript
//   - learn_from_edit: learn corrections from a user edit
//   - list_corrections: list learned corrections, optionally by status
//   - add_correction: add a manual correction
//   - dynamic_prompt: the recogniser prompt, optionally split into layers
//   - domain_info: the detected domain with per-domain scores
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/dikte/internal/engine"
	"github.com/MrWong99/dikte/internal/learning"
	"github.com/MrWong99/dikte/internal/observe"
	"github.com/MrWong99/dikte/internal/transcript"
)

// Tool names.
const (
	ToolProcessTranscript = "process_transcript"
	ToolLearnFromEdit     = "learn_from_edit"
	ToolListCorrections   = "list_corrections"
	ToolAddCorrection     = "add_correction"
	ToolDynamicPrompt     = "dynamic_prompt"
	ToolDomainInfo        = "domain_info"
)

// Server exposes one engine over MCP.
type Server struct {
	eng     *engine.Engine
	metrics *observe.Metrics
	log     *slog.Logger
	name    string
	version string

	server *mcpsdk.Server
}

// Option configures a [Server].
type Option func(*Server)

// WithMetrics records one tool-call counter per invocation.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithVersion sets the implementation version reported to clients.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// NewServer creates a Server with all tools registered.
func NewServer(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		eng:     eng,
		log:     slog.Default(),
		name:    "dikte",
		version: "dev",
	}
	for _, o := range opts {
		o(s)
	}
	s.server = mcpsdk.NewServer(&mcpsdk.Implementation{Name: s.name, Version: s.version}, nil)
	s.registerTools()
	return s
}

// Run serves over stdin/stdout until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.log.InfoContext(ctx, "mcp server listening on stdio", "version", s.version)
	if err := s.server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp: run: %w", err)
	}
	return nil
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        ToolProcessTranscript,
		Description: "Normalise a raw speech-recognition transcript: filter hallucinations, repair characters, apply learned corrections, punctuate and capitalise.",
	}, instrument(s, ToolProcessTranscript, s.processTranscript))

	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        ToolLearnFromEdit,
		Description: "Compare a transcript with the user's edited version and learn the word corrections it contains.",
	}, instrument(s, ToolLearnFromEdit, s.learnFromEdit))

	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        ToolListCorrections,
		Description: "List learned corrections with their status and confidence. Filter by status: Pending, Confirmed, Active or Deprecated.",
	}, instrument(s, ToolListCorrections, s.listCorrections))

	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        ToolAddCorrection,
		Description: "Add a correction from a misrecognised word to its intended spelling.",
	}, instrument(s, ToolAddCorrection, s.addCorrection))

	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        ToolDynamicPrompt,
		Description: "Build the recogniser initial prompt from the base text, the detected domain and the user's vocabulary.",
	}, instrument(s, ToolDynamicPrompt, s.dynamicPrompt))

	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        ToolDomainInfo,
		Description: "Report the domain detected from recent transcripts with per-domain keyword scores.",
	}, instrument(s, ToolDomainInfo, s.domainInfo))
}

type toolFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

// instrument adapts fn to the SDK handler signature, counting calls and
// logging failures.
func instrument[In, Out any](s *Server, tool string, fn toolFunc[In, Out]) mcpsdk.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, Out, error) {
		ctx, span := observe.StartSpan(ctx, "mcp."+tool)
		out, err := fn(ctx, in)
		observe.EndSpan(span, err)

		status := observe.StatusOK
		if err != nil {
			status = observe.StatusError
			observe.LoggerFrom(ctx, s.log).WarnContext(ctx, "mcp tool failed", "tool", tool, "err", err)
		}
		if s.metrics != nil {
			s.metrics.RecordToolCall(ctx, tool, status)
		}
		return nil, out, err
	}
}

// ── process_transcript ───────────────────────────────────────────────────────

type ProcessInput struct {
	Text     string `json:"text" jsonschema:"raw transcript from the speech recogniser"`
	Language string `json:"language,omitempty" jsonschema:"language code such as tr or en; defaults to the configured language"`
}

type ProcessOutput struct {
	Text        string                  `json:"text"`
	Rejected    bool                    `json:"rejected"`
	Reason      string                  `json:"reason,omitempty"`
	Corrections []transcript.Correction `json:"corrections"`
}

func (s *Server) processTranscript(ctx context.Context, in ProcessInput) (ProcessOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return ProcessOutput{}, errors.New("text is required")
	}
	res, err := s.eng.ProcessTranscript(ctx, in.Language, in.Text)
	if err != nil {
		return ProcessOutput{}, err
	}
	out := ProcessOutput{
		Text:        res.Text,
		Rejected:    res.Rejected,
		Reason:      res.Reason,
		Corrections: res.Corrections,
	}
	if out.Corrections == nil {
		out.Corrections = []transcript.Correction{}
	}
	return out, nil
}

// ── learn_from_edit ──────────────────────────────────────────────────────────

type LearnInput struct {
	Original string `json:"original" jsonschema:"the transcript as produced"`
	Edited   string `json:"edited" jsonschema:"the transcript after the user's edits"`
}

type LearnOutput struct {
	Direct []learning.Pair `json:"direct"`
	Stem   []learning.Pair `json:"stem"`
}

func (s *Server) learnFromEdit(ctx context.Context, in LearnInput) (LearnOutput, error) {
	report := s.eng.LearnFromEdit(ctx, in.Original, in.Edited)
	out := LearnOutput{Direct: report.Direct, Stem: report.Stem}
	if out.Direct == nil {
		out.Direct = []learning.Pair{}
	}
	if out.Stem == nil {
		out.Stem = []learning.Pair{}
	}
	return out, nil
}

// ── list_corrections ─────────────────────────────────────────────────────────

type ListInput struct {
	Status string `json:"status,omitempty" jsonschema:"only list corrections with this status"`
}

// CorrectionItem is the flat form of a correction shown to clients.
type CorrectionItem struct {
	Wrong       string  `json:"wrong"`
	Right       string  `json:"right"`
	Count       uint32  `json:"count"`
	RevertCount uint32  `json:"revert_count"`
	Status      string  `json:"status"`
	Source      string  `json:"source"`
	Confidence  float64 `json:"confidence"`
}

type ListOutput struct {
	Corrections []CorrectionItem `json:"corrections"`
}

func (s *Server) listCorrections(_ context.Context, in ListInput) (ListOutput, error) {
	out := ListOutput{Corrections: []CorrectionItem{}}
	for _, v := range s.eng.Corrections() {
		status := v.Status.String()
		if in.Status != "" && !strings.EqualFold(in.Status, status) {
			continue
		}
		out.Corrections = append(out.Corrections, CorrectionItem{
			Wrong:       v.Wrong,
			Right:       v.Right,
			Count:       v.Count,
			RevertCount: v.RevertCount,
			Status:      status,
			Source:      v.Source.String(),
			Confidence:  v.Confidence,
		})
	}
	return out, nil
}

// ── add_correction ───────────────────────────────────────────────────────────

type AddInput struct {
	Wrong string `json:"wrong" jsonschema:"the misrecognised word"`
	Right string `json:"right" jsonschema:"the intended spelling"`
}

type AddOutput struct {
	Wrong  string `json:"wrong"`
	Right  string `json:"right"`
	Status string `json:"status"`
}

func (s *Server) addCorrection(ctx context.Context, in AddInput) (AddOutput, error) {
	if err := s.eng.AddCorrection(ctx, in.Wrong, in.Right); err != nil {
		return AddOutput{}, err
	}
	wrong := strings.ToLower(strings.TrimSpace(in.Wrong))
	for _, v := range s.eng.Corrections() {
		if v.Wrong == wrong {
			return AddOutput{Wrong: v.Wrong, Right: v.Right, Status: v.Status.String()}, nil
		}
	}
	return AddOutput{}, fmt.Errorf("correction %q not found after adding", wrong)
}

// ── dynamic_prompt ───────────────────────────────────────────────────────────

type PromptInput struct {
	Language string `json:"language,omitempty" jsonschema:"language code; defaults to the configured language"`
	Preview  bool   `json:"preview,omitempty" jsonschema:"also return the individual prompt layers"`
}

type PromptOutput struct {
	Prompt         string `json:"prompt"`
	Length         int    `json:"length"`
	MaxLength      int    `json:"max_length"`
	BasePrompt     string `json:"base_prompt,omitempty"`
	DomainAddition string `json:"domain_addition,omitempty"`
	UserTerms      string `json:"user_terms,omitempty"`
}

func (s *Server) dynamicPrompt(_ context.Context, in PromptInput) (PromptOutput, error) {
	pv := s.eng.PromptPreview(in.Language)
	out := PromptOutput{MaxLength: pv.MaxLength}
	out.Prompt = s.eng.Prompt(in.Language)
	out.Length = len(out.Prompt)
	if in.Preview {
		out.BasePrompt = pv.BasePrompt
		out.DomainAddition = pv.DomainAddition
		out.UserTerms = pv.UserTerms
	}
	return out, nil
}

// ── domain_info ──────────────────────────────────────────────────────────────

type DomainInput struct{}

type DomainOutput struct {
	Domain      string         `json:"domain"`
	Label       string         `json:"label"`
	Scores      map[string]int `json:"scores"`
	Explanation string         `json:"explanation"`
}

func (s *Server) domainInfo(context.Context, DomainInput) (DomainOutput, error) {
	info := s.eng.DomainInfo()
	scores := info.Scores
	if scores == nil {
		scores = map[string]int{}
	}
	return DomainOutput{
		Domain:      info.Detected.String(),
		Label:       info.Label,
		Scores:      scores,
		Explanation: info.Explanation,
	}, nil
}
