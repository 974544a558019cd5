// Package transcript turns raw speech-recognition output into finished text.
//
// A [Pipeline] runs a fixed sequence of stages over one transcript:
//
//  1. Hallucination filter: rejects recogniser artefacts such as subtitle
//     credits, looping words and character noise.
//  2. Number normalisation: spells out small or suffixed numerals.
//  3. Character repair and dictionary: whole-word tables that restore
//     missing diacritics and fix common misspellings.
//  4. User corrections: the learned vocabulary from the correction store.
//  5. Punctuation: terminal marks, connective commas and run-on splitting.
//  6. Capitalisation: sentence starts, using the locale's case mapping.
//  7. Spacing: collapses runs and fixes space around punctuation.
//
// Every stage can be switched off through [Options] except number
// normalisation and character repair, which are locale rules and no-ops for
// locales without tables. Whole-word substitutions made in stages 3 and 4
// are itemised as [Correction] values, and the word-level differences the
// pipeline introduced are returned as learning pairs so that the caller can
// feed them back into the correction store.
//
// A Pipeline is immutable and safe for concurrent use.
package transcript

import (
	"context"
	"log/slog"
	"strings"

	"github.com/MrWong99/dikte/internal/learning"
	"github.com/MrWong99/dikte/internal/locale"
)

// Options selects the optional pipeline stages.
type Options struct {
	// TurkishCorrections enables the locale dictionary stage.
	TurkishCorrections bool `yaml:"turkish_corrections" json:"turkish_corrections"`

	// HallucinationFilter rejects recogniser artefacts.
	HallucinationFilter bool `yaml:"hallucination_filter" json:"hallucination_filter"`

	// AutoPunctuation terminates sentences and splits run-ons.
	AutoPunctuation bool `yaml:"auto_punctuation" json:"auto_punctuation"`

	// AutoCapitalization upper-cases sentence starts.
	AutoCapitalization bool `yaml:"auto_capitalization" json:"auto_capitalization"`

	// PreserveEnglishWords keeps loanwords out of the dictionary stage.
	PreserveEnglishWords bool `yaml:"preserve_english_words" json:"preserve_english_words"`

	// AutoComma inserts commas before connectives. Needs AutoPunctuation.
	AutoComma bool `yaml:"auto_comma" json:"auto_comma"`

	// ParagraphBreak joins sentences with newlines instead of spaces.
	ParagraphBreak bool `yaml:"paragraph_break" json:"paragraph_break"`
}

// DefaultOptions enables every stage except paragraph breaks.
func DefaultOptions() Options {
	return Options{
		TurkishCorrections:   true,
		HallucinationFilter:  true,
		AutoPunctuation:      true,
		AutoCapitalization:   true,
		PreserveEnglishWords: true,
		AutoComma:            true,
	}
}

// Well-known [Correction.Method] values.
const (
	MethodLocale     = "locale"
	MethodDictionary = "dictionary"
	MethodUser       = "user"
)

// Correction is a single whole-word substitution made by the pipeline.
type Correction struct {
	// Original is the word as it appeared in the text, with its casing.
	Original string `json:"original"`

	// Corrected is the text that replaced it.
	Corrected string `json:"corrected"`

	// Method names the stage: "locale", "dictionary" or "user".
	Method string `json:"method"`
}

// Result is the output of [Pipeline.Process].
type Result struct {
	// Text is the finished transcript. Empty when Rejected.
	Text string `json:"text"`

	// Rejected is true when the hallucination filter discarded the input.
	Rejected bool `json:"rejected"`

	// Reason explains a rejection.
	Reason string `json:"reason,omitempty"`

	// Learned holds the word pairs rewritten by the number, character,
	// dictionary and user-correction stages that qualify as corrections.
	Learned []learning.Pair `json:"learned"`

	// Corrections itemises every whole-word substitution in stage order.
	Corrections []Correction `json:"corrections"`
}

// PipelineOption is a functional option for [NewPipeline].
type PipelineOption func(*Pipeline)

// WithOptions sets the stage switches. Default: [DefaultOptions].
func WithOptions(o Options) PipelineOption {
	return func(p *Pipeline) {
		p.opts = o
	}
}

// WithLogger sets the logger used to report rejections. Default:
// slog.Default().
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// Pipeline is the transcript normaliser.
type Pipeline struct {
	opts Options
	log  *slog.Logger
}

// NewPipeline constructs a [Pipeline].
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		opts: DefaultOptions(),
		log:  slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Options returns the stage switches the pipeline was built with.
func (p *Pipeline) Options() Options { return p.opts }

// Process normalises raw for language. corrections maps lowercase mistaken
// words to their replacements and is applied in stage 4; nil skips it.
func (p *Pipeline) Process(ctx context.Context, language, raw string, corrections map[string]string) Result {
	loc := locale.For(language)

	text := strings.TrimSpace(raw)
	if text == "" {
		return Result{}
	}

	if p.opts.HallucinationFilter {
		if reason, bad := IsHallucination(text); bad {
			p.log.InfoContext(ctx, "transcript rejected", "reason", reason, "text", text, "language", loc.Code())
			return Result{Rejected: true, Reason: reason}
		}
	}
	before := text

	var res Result
	r := newReplacer(loc)

	text = loc.NormalizeNumbers(text)

	for _, fix := range loc.CharFixes() {
		if loc.IsLoanword(fix.Wrong) {
			continue
		}
		text = r.replace(text, fix.Wrong, fix.Right, MethodLocale, &res.Corrections)
	}

	if p.opts.TurkishCorrections {
		for _, fix := range loc.Dictionary() {
			if p.opts.PreserveEnglishWords && loc.IsLoanword(fix.Wrong) {
				continue
			}
			text = r.replace(text, fix.Wrong, fix.Right, MethodDictionary, &res.Corrections)
		}
	}

	for _, wrong := range sortedKeys(corrections) {
		text = r.replace(text, wrong, corrections[wrong], MethodUser, &res.Corrections)
	}

	res.Learned = learning.FromPipeline(loc, before, text)

	if p.opts.AutoPunctuation {
		text = Punctuate(loc, text, p.opts.AutoComma, p.opts.ParagraphBreak)
	}
	if p.opts.AutoCapitalization {
		text = Capitalize(loc.Tag(), text)
	}
	res.Text = NormalizeSpacing(text)
	return res
}
