package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrWong99/dikte/internal/feedback"
	"github.com/MrWong99/dikte/internal/learning"
	"github.com/MrWong99/dikte/internal/locale"
	"github.com/MrWong99/dikte/internal/observe"
	"github.com/MrWong99/dikte/internal/prompt"
	"github.com/MrWong99/dikte/internal/storage"
	"github.com/MrWong99/dikte/internal/transcript"
)

// ProcessTranscript normalises raw with the active corrections, learns the
// word pairs the pipeline itself rewrote, updates the profile and history
// and persists the result. lang "" selects the engine default.
//
// A rejected transcript (hallucination) or an empty one leaves all state
// untouched. The only error is a done context.
func (e *Engine) ProcessTranscript(ctx context.Context, lang, raw string) (transcript.Result, error) {
	ctx, span := observe.StartSpan(ctx, "engine.ProcessTranscript")
	if err := ctx.Err(); err != nil {
		observe.EndSpan(span, err)
		return transcript.Result{}, fmt.Errorf("engine: process: %w", err)
	}
	defer observe.EndSpan(span, nil)

	if lang == "" {
		lang = e.language
	}
	start := time.Now()
	res := e.Pipeline().Process(ctx, lang, raw, e.store.ActiveMap())
	elapsed := time.Since(start).Seconds()

	switch {
	case res.Rejected:
		e.recordTranscript(ctx, lang, observe.StatusRejected, elapsed)
		return res, nil
	case res.Text == "":
		e.recordTranscript(ctx, lang, observe.StatusEmpty, elapsed)
		return res, nil
	}

	learned := 0
	for _, p := range res.Learned {
		if e.store.Add(p.Wrong, p.Right) {
			learned++
		}
	}

	total := e.profile.Observe(locale.For(lang), res.Text)
	e.history.Add(HistoryEntry{
		ID:        e.newID(),
		Text:      res.Text,
		Language:  lang,
		Timestamp: e.now().UnixMilli(),
	})
	e.profile.Classify(e.history.Texts())
	e.maintain(ctx, total)

	e.persist(ctx, storage.DocCorrections, storage.DocProfile, storage.DocHistory)

	e.recordTranscript(ctx, lang, observe.StatusOK, elapsed)
	if e.metrics != nil {
		e.metrics.RecordLearned(ctx, "pipeline", learned)
		for _, c := range res.Corrections {
			e.metrics.RecordApplied(ctx, c.Method)
		}
	}
	observe.LoggerFrom(ctx, e.log).DebugContext(ctx, "transcript processed",
		"language", lang,
		"corrections", len(res.Corrections),
		"learned", learned,
		"total_transcriptions", total,
	)
	return res, nil
}

func (e *Engine) recordTranscript(ctx context.Context, lang, status string, seconds float64) {
	if e.metrics != nil {
		e.metrics.RecordTranscript(ctx, lang, status, seconds)
	}
}

// LearnReport describes what [Engine.LearnFromEdit] recorded.
type LearnReport struct {
	Direct []learning.Pair `json:"direct"`
	Stem   []learning.Pair `json:"stem"`
}

// Empty reports whether nothing was learned.
func (r LearnReport) Empty() bool { return len(r.Direct) == 0 && len(r.Stem) == 0 }

// LearnFromEdit compares a transcript with the user's edited version and
// records the word-level corrections found. Every direct pair counts as one
// user correction in the profile; the edited text also feeds n-gram and
// frequent-word statistics. The edit is appended to the journal.
//
// Identical or empty inputs are a no-op.
func (e *Engine) LearnFromEdit(ctx context.Context, original, edited string) LearnReport {
	ctx, span := observe.StartSpan(ctx, "engine.LearnFromEdit")
	defer observe.EndSpan(span, nil)

	if strings.TrimSpace(original) == "" || strings.TrimSpace(edited) == "" || original == edited {
		return LearnReport{}
	}

	loc := locale.For(e.language)
	res := learning.FromDiff(loc, original, edited)
	report := LearnReport{Direct: res.Direct, Stem: res.Stem}

	for _, p := range res.Direct {
		if e.store.Add(p.Wrong, p.Right) {
			e.profile.CountCorrection()
		}
	}
	for _, p := range res.Stem {
		e.store.AddStem(p.Wrong, p.Right)
	}
	total := e.profile.Observe(loc, edited)
	e.maintain(ctx, total)

	if err := e.journal.Append(ctx, feedback.Record{
		Timestamp: e.now().UTC(),
		Original:  original,
		Edited:    edited,
		Direct:    res.Direct,
		Stem:      res.Stem,
	}); err != nil {
		observe.LoggerFrom(ctx, e.log).Warn("edit journal append failed", "err", err)
	}

	e.persist(ctx, storage.DocCorrections, storage.DocProfile)

	if e.metrics != nil {
		e.metrics.RecordLearned(ctx, "edit", len(res.Direct))
		e.metrics.RecordLearned(ctx, "stem", len(res.Stem))
	}
	observe.LoggerFrom(ctx, e.log).InfoContext(ctx, "learned from edit",
		"direct", len(res.Direct),
		"stem", len(res.Stem),
	)
	return report
}

// maintain runs a maintenance pass whenever total is a positive multiple of
// the configured interval.
func (e *Engine) maintain(ctx context.Context, total uint32) {
	if e.maintenanceEvery == 0 || total == 0 || total%e.maintenanceEvery != 0 {
		return
	}
	changed := e.store.RecalculateAll()
	purged := e.store.CleanupDeprecated()
	observe.LoggerFrom(ctx, e.log).InfoContext(ctx, "correction maintenance",
		"total_transcriptions", total,
		"status_changes", changed,
		"purged", purged,
	)
	if e.metrics != nil {
		byStatus := make(map[string]int)
		for _, r := range e.store.All() {
			byStatus[r.Status.String()]++
		}
		e.metrics.RecordCorrections(ctx, byStatus)
	}
}

// Prompt returns the recogniser prompt for lang, built from the profile.
func (e *Engine) Prompt(lang string) string {
	if lang == "" {
		lang = e.language
	}
	return prompt.Build(lang, e.profile.Snapshot())
}

// PromptPreview returns the layers [Engine.Prompt] would combine.
func (e *Engine) PromptPreview(lang string) prompt.Preview {
	if lang == "" {
		lang = e.language
	}
	return prompt.Layers(lang, e.profile.Snapshot())
}
