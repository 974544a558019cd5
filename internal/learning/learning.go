// Package learning derives correction candidates from pairs of texts.
//
// [FromDiff] compares a transcript with the user's edited version of it and
// proposes two kinds of corrections: direct word-for-word fixes, and
// stem-level fixes generalised from inflected forms that share a suffix
// ("biçimleri" → "bitimleri" teaches "biçim" → "bitim"). [FromPipeline]
// applies the same filters to the rewrites made by the normalisation
// pipeline itself, so the engine can learn from its own rule-based repairs.
//
// Both functions are pure.
package learning

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/MrWong99/dikte/internal/locale"
	"github.com/MrWong99/dikte/pkg/textdist"
)

const (
	// MinWordRunes is the shortest original token considered for learning.
	MinWordRunes = 3

	// MaxDistance is the largest edit distance still treated as a
	// misrecognition rather than a rewording.
	MaxDistance = 2
)

// Pair is a candidate correction. Wrong is lowercase.
type Pair struct {
	Wrong string `json:"wrong"`
	Right string `json:"right"`
}

// Result holds the candidates found by [FromDiff].
type Result struct {
	// Direct corrections are persisted with the correction store's Add.
	Direct []Pair
	// Stem corrections are persisted with AddStem and need more confirmations.
	Stem []Pair
}

// Empty reports whether no candidate was found.
func (r Result) Empty() bool { return len(r.Direct) == 0 && len(r.Stem) == 0 }

// FromDiff aligns original and edited word by word and returns the
// correction candidates. Token lists of equal length are paired
// positionally; otherwise they are aligned with [textdist.Align] and only
// substitution steps are considered.
func FromDiff(loc locale.Locale, original, edited string) Result {
	var res Result
	pairWords(original, edited, func(o, e string) {
		ol, el := strings.ToLower(o), strings.ToLower(e)
		if ol == el || utf8.RuneCountInString(ol) < MinWordRunes || loc.IsStopword(ol) || loc.IsStopword(el) {
			return
		}
		if d := textdist.Distance(ol, el); d > 0 && d <= MaxDistance {
			res.Direct = append(res.Direct, Pair{Wrong: ol, Right: el})
		}

		oStem, oSuf := loc.StripSuffix(ol)
		eStem, eSuf := loc.StripSuffix(el)
		if oSuf == "" || oSuf != eSuf || oStem == eStem {
			return
		}
		d := textdist.Distance(oStem, eStem)
		if d == 0 || d > MaxDistance || utf8.RuneCountInString(oStem) < MinWordRunes {
			return
		}
		if containsWrong(res.Direct, oStem) || containsWrong(res.Stem, oStem) {
			return
		}
		res.Stem = append(res.Stem, Pair{Wrong: oStem, Right: eStem})
	})
	return res
}

// FromPipeline returns the word-level changes between the text before and
// after normalisation that look like misrecognition repairs. Quotes and
// sentence punctuation at either end of a token are ignored so that added
// periods and commas are not mistaken for corrections.
func FromPipeline(loc locale.Locale, before, after string) []Pair {
	var out []Pair
	pairWords(before, after, func(b, a string) {
		bl := trimPunct(strings.ToLower(b))
		al := trimPunct(strings.ToLower(a))
		if utf8.RuneCountInString(bl) < MinWordRunes || al == "" || bl == al {
			return
		}
		if loc.IsStopword(bl) || loc.IsStopword(al) {
			return
		}
		if d := textdist.Distance(bl, al); d > 0 && d <= MaxDistance {
			out = append(out, Pair{Wrong: bl, Right: al})
		}
	})
	return out
}

// pairWords tokenises both texts on whitespace and calls fn for every pair
// of words that occupy the same slot.
func pairWords(a, b string, fn func(a, b string)) {
	wa, wb := strings.Fields(a), strings.Fields(b)
	if len(wa) == len(wb) {
		for i := range wa {
			fn(wa[i], wb[i])
		}
		return
	}
	for _, p := range textdist.Align(wa, wb) {
		if p.Both() {
			fn(*p.Original, *p.Edited)
		}
	}
}

func trimPunct(s string) string {
	return strings.Trim(s, ".,!?\"'")
}

func containsWrong(pairs []Pair, wrong string) bool {
	return slices.ContainsFunc(pairs, func(p Pair) bool { return p.Wrong == wrong })
}
