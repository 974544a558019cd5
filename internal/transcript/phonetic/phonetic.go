// Package phonetic finds learned vocabulary that sounds like a given word.
//
// It backs the "suggest" surface of the correction engine: when the user
// types or selects a word, the engine asks which known corrections it may
// be a variant of. Matching runs in two stages:
//
//  1. Phonetic candidate filtering: both sides are folded to ASCII (Turkish
//     ç, ğ, ı, ö, ş, ü become c, g, i, o, s, u) and encoded with Double
//     Metaphone. Any shared primary or secondary code makes the term a
//     phonetic candidate.
//
//  2. Jaro-Winkler ranking: phonetic candidates are kept when their
//     similarity on the folded strings reaches the phonetic threshold
//     (default 0.70). Terms without a shared code must clear the stricter
//     fuzzy threshold (default 0.85).
//
// The Matcher is read-only after construction and safe for concurrent use.
package phonetic

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85
)

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithPhoneticThreshold sets the minimum Jaro-Winkler score for a term that
// shares a phonetic code with the input. Default: 0.70.
func WithPhoneticThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.phoneticThreshold = threshold
	}
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score for a term without
// a shared phonetic code. Default: 0.85.
func WithFuzzyThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.fuzzyThreshold = threshold
	}
}

// Matcher ranks vocabulary terms by pronunciation and spelling similarity.
type Matcher struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// New returns a [Matcher] configured with the supplied options.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Candidate is one ranked vocabulary term.
type Candidate struct {
	Term     string
	Score    float64
	Phonetic bool
}

// Match returns the single best term for word. When nothing clears the
// thresholds, matched is false, term equals word and score is 0.
func (m *Matcher) Match(word string, vocabulary []string) (term string, score float64, matched bool) {
	ranked := m.Rank(word, vocabulary, 1)
	if len(ranked) == 0 {
		return word, 0, false
	}
	return ranked[0].Term, ranked[0].Score, true
}

// Rank returns up to limit terms similar to word, best first. Phonetic
// candidates sort ahead of fuzzy-only ones; ties fall back to the higher
// score and then to the term itself. A limit ≤ 0 returns every candidate.
// Terms equal to word (case-insensitively) are skipped.
func (m *Matcher) Rank(word string, vocabulary []string, limit int) []Candidate {
	input := Fold(word)
	if input == "" || len(vocabulary) == 0 {
		return nil
	}
	inputCodes := codes(input)

	seen := make(map[string]struct{}, len(vocabulary))
	var out []Candidate
	for _, term := range vocabulary {
		folded := Fold(term)
		if folded == "" || strings.EqualFold(strings.TrimSpace(term), strings.TrimSpace(word)) {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}

		jw := matchr.JaroWinkler(input, folded, false)
		phon := overlap(inputCodes, codes(folded))
		switch {
		case phon && jw >= m.phoneticThreshold:
		case !phon && jw >= m.fuzzyThreshold:
		default:
			continue
		}
		out = append(out, Candidate{Term: term, Score: jw, Phonetic: phon})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Phonetic != out[j].Phonetic {
			return out[i].Phonetic
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Term < out[j].Term
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

var asciiFold = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "I", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
	"â", "a", "î", "i", "û", "u",
)

// Fold lowercases s, strips surrounding space and maps Turkish letters to
// their closest ASCII form.
func Fold(s string) string {
	return strings.ToLower(asciiFold.Replace(strings.TrimSpace(s)))
}

// codes returns the Double Metaphone codes of every token in s.
func codes(s string) map[string]struct{} {
	tokens := strings.Fields(s)
	out := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, sec := matchr.DoubleMetaphone(t)
		if p != "" {
			out[p] = struct{}{}
		}
		if sec != "" {
			out[sec] = struct{}{}
		}
	}
	return out
}

func overlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for c := range a {
		if _, ok := b[c]; ok {
			return true
		}
	}
	return false
}
