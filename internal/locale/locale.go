// Package locale holds the language-specific rules consulted by the learning
// engine and the normalisation pipeline: stop-words, suffix stripping, digit
// spelling, character repair tables, loanword allowlists, sentence-final
// punctuation heuristics and case mapping.
//
// A [Locale] is selected per call with [For]. Turkish is the reference
// locale; English supplies its own question and comma rules; every other
// language code falls back to [Generic], which only guarantees terminal
// punctuation.
//
// All implementations are stateless and safe for concurrent use.
package locale

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// Replacement maps a lowercase mis-rendering to its corrected form.
type Replacement struct {
	Wrong string
	Right string
}

// Locale bundles the rules for one language.
type Locale interface {
	// Code returns the ISO 639-1 language code, e.g. "tr".
	Code() string

	// Tag returns the BCP 47 tag used for case mapping.
	Tag() language.Tag

	// IsStopword reports whether the lowercase word is too common to learn.
	IsStopword(word string) bool

	// StripSuffix splits a lowercase word into stem and inflectional suffix.
	// When no known suffix applies, suffix is empty and stem equals word.
	StripSuffix(word string) (stem, suffix string)

	// NormalizeNumbers rewrites digits that the recogniser emitted for
	// spoken numerals. Locales without number rules return text unchanged.
	NormalizeNumbers(text string) string

	// CharFixes returns the whole-word table repairing missing diacritics.
	CharFixes() []Replacement

	// Dictionary returns the larger whole-word table of common recogniser
	// misspellings, applied when locale corrections are enabled.
	Dictionary() []Replacement

	// IsLoanword reports whether word is a foreign term that locale tables
	// must leave untouched.
	IsLoanword(word string) bool

	// Punctuate terminates one sentence with '.', '?' or '!' and, when
	// commas is true, inserts commas before connective words.
	Punctuate(sentence string, commas bool) string

	// SplitMarkers returns the connectives at which an over-long unterminated
	// run of words may be split into sentences. Each marker carries its
	// surrounding spaces.
	SplitMarkers() []string
}

// For returns the Locale for the given language code. Unknown codes yield a
// [Generic] locale carrying that code.
func For(code string) Locale {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "tr":
		return Turkish{}
	case "en":
		return English{}
	default:
		return Generic{code: strings.ToLower(strings.TrimSpace(code))}
	}
}

// EndsWithTerminal reports whether s ends in '.', '!' or '?'.
func EndsWithTerminal(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

// ensureTerminal appends a period to a trimmed sentence lacking one.
func ensureTerminal(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || EndsWithTerminal(s) {
		return s
	}
	return s + "."
}

// insertCommaBeforeWord puts a comma in front of every standalone occurrence
// of " word" that is not already preceded by one. The match is
// case-insensitive and word must be lowercase.
func insertCommaBeforeWord(text, word string) string {
	src := []rune(text)
	low := lowerRunes(src)
	search := []rune(" " + word)

	out := make([]rune, 0, len(src)+4)
	last := 0
	for i := 0; i+len(search) <= len(low); {
		if !hasPrefixRunes(low[i:], search) {
			i++
			continue
		}
		after := i + len(search)
		if after < len(src) && !strings.ContainsRune(" ,.?!", src[after]) {
			i = after
			continue
		}
		if strings.HasSuffix(strings.TrimRight(string(src[last:i]), " \t\n\r"), ",") {
			out = append(out, src[last:after]...)
		} else {
			out = append(out, src[last:i]...)
			out = append(out, ',')
			out = append(out, src[i:after]...)
		}
		last = after
		i = after
	}
	out = append(out, src[last:]...)
	return string(out)
}

// insertCommaBeforePhrase handles multi-word connectives. Only the first
// occurrence is considered.
func insertCommaBeforePhrase(text, phrase string) string {
	src := []rune(text)
	low := lowerRunes(src)
	search := []rune(" " + phrase)
	for i := 0; i+len(search) <= len(low); i++ {
		if !hasPrefixRunes(low[i:], search) {
			continue
		}
		if strings.HasSuffix(strings.TrimRight(string(src[:i]), " \t\n\r"), ",") {
			return text
		}
		return string(src[:i]) + "," + string(src[i:])
	}
	return text
}

// lowerRunes lowercases rune by rune so that indices into the result line
// up with indices into src.
func lowerRunes(src []rune) []rune {
	out := make([]rune, len(src))
	for i, r := range src {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func hasPrefixRunes(s, prefix []rune) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}

// firstWord and lastWord return the first and last whitespace-separated
// tokens of the lowercase sentence.
func firstWord(lower string) string {
	f := strings.Fields(lower)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

func lastWord(lower string) string {
	f := strings.Fields(lower)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

// set builds a lookup table from a word list.
func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
