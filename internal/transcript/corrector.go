package transcript

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/MrWong99/dikte/internal/locale"
)

// isWordChar reports whether r can be part of a word. Apostrophes count so
// that "Ali'nin" is one word.
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || r == '\'' || r == '’'
}

// ReplaceWholeWord replaces every case-insensitive, whole-word occurrence of
// word in text with replacement. Word boundaries are Unicode-aware: a match
// inside "çok" is not a match for "ok". When the matched text starts with
// an upper-case letter, so does the inserted replacement.
func ReplaceWholeWord(text, word, replacement string) string {
	return replaceWord(text, word, replacement, upperFirstSimple, nil)
}

// ApplyUserCorrections applies a wrong → right map with [ReplaceWholeWord],
// longest key first and alphabetically among keys of equal length, so the
// result does not depend on map iteration order.
func ApplyUserCorrections(text string, corrections map[string]string) string {
	for _, wrong := range sortedKeys(corrections) {
		text = ReplaceWholeWord(text, wrong, corrections[wrong])
	}
	return text
}

func sortedKeys(m map[string]string) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return keys
}

// replacer performs whole-word substitutions for one pipeline run, casing
// replacements with the locale's rules.
type replacer struct {
	upper cases.Caser
}

func newReplacer(loc locale.Locale) *replacer {
	return &replacer{upper: cases.Upper(loc.Tag())}
}

func (r *replacer) upperFirst(s string) string {
	c, n := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return s
	}
	return r.upper.String(string(c)) + s[n:]
}

// replace substitutes word in text and appends a [Correction] to log for
// every match that changed.
func (r *replacer) replace(text, word, replacement, method string, log *[]Correction) string {
	return replaceWord(text, word, replacement, r.upperFirst, func(matched, inserted string) {
		if matched != inserted {
			*log = append(*log, Correction{Original: matched, Corrected: inserted, Method: method})
		}
	})
}

func upperFirstSimple(s string) string {
	c, n := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(c)) + s[n:]
}

// replaceWord is the matcher behind every whole-word substitution. Matching
// is rune by rune on simple lowercase forms so that positions in the
// lowered text map back onto the original. Matches do not overlap.
func replaceWord(text, word, replacement string, upperFirst func(string) string, onMatch func(matched, inserted string)) string {
	if word == "" || text == "" {
		return text
	}
	src := []rune(text)
	pat := []rune(word)
	for i, c := range pat {
		pat[i] = unicode.ToLower(c)
	}

	var b strings.Builder
	last, found := 0, false
	for i := 0; i+len(pat) <= len(src); {
		if !matchFold(src[i:], pat) {
			i++
			continue
		}
		end := i + len(pat)
		if (i > 0 && isWordChar(src[i-1])) || (end < len(src) && isWordChar(src[end])) {
			i = end
			continue
		}

		inserted := replacement
		if unicode.IsUpper(src[i]) {
			inserted = upperFirst(replacement)
		}
		b.WriteString(string(src[last:i]))
		b.WriteString(inserted)
		if onMatch != nil {
			onMatch(string(src[i:end]), inserted)
		}
		last, i, found = end, end, true
	}
	if !found {
		return text
	}
	b.WriteString(string(src[last:]))
	return b.String()
}

// matchFold reports whether s starts with the lowercase pattern pat.
func matchFold(s, pat []rune) bool {
	if len(s) < len(pat) {
		return false
	}
	for i, c := range pat {
		if unicode.ToLower(s[i]) != c {
			return false
		}
	}
	return true
}
