package transcript

import (
	"strings"

	"github.com/MrWong99/dikte/internal/locale"
)

// runOnWords is the length from which an unterminated tail is split at
// connectives.
const runOnWords = 15

// minWordsAfterSplit is how many words must follow a connective for it to
// start a new sentence.
const minWordsAfterSplit = 3

// Punctuate terminates every sentence of text following the locale's rules,
// optionally inserting commas before connectives. Sentences are joined by a
// space, or by a newline when paragraphs is true.
func Punctuate(loc locale.Locale, text string, commas, paragraphs bool) string {
	if text == "" {
		return ""
	}
	var parts []string
	for _, s := range SplitSentences(loc, text) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		parts = append(parts, loc.Punctuate(s, commas))
	}
	sep := " "
	if paragraphs {
		sep = "\n"
	}
	return strings.Join(parts, sep)
}

// SplitSentences cuts text after every '.', '!' and '?'. An unterminated
// tail of at least 15 words is further split at the locale's connectives.
// Sentences keep their terminal mark and surrounding whitespace.
func SplitSentences(loc locale.Locale, text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			out = append(out, text[start:i+1])
			start = i + 1
		}
	}
	tail := text[start:]
	if strings.TrimSpace(tail) == "" {
		return out
	}
	if len(strings.Fields(tail)) >= runOnWords {
		return append(out, splitRunOn(tail, loc.SplitMarkers())...)
	}
	return append(out, tail)
}

// splitRunOn splits at the first occurrence of each marker in turn. The
// marker word opens the following part.
func splitRunOn(text string, markers []string) []string {
	var parts []string
	rest := []rune(text)
	for _, m := range markers {
		pos := indexFold(rest, []rune(m))
		if pos < 0 {
			continue
		}
		after := string(rest[pos+len([]rune(m)):])
		if len(strings.Fields(after)) < minWordsAfterSplit {
			continue
		}
		if head := strings.TrimSpace(string(rest[:pos])); head != "" {
			parts = append(parts, head)
		}
		rest = rest[pos:]
	}
	if tail := strings.TrimSpace(string(rest)); tail != "" {
		parts = append(parts, tail)
	}
	if len(parts) <= 1 {
		return []string{text}
	}
	return parts
}

// indexFold returns the rune index of the first case-insensitive occurrence
// of the lowercase pattern in s, or -1.
func indexFold(s, pat []rune) int {
	for i := 0; i+len(pat) <= len(s); i++ {
		if matchFold(s[i:], pat) {
			return i
		}
	}
	return -1
}
