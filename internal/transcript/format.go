package transcript

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize upper-cases the first letter of text and the first letter
// after every '.', '!', '?' and newline, using the case rules of tag. For
// Turkish this maps 'i' to 'İ'.
func Capitalize(tag language.Tag, text string) string {
	if text == "" {
		return text
	}
	upper := cases.Upper(tag)

	var b strings.Builder
	b.Grow(len(text) + 4)
	next := true
	for _, r := range text {
		if next && unicode.IsLetter(r) {
			b.WriteString(upper.String(string(r)))
			next = false
			continue
		}
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			next = true
		}
	}
	return b.String()
}

// NormalizeSpacing collapses runs of spaces, removes spaces before
// ",.!?:;" and adds one after them unless the text ends there or another
// mark, closing bracket or quote follows. Newlines are kept.
func NormalizeSpacing(text string) string {
	src := []rune(text)
	out := make([]rune, 0, len(src)+4)
	for i, r := range src {
		if isSpacedMark(r) && len(out) > 0 {
			for len(out) > 0 && out[len(out)-1] == ' ' {
				out = out[:len(out)-1]
			}
			out = append(out, r)
			if i+1 < len(src) && !noSpaceBefore(src[i+1]) {
				out = append(out, ' ')
			}
			continue
		}
		if r == ' ' && len(out) > 0 && out[len(out)-1] == ' ' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func isSpacedMark(r rune) bool {
	return strings.ContainsRune(",.!?:;", r)
}

// noSpaceBefore lists the characters that may directly follow a mark.
func noSpaceBefore(r rune) bool {
	return strings.ContainsRune(" \n\r.!?,)\"'”", r)
}
