package locale

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// English supplies question detection by sentence opener and commas before
// a handful of conjunctions. It has no number or diacritic rules.
type English struct{}

var _ Locale = English{}

func (English) Code() string      { return "en" }
func (English) Tag() language.Tag { return language.English }

var enStopwords = set(
	"a", "an", "the", "and", "or", "but", "of", "to", "in", "on", "at",
	"is", "are", "was", "were", "be", "it", "he", "she", "we", "you",
	"they", "i", "me", "my", "this", "that", "for", "with", "as", "by",
	"not", "no", "so", "do", "did", "has", "have", "had",
)

func (English) IsStopword(word string) bool {
	_, ok := enStopwords[word]
	return ok
}

var enSuffixes = []string{"ing", "ed", "es", "ly", "s"}

// StripSuffix removes one common English inflection, keeping at least three
// runes of stem.
func (English) StripSuffix(word string) (stem, suffix string) {
	for _, s := range enSuffixes {
		if !strings.HasSuffix(word, s) {
			continue
		}
		rest := word[:len(word)-len(s)]
		if utf8.RuneCountInString(rest) < 3 {
			continue
		}
		return rest, s
	}
	return word, ""
}

func (English) NormalizeNumbers(text string) string { return text }
func (English) CharFixes() []Replacement            { return nil }
func (English) Dictionary() []Replacement           { return nil }
func (English) IsLoanword(string) bool              { return false }

var (
	enQuestionStarters = set(
		"what", "where", "when", "why", "how", "who", "which",
		"do", "does", "did", "is", "are", "can", "could",
		"would", "will", "shall",
	)
	enSplitMarkers = []string{
		" and then ", " after that ", " and ", " but ", " so ",
	}
	enCommaWords = []string{
		"but", "however", "although", "because", "therefore",
		"moreover", "furthermore",
	}
)

func (English) Punctuate(sentence string, commas bool) string {
	s := strings.TrimSpace(sentence)
	if s == "" {
		return ""
	}
	if !EndsWithTerminal(s) {
		if _, q := enQuestionStarters[firstWord(strings.ToLower(s))]; q {
			s += "?"
		} else {
			s += "."
		}
	}
	if commas {
		for _, w := range enCommaWords {
			s = insertCommaBeforeWord(s, w)
		}
	}
	return s
}

func (English) SplitMarkers() []string { return enSplitMarkers }
