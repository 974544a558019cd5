package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rejection reasons reported by [IsHallucination].
const (
	ReasonTooShort       = "too short"
	ReasonKnownArtifact  = "known artifact"
	ReasonWordRepetition = "word repetition"
	ReasonCharRepetition = "character repetition"
	ReasonNoLetters      = "no letters"
	ReasonCharRun        = "character run"
)

// artifacts are phrases recognisers emit on silence or music, mostly
// learned from subtitled video.
var artifacts = []string{
	"Altyazı", "Abone ol", "Beğen", "Subscribe", "Thank you",
	"Thanks for watching", "[Müzik]", "(Müzik)", "...", "Altyazı M.K.",
	"AÇIK CEZAEVİ", "www.", "http", "Devamını izle", "Bir sonraki",
	"Videoyu beğen", "SESLİ", "Sessiz", "ABONE", "Amara.org", "Subtitles",
}

// artifactSlack is how many bytes may follow an artefact prefix before the
// text counts as real speech.
const artifactSlack = 10

// IsHallucination reports whether text looks like a recogniser artefact
// rather than speech, and why.
func IsHallucination(text string) (reason string, hallucinated bool) {
	t := strings.TrimSpace(text)
	if utf8.RuneCountInString(t) < 2 {
		return ReasonTooShort, true
	}

	lower := strings.ToLower(t)
	for _, a := range artifacts {
		al := strings.ToLower(a)
		if lower == al || (strings.HasPrefix(lower, al) && len(t) < len(a)+artifactSlack) {
			return ReasonKnownArtifact, true
		}
	}

	if DetectRepetition(t) {
		return ReasonWordRepetition, true
	}
	if DetectCharRepetition(t) {
		return ReasonCharRepetition, true
	}

	letters := 0
	for _, r := range t {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 2 {
		return ReasonNoLetters, true
	}

	if hasCharRun(t) {
		return ReasonCharRun, true
	}
	return "", false
}

// DetectRepetition reports word-level looping: at most two distinct words
// across six or more, or a one- to three-word pattern filling more than
// 80% of the text at least four times.
func DetectRepetition(text string) bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 4 {
		return false
	}

	distinct := make(map[string]struct{})
	for _, w := range words {
		distinct[w] = struct{}{}
	}
	if len(distinct) <= 2 && len(words) >= 6 {
		return true
	}

	for n := 1; n <= 3; n++ {
		if len(words) < n*4 {
			continue
		}
		pattern := words[:n]
		chunks, matches := 0, 0
		for i := 0; i < len(words); i += n {
			chunks++
			if i+n <= len(words) && equalWords(words[i:i+n], pattern) {
				matches++
			}
		}
		if matches >= 4 && float64(matches)/float64(chunks) > 0.8 {
			return true
		}
	}
	return false
}

func equalWords(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DetectCharRepetition reports whether a single letter or digit makes up
// more than 60% of the text's letters and digits, appearing more than four
// times.
func DetectCharRepetition(text string) bool {
	counts := make(map[rune]int)
	total := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			counts[r]++
			total++
		}
	}
	if total < 4 {
		return false
	}
	for _, n := range counts {
		if n > 4 && float64(n)/float64(total) > 0.6 {
			return true
		}
	}
	return false
}

// hasCharRun reports five or more identical consecutive characters,
// ignoring whitespace, hyphens and commas between them.
func hasCharRun(text string) bool {
	run := 0
	var prev rune = -1
	for _, r := range text {
		if unicode.IsSpace(r) || r == '-' || r == ',' {
			continue
		}
		if r == prev {
			run++
			if run >= 5 {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}
