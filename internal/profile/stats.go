package profile

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/MrWong99/dikte/internal/locale"
)

const (
	// MaxNgrams bounds the stored n-gram list.
	MaxNgrams = 500

	// MaxFrequentWords bounds the stored frequent-word list.
	MaxFrequentWords = 50

	minFrequentWordRunes = 4
)

// ExtractNgrams returns the lowercase 2- and 3-word sequences of text with
// their counts, in order of first appearance. Single-rune words are
// ignored.
func ExtractNgrams(text string) []NgramEntry {
	var words []string
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) > 1 {
			words = append(words, strings.ToLower(w))
		}
	}

	var out []NgramEntry
	idx := make(map[string]int)
	add := func(ng string) {
		if i, ok := idx[ng]; ok {
			out[i].Count++
			return
		}
		idx[ng] = len(out)
		out = append(out, NgramEntry{Ngram: ng, Count: 1})
	}
	for n := 2; n <= 3; n++ {
		for i := 0; i+n <= len(words); i++ {
			add(strings.Join(words[i:i+n], " "))
		}
	}
	return out
}

// MergeNgrams adds the n-grams of text to p, keeps the [MaxNgrams] most
// frequent and counts one more transcription.
func (p *Profile) MergeNgrams(text string) {
	idx := make(map[string]int, len(p.Ngrams))
	for i, e := range p.Ngrams {
		idx[e.Ngram] = i
	}
	for _, e := range ExtractNgrams(text) {
		if i, ok := idx[e.Ngram]; ok {
			p.Ngrams[i].Count += e.Count
			continue
		}
		idx[e.Ngram] = len(p.Ngrams)
		p.Ngrams = append(p.Ngrams, e)
	}
	slices.SortStableFunc(p.Ngrams, func(a, b NgramEntry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(p.Ngrams) > MaxNgrams {
		p.Ngrams = p.Ngrams[:MaxNgrams]
	}
	p.TotalTranscriptions++
}

// MergeFrequentWords folds the content words of text into the frequent-word
// list. Words already on the list count once; the [MaxFrequentWords] most
// frequent are kept, earlier entries first on ties.
func (p *Profile) MergeFrequentWords(loc locale.Locale, text string) {
	type wc struct {
		word  string
		count int
	}
	var counts []wc
	idx := make(map[string]int)
	bump := func(w string) {
		if i, ok := idx[w]; ok {
			counts[i].count++
			return
		}
		idx[w] = len(counts)
		counts = append(counts, wc{word: w, count: 1})
	}

	for _, w := range p.FrequentWords {
		bump(w)
	}
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) < minFrequentWordRunes {
			continue
		}
		w = strings.ToLower(w)
		if loc.IsStopword(w) {
			continue
		}
		bump(w)
	}

	slices.SortStableFunc(counts, func(a, b wc) int {
		return cmp.Compare(b.count, a.count)
	})
	if len(counts) > MaxFrequentWords {
		counts = counts[:MaxFrequentWords]
	}
	words := make([]string, len(counts))
	for i, c := range counts {
		words[i] = c.word
	}
	p.FrequentWords = words
}
