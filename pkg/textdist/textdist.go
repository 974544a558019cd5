// Package textdist provides the edit-distance and word-alignment primitives
// shared by the learning engine and the normalisation pipeline.
//
// All comparisons operate on Unicode code points, not bytes. Inputs are
// NFC-normalised first so that a base letter followed by a combining mark
// counts as a single unit (e.g. "u" + U+0308 compares equal to "ü").
package textdist

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Distance returns the Levenshtein distance between a and b measured in
// runes. It runs in O(len(a)·len(b)) time and keeps only two rows of the
// dynamic-programming table, sized by the shorter input.
func Distance(a, b string) int {
	ra := []rune(norm.NFC.String(a))
	rb := []rune(norm.NFC.String(b))
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Pair is one step of a word alignment. A nil Original marks an insertion,
// a nil Edited marks a deletion; when both are set the step is either a
// match or a substitution.
type Pair struct {
	Original *string
	Edited   *string
}

// Both reports whether the pair carries a word on each side.
func (p Pair) Both() bool { return p.Original != nil && p.Edited != nil }

// Align computes a case-insensitive longest-common-subsequence alignment of
// a and b and returns the steps in input order.
//
// When several optimal paths exist the backtrack prefers the diagonal, so a
// differing word pair is reported as a substitution rather than as an
// insertion followed by a deletion.
func Align(a, b []string) []Pair {
	m, n := len(a), len(b)
	la := lowerAll(a)
	lb := lowerAll(b)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if la[i-1] == lb[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	out := make([]Pair, 0, max(m, n))
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && la[i-1] == lb[j-1]:
			out = append(out, Pair{Original: &a[i-1], Edited: &b[j-1]})
			i--
			j--
		case i > 0 && j > 0 && dp[i-1][j-1] >= dp[i-1][j] && dp[i-1][j-1] >= dp[i][j-1]:
			out = append(out, Pair{Original: &a[i-1], Edited: &b[j-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			out = append(out, Pair{Edited: &b[j-1]})
			j--
		default:
			out = append(out, Pair{Original: &a[i-1]})
			i--
		}
	}
	slices.Reverse(out)
	return out
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
