package phonetic_test

import (
	"testing"

	"github.com/MrWong99/dikte/internal/transcript/phonetic"
)

func TestFold(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Güzel":     "guzel",
		"İstanbul":  "istanbul",
		" çalışma ": "calisma",
		"ŞÖYLE":     "soyle",
	}
	for in, want := range tests {
		if got := phonetic.Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatcher_FoldedSpelling(t *testing.T) {
	t.Parallel()

	m := phonetic.New()
	vocab := []string{"kubernetes", "toplantı", "sözleşme"}

	term, score, ok := m.Match("sozlesme", vocab)
	if !ok {
		t.Fatalf("Match(%q): matched=false, want true", "sozlesme")
	}
	if term != "sözleşme" {
		t.Errorf("Match(%q): term=%q, want %q", "sozlesme", term, "sözleşme")
	}
	if score < 0.99 {
		t.Errorf("Match(%q): score=%f, want ~1 after folding", "sozlesme", score)
	}
}

func TestMatcher_Misspelling(t *testing.T) {
	t.Parallel()

	m := phonetic.New()
	term, _, ok := m.Match("kubernets", []string{"kubernetes", "docker"})
	if !ok || term != "kubernetes" {
		t.Errorf("Match(kubernets) = (%q, %v), want kubernetes", term, ok)
	}
}

func TestMatcher_NoMatch(t *testing.T) {
	t.Parallel()

	m := phonetic.New()
	term, score, ok := m.Match("merhaba", []string{"kubernetes", "sözleşme"})
	if ok {
		t.Fatalf("Match(merhaba): matched=true (%q), want false", term)
	}
	if term != "merhaba" || score != 0 {
		t.Errorf("Match(merhaba) = (%q, %f), want input unchanged and 0", term, score)
	}
}

func TestMatcher_SkipsIdentity(t *testing.T) {
	t.Parallel()

	m := phonetic.New()
	if _, _, ok := m.Match("Docker", []string{"docker"}); ok {
		t.Error("Match returned the input term itself")
	}
}

func TestMatcher_EmptyInputs(t *testing.T) {
	t.Parallel()

	m := phonetic.New()
	if got := m.Rank("", []string{"a"}, 0); got != nil {
		t.Errorf("Rank(empty word) = %v, want nil", got)
	}
	if got := m.Rank("word", nil, 0); got != nil {
		t.Errorf("Rank(nil vocabulary) = %v, want nil", got)
	}
}

func TestMatcher_RankOrderAndLimit(t *testing.T) {
	t.Parallel()

	m := phonetic.New(phonetic.WithPhoneticThreshold(0.5), phonetic.WithFuzzyThreshold(0.5))
	got := m.Rank("guzel", []string{"güzeller", "güzel", "güzel", "gözel"}, 2)
	if len(got) != 2 {
		t.Fatalf("Rank returned %d candidates, want 2", len(got))
	}
	if got[0].Term != "güzel" {
		t.Errorf("Rank[0] = %q, want güzel", got[0].Term)
	}
	if got[0].Score < got[1].Score && got[0].Phonetic == got[1].Phonetic {
		t.Errorf("Rank not sorted by score: %+v", got)
	}
}
