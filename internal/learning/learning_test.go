package learning_test

import (
	"slices"
	"testing"

	"github.com/MrWong99/dikte/internal/learning"
	"github.com/MrWong99/dikte/internal/locale"
)

var tr = locale.Turkish{}

func hasPair(pairs []learning.Pair, wrong, right string) bool {
	return slices.Contains(pairs, learning.Pair{Wrong: wrong, Right: right})
}

func TestFromDiff_DirectCorrection(t *testing.T) {
	t.Parallel()

	res := learning.FromDiff(tr, "cok guzel bir gun", "çok güzel bir gün")
	if !hasPair(res.Direct, "guzel", "güzel") {
		t.Errorf("Direct = %v, want guzel → güzel", res.Direct)
	}
	for _, p := range res.Direct {
		if p.Wrong == "cok" {
			t.Errorf("stop-word %q learned", p.Wrong)
		}
	}
}

func TestFromDiff_StopwordsNeverLearned(t *testing.T) {
	t.Parallel()

	res := learning.FromDiff(tr, "ve ben bir ile", "vee benn birr ilee")
	if len(res.Direct) != 0 {
		t.Errorf("Direct = %v, want none", res.Direct)
	}
}

func TestFromDiff_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		edited   string
	}{
		{"identical", "merhaba dünya", "merhaba dünya"},
		{"case only", "Merhaba", "merhaba"},
		{"short word", "ab", "ac"},
		{"too far", "kalem", "defter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if res := learning.FromDiff(tr, tt.original, tt.edited); !res.Empty() {
				t.Errorf("FromDiff(%q, %q) = %+v, want empty", tt.original, tt.edited, res)
			}
		})
	}
}

func TestFromDiff_StemInference(t *testing.T) {
	t.Parallel()

	res := learning.FromDiff(tr, "biçimleri", "bitimleri")
	if !hasPair(res.Direct, "biçimleri", "bitimleri") {
		t.Errorf("Direct = %v, want biçimleri → bitimleri", res.Direct)
	}
	if !hasPair(res.Stem, "biçim", "bitim") {
		t.Errorf("Stem = %v, want biçim → bitim", res.Stem)
	}
}

func TestFromDiff_StemDeduplicated(t *testing.T) {
	t.Parallel()

	res := learning.FromDiff(tr, "biçimleri biçimleri", "bitimleri bitimleri")
	if len(res.Stem) != 1 {
		t.Errorf("Stem = %v, want exactly one biçim entry", res.Stem)
	}
}

func TestFromDiff_DifferentLengthsUseAlignment(t *testing.T) {
	t.Parallel()

	res := learning.FromDiff(tr, "bu toplanti uzun", "bu toplantı uzun sürdü")
	if !hasPair(res.Direct, "toplanti", "toplantı") {
		t.Errorf("Direct = %v, want toplanti → toplantı", res.Direct)
	}
}

func TestFromPipeline(t *testing.T) {
	t.Parallel()

	pairs := learning.FromPipeline(tr, "onemli bir surec", "Önemli bir süreç.")
	if !hasPair(pairs, "onemli", "önemli") {
		t.Errorf("pairs = %v, want onemli → önemli", pairs)
	}
	if !hasPair(pairs, "surec", "süreç") {
		t.Errorf("pairs = %v, want surec → süreç (trailing period ignored)", pairs)
	}
	if len(pairs) != 2 {
		t.Errorf("pairs = %v, want 2 entries", pairs)
	}
}

func TestFromPipeline_PunctuationOnlyIgnored(t *testing.T) {
	t.Parallel()

	if pairs := learning.FromPipeline(tr, "merhaba dünya", "Merhaba dünya."); len(pairs) != 0 {
		t.Errorf("pairs = %v, want none", pairs)
	}
}
