package locale_test

import (
	"strings"
	"testing"

	"github.com/MrWong99/dikte/internal/locale"
)

func TestFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want string
	}{
		{"tr", "tr"},
		{" TR ", "tr"},
		{"en", "en"},
		{"de", "de"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := locale.For(tt.code).Code(); got != tt.want {
			t.Errorf("For(%q).Code() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestTurkish_IsStopword(t *testing.T) {
	t.Parallel()

	tr := locale.Turkish{}
	for _, w := range []string{"ve", "bir", "ben", "cok", "nasil"} {
		if !tr.IsStopword(w) {
			t.Errorf("IsStopword(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"guzel", "program", "Ve"} {
		if tr.IsStopword(w) {
			t.Errorf("IsStopword(%q) = true, want false", w)
		}
	}
}

func TestTurkish_StripSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		word, stem, suffix string
	}{
		{"biçimleri", "biçim", "leri"},
		{"bitimleri", "bitim", "leri"},
		{"evde", "ev", "de"},
		{"kitaplar", "kitap", "lar"},
		{"okuldan", "okul", "dan"},
		{"masa", "masa", ""},
		{"de", "de", ""},
	}
	for _, tt := range tests {
		stem, suffix := locale.Turkish{}.StripSuffix(tt.word)
		if stem != tt.stem || suffix != tt.suffix {
			t.Errorf("StripSuffix(%q) = (%q, %q), want (%q, %q)", tt.word, stem, suffix, tt.stem, tt.suffix)
		}
	}
}

func TestNumberWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want string
		ok   bool
	}{
		{0, "sıfır", true},
		{1, "bir", true},
		{10, "on", true},
		{15, "on beş", true},
		{23, "yirmi üç", true},
		{100, "yüz", true},
		{999, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		got, ok := locale.NumberWord(tt.n)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NumberWord(%d) = (%q, %v), want (%q, %v)", tt.n, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTurkish_NormalizeNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, in, want string
	}{
		{"suffix", "10un üstünde", "onun üstünde"},
		{"suffix locative", "3te kaldım", "üçte kaldım"},
		{"suffix ablative", "5ten fazla", "beşten fazla"},
		{"apostrophe suffix", "10'un üstünde", "onun üstünde"},
		{"standalone", "ben 10 yazdım", "ben on yazdım"},
		{"standalone small", "bu 3 güzel", "bu üç güzel"},
		{"currency", "100 lira", "100 lira"},
		{"weight", "5 kilo", "5 kilo"},
		{"year", "2024 yılında", "2024 yılında"},
		{"large", "150 kişi", "150 kişi"},
		{"no digits", "merhaba dünya", "merhaba dünya"},
		// Separators are not number boundaries: each digit run is read alone.
		{"clock time", "saat 10:30 da", "saat on:30 da"},
		{"decimal", "fiyat 3.5 lira", "fiyat üç.5 lira"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := (locale.Turkish{}).NormalizeNumbers(tt.in); got != tt.want {
				t.Errorf("NormalizeNumbers(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTurkish_IsLoanword(t *testing.T) {
	t.Parallel()

	tr := locale.Turkish{}
	for _, w := range []string{"gun", "Meeting", "project", "ok"} {
		if !tr.IsLoanword(w) {
			t.Errorf("IsLoanword(%q) = false, want true", w)
		}
	}
	if tr.IsLoanword("degil") {
		t.Error("IsLoanword(degil) = true, want false")
	}
}

func TestTurkish_Punctuate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		commas bool
		want   string
	}{
		{"question suffix", "bu nasıl bir şey mi", false, "bu nasıl bir şey mi?"},
		{"question word", "neden böyle oldu", false, "neden böyle oldu?"},
		{"acaba", "acaba bu doğru mu", false, "acaba bu doğru mu?"},
		{"exclamation", "bravo harika olmuş", false, "bravo harika olmuş!"},
		{"exclamation extended", "süper bu çok iyi", false, "süper bu çok iyi!"},
		{"default period", "bugün hava güzel", false, "bugün hava güzel."},
		{"existing kept", "Merhaba!", false, "Merhaba!"},
		{"comma", "evet ama ben istemiyorum", true, "evet, ama ben istemiyorum!"},
		{"comma lakin", "gidecektim lakin vazgeçtim", true, "gidecektim, lakin vazgeçtim."},
		{"comma already", "gittim, ama döndüm", true, "gittim, ama döndüm."},
		{"comma phrase", "geldi öte yandan gitti", true, "geldi, öte yandan gitti."},
		{"inner word untouched", "bu amaç güzel", true, "bu amaç güzel."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := (locale.Turkish{}).Punctuate(tt.in, tt.commas); got != tt.want {
				t.Errorf("Punctuate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnglish_Punctuate(t *testing.T) {
	t.Parallel()

	en := locale.English{}
	if got := en.Punctuate("how are you doing", false); got != "how are you doing?" {
		t.Errorf("Punctuate = %q, want question mark", got)
	}
	got := en.Punctuate("I like it but I'm not sure", true)
	if !strings.Contains(got, ", but") {
		t.Errorf("Punctuate = %q, want comma before but", got)
	}
	if !strings.HasSuffix(got, ".") {
		t.Errorf("Punctuate = %q, want trailing period", got)
	}
}

func TestGeneric_Punctuate(t *testing.T) {
	t.Parallel()

	g := locale.For("de")
	if got := g.Punctuate("wie geht es", true); got != "wie geht es." {
		t.Errorf("Punctuate = %q, want %q", got, "wie geht es.")
	}
	if got := g.Punctuate("Hallo!", true); got != "Hallo!" {
		t.Errorf("Punctuate = %q, want unchanged", got)
	}
}
