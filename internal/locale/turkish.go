package locale

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// Turkish is the reference locale. Its tables are tuned for the errors a
// recogniser makes when it drops Turkish diacritics (ç, ğ, ı, ö, ş, ü).
type Turkish struct{}

var _ Locale = Turkish{}

func (Turkish) Code() string      { return "tr" }
func (Turkish) Tag() language.Tag { return language.Turkish }

// ── Learning ─────────────────────────────────────────────────────────────────

var trStopwords = set(
	"ve", "bir", "ile", "ben", "sen", "biz", "siz", "bu", "su", "o",
	"da", "de", "mi", "mu", "mü", "ki", "ama", "var", "yok", "ne",
	"hem", "her", "ise", "icin", "gibi", "kadar", "daha", "en",
	"cok", "az", "tam", "tum", "hep", "hic", "sey", "diye",
	"bana", "sana", "ona", "beni", "seni", "onu",
	"oldu", "olan", "olur", "etti", "eden", "eder",
	"dedi", "diyor", "der", "geldi", "gitti",
	"bunu", "sunu", "neden", "nasil", "nere",
)

// IsStopword reports whether word is on the Turkish stop list. The list is
// matched exactly; callers lowercase first.
func (Turkish) IsStopword(word string) bool {
	_, ok := trStopwords[word]
	return ok
}

// trSuffixes are inflectional endings, longest first. Both the correct and
// the diacritic-stripped spellings are listed because the stripper runs on
// recogniser output as well as on user edits.
var trSuffixes = []string{
	"lerinden", "larından", "larindan",
	"lerinde", "larında", "larinda",
	"lerine", "larına", "larina", "lerini", "larını", "larini",
	"leri", "ları", "lari",
	"nden", "ndan", "inde", "ında", "inda", "unda", "ünde", "unde",
	"ler", "lar",
	"den", "dan", "ten", "tan",
	"nin", "nın", "nun", "nün",
	"lik", "lık", "luk", "lük",
	"siz", "sız", "suz", "süz",
	"dir", "dır", "dur", "dür", "tir", "tır", "tur", "tür",
	"yle", "yla",
	"de", "da", "te", "ta",
	"in", "ın", "un", "ün",
	"ye", "ya", "yi", "yı", "yu", "yü",
	"li", "lı", "lu", "lü",
	"i", "ı", "u", "ü",
}

// minStemRunes is the shortest stem the stripper will leave behind.
const minStemRunes = 2

// StripSuffix removes the longest known inflectional suffix from word.
// "biçimleri" yields ("biçim", "leri"), "evde" yields ("ev", "de").
func (Turkish) StripSuffix(word string) (stem, suffix string) {
	for _, s := range trSuffixes {
		if !strings.HasSuffix(word, s) {
			continue
		}
		rest := word[:len(word)-len(s)]
		if utf8.RuneCountInString(rest) < minStemRunes {
			continue
		}
		return rest, s
	}
	return word, ""
}

// ── Numbers ──────────────────────────────────────────────────────────────────

var trNumberWords = map[int]string{
	0: "sıfır", 1: "bir", 2: "iki", 3: "üç", 4: "dört", 5: "beş",
	6: "altı", 7: "yedi", 8: "sekiz", 9: "dokuz", 10: "on",
	20: "yirmi", 30: "otuz", 40: "kırk", 50: "elli",
	60: "altmış", 70: "yetmiş", 80: "seksen", 90: "doksan", 100: "yüz",
}

// NumberWord spells out n in Turkish for 0 ≤ n ≤ 100. Compound numbers are
// written as two words ("on beş"). ok is false outside that range.
func NumberWord(n int) (word string, ok bool) {
	if w, found := trNumberWords[n]; found {
		return w, true
	}
	if n > 10 && n < 100 {
		tens, ones := trNumberWords[n/10*10], trNumberWords[n%10]
		return tens + " " + ones, true
	}
	return "", false
}

var trUnits = []string{
	"lira", "tl", "dolar", "euro", "sterlin", "kuruş",
	"kilo", "kilogram", "kg", "gram", "gr", "ton",
	"metre", "meter", "km", "cm", "mm", "mil",
	"litre", "lt",
	"saat", "dakika", "saniye",
	"gün", "ay", "yıl", "yılında", "yılı",
	"kişi", "kez", "defa", "adet", "tane",
	"%", "derece",
	"milyon", "milyar", "bin",
}

// isUnit reports whether word is, or starts with, a measurement or currency
// unit. Numbers in front of units stay as digits ("5 kilo").
func isUnit(word string) bool {
	lower := strings.ToLower(word)
	for _, u := range trUnits {
		if strings.HasPrefix(lower, u) {
			return true
		}
	}
	return false
}

// NormalizeNumbers spells out digits the recogniser produced for spoken
// numerals. A number of at most 100 carrying a suffix ("10un", "3'te") is
// always spelled out; a bare number up to 10 is spelled out unless the next
// word is a unit. Everything else is left as digits.
func (Turkish) NormalizeNumbers(text string) string {
	rs := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(rs); {
		if !isASCIIDigit(rs[i]) {
			b.WriteRune(rs[i])
			i++
			continue
		}

		start := i
		for i < len(rs) && isASCIIDigit(rs[i]) {
			i++
		}
		digits := string(rs[start:i])
		n, err := strconv.Atoi(digits)
		if err != nil {
			n = -1
		}

		apostrophe := i < len(rs) && (rs[i] == '\'' || rs[i] == '’')
		if apostrophe {
			i++
		}
		sufStart := i
		for i < len(rs) && unicode.IsLetter(rs[i]) {
			i++
		}
		suffix := string(rs[sufStart:i])

		if suffix != "" && n >= 0 && n <= 100 {
			if w, ok := NumberWord(n); ok {
				b.WriteString(w)
				b.WriteString(suffix)
				continue
			}
		}

		if suffix == "" && n >= 0 && n <= 10 {
			next := ""
			if f := strings.Fields(string(rs[i:])); len(f) > 0 {
				next = f[0]
			}
			if !isUnit(next) {
				if apostrophe {
					b.WriteString(digits)
					b.WriteByte('\'')
				} else {
					w, _ := NumberWord(n)
					b.WriteString(w)
				}
				continue
			}
		}

		b.WriteString(digits)
		if apostrophe {
			b.WriteByte('\'')
		}
		b.WriteString(suffix)
	}
	return b.String()
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

// ── Character repair & dictionary ────────────────────────────────────────────

// Ambiguous short words ("on", "ol", "us", "dis") are deliberately absent.
var trCharFixes = []Replacement{
	{"guc", "güç"}, {"gul", "gül"}, {"goz", "göz"}, {"suc", "suç"},
	{"tum", "tüm"}, {"uc", "üç"}, {"ic", "iç"}, {"soz", "söz"},
	{"yuz", "yüz"}, {"duz", "düz"}, {"bos", "boş"}, {"tas", "taş"},
	{"bas", "baş"}, {"yas", "yaş"}, {"kis", "kış"}, {"kus", "kuş"},
}

func (Turkish) CharFixes() []Replacement { return trCharFixes }

func (Turkish) Dictionary() []Replacement { return trDictionary }

func (Turkish) IsLoanword(word string) bool {
	_, ok := loanwords[strings.ToLower(word)]
	return ok
}

// ── Punctuation ──────────────────────────────────────────────────────────────

var (
	trQuestionSuffixes = set(
		"mi", "mı", "mu", "mü",
		"mısın", "misin", "musun", "müsün",
		"miyiz", "mıyız", "muyuz", "müyüz",
		"mısınız", "misiniz", "musunuz", "müsünüz",
		"mudur", "müdür", "midir", "mıdır",
		"değilmi", "değilmı", "olurmu", "olmuzmu",
		"edermi", "yaparmi", "gelirmi", "gidermi",
	)
	trQuestionWords = set(
		"ne", "neden", "nasıl", "nereye", "nerede", "nereden",
		"kim", "kime", "kimi", "kimin",
		"niçin", "niye", "hangi", "kaç",
		"acaba", "yoksa", "hani", "peki",
	)
	trExclamations = set(
		"eyvah", "aman", "haydi", "bravo", "maşallah",
		"vay", "yuh", "hadi", "aferin",
		"ay", "of", "oha", "aaa", "tüh", "yaşa", "helal",
		"harika", "muhteşem", "süper", "mükemmel", "allah",
		"evet", "tabii", "kesinlikle", "olsun",
	)
	trCommaWords = []string{
		"ama", "fakat", "ancak", "çünkü", "yani", "ayrıca",
		"örneğin", "mesela", "dolayısıyla", "üstelik", "halbuki",
		"oysa", "oysaki", "lakin", "nitekim", "zira",
		"dahası",
	}
	trCommaPhrases = []string{
		"bununla birlikte", "ne var ki", "öte yandan",
		"buna rağmen", "bunun yanında",
	}
	trSplitMarkers = []string{
		" ve ", " sonra ", " ardından ", " daha sonra ",
		" ondan sonra ", " bundan sonra ", " ayrıca ",
		" ancak ", " fakat ", " ama ",
	}
)

// Punctuate ends a sentence with '?' when it closes with a question particle
// or opens with a question word, with '!' when it opens with an
// exclamation, and with '.' otherwise. Sentences that already end in
// terminal punctuation keep it.
func (Turkish) Punctuate(sentence string, commas bool) string {
	s := strings.TrimSpace(sentence)
	if s == "" {
		return ""
	}
	if !EndsWithTerminal(s) {
		lower := strings.ToLower(s)
		first := firstWord(lower)
		_, qs := trQuestionSuffixes[lastWord(lower)]
		_, qw := trQuestionWords[first]
		_, ex := trExclamations[first]
		switch {
		case qs, qw:
			s += "?"
		case ex:
			s += "!"
		default:
			s += "."
		}
	}
	if commas {
		s = trCommas(s)
	}
	return s
}

func trCommas(s string) string {
	for _, w := range trCommaWords {
		s = insertCommaBeforeWord(s, w)
	}
	for _, p := range trCommaPhrases {
		s = insertCommaBeforePhrase(s, p)
	}
	return s
}

func (Turkish) SplitMarkers() []string { return trSplitMarkers }
