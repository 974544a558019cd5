// Package prompt builds the initial prompt handed to the speech recogniser.
//
// The prompt has three layers: a fixed sample sentence set per language, a
// domain-specific addition chosen from the user's detected subject area,
// and the user's own frequent words and bigrams. The result never exceeds
// [MaxLength] bytes.
package prompt

import (
	"strings"
	"unicode/utf8"

	"github.com/MrWong99/dikte/internal/profile"
)

// MaxLength is the prompt size limit in bytes.
const MaxLength = 500

const (
	// minTermRoom is the space that must remain after the fixed layers for
	// user terms to be added at all.
	minTermRoom = 20

	maxTermWords   = 20
	maxTermBigrams = 5
	termSep        = ", "
)

var bases = map[string]string{
	"tr": "Merhaba, bugün hava çok güzel. Nasılsınız? İstanbul çok kalabalık bir şehir. " +
		"Şirketin toplantısında bütçeyi görüştük. Çocuklar okula gidiyor. " +
		"Öğretmen ödevleri kontrol etti. Müşteri memnuniyeti çok önemli. Türkiye'de yaşıyorum.",
	"en": "Hello, how are you today? I'm doing well, thank you.",
	"de": "Hallo, wie geht es Ihnen? Mir geht es gut, danke.",
	"fr": "Bonjour, comment allez-vous? Je vais bien, merci.",
	"es": "Hola, ¿cómo estás? Estoy bien, gracias.",
	"it": "Ciao, come stai? Sto bene, grazie.",
	"pt": "Olá, como vai? Estou bem, obrigado.",
	"ru": "Здравствуйте, как дела? У меня всё хорошо.",
	"ja": "こんにちは、お元気ですか？元気です。",
	"zh": "你好，你怎么样？我很好。",
}

const fallbackBase = "Hello, how are you?"

type domainKey struct {
	domain profile.Domain
	lang   string
}

var additions = map[domainKey]string{
	{profile.Technical, "tr"}: " Meeting'e gidiyorum. Deploy etmemiz lazım. API endpoint düzelt. Sprint planning yapacağız.",
	{profile.Medical, "tr"}:   " Hasta muayene edildi. Tedavi planı hazırlandı. Reçete yazıldı. Tansiyon ölçüldü.",
	{profile.Legal, "tr"}:     " Mahkeme kararı açıklandı. Dava dosyası incelendi. Sözleşme maddeleri düzenlendi.",
	{profile.Business, "tr"}:  " Toplantı raporu hazırlandı. Müşteri görüşmesi yapıldı. Bütçe planlaması tamamlandı.",
	{profile.Technical, "en"}: " Let's deploy the API. Check the server logs. Push the commit.",
}

// Base returns the sample sentences for lang.
func Base(lang string) string {
	if b, ok := bases[lang]; ok {
		return b
	}
	return fallbackBase
}

// DomainAddition returns the sentences added for domain d in lang, or "".
func DomainAddition(d profile.Domain, lang string) string {
	return additions[domainKey{d, lang}]
}

// Preview exposes the prompt layers separately.
type Preview struct {
	BasePrompt     string `json:"base_prompt"`
	DomainAddition string `json:"domain_addition"`
	UserTerms      string `json:"user_terms"`
	TotalLength    int    `json:"total_length"`
	MaxLength      int    `json:"max_length"`
}

// Layers computes the three prompt layers for lang from p.
func Layers(lang string, p profile.Profile) Preview {
	base := Base(lang)
	add := DomainAddition(p.Domain, lang)

	var terms string
	if room := MaxLength - len(base) - len(add); room > minTermRoom {
		terms = userTerms(p, room)
	}

	total := len(base) + len(add)
	if terms != "" {
		total += len(terms) + 1
	}
	return Preview{
		BasePrompt:     base,
		DomainAddition: add,
		UserTerms:      terms,
		TotalLength:    min(total, MaxLength),
		MaxLength:      MaxLength,
	}
}

// Build returns the prompt for lang.
func Build(lang string, p profile.Profile) string {
	l := Layers(lang, p)
	s := l.BasePrompt + l.DomainAddition
	if l.UserTerms != "" {
		s += " " + l.UserTerms
	}
	return Truncate(s, MaxLength)
}

// userTerms joins up to 20 frequent words and then up to 5 bigrams,
// stopping at the first item that would overflow room.
func userTerms(p profile.Profile, room int) string {
	var b strings.Builder
	push := func(term string) bool {
		if b.Len()+len(term)+len(termSep) > room {
			return false
		}
		if b.Len() > 0 {
			b.WriteString(termSep)
		}
		b.WriteString(term)
		return true
	}

	for i, w := range p.FrequentWords {
		if i >= maxTermWords || !push(w) {
			break
		}
	}
	n := 0
	for _, e := range p.Ngrams {
		if n >= maxTermBigrams {
			break
		}
		if len(strings.Fields(e.Ngram)) != 2 {
			continue
		}
		n++
		if !push(e.Ngram) {
			break
		}
	}
	return b.String()
}

// Truncate shortens s to at most limit bytes without splitting a rune. If
// the kept part contains ". ", the cut moves back to just after the last
// such period.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	end := limit
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	if i := strings.LastIndex(s[:end], ". "); i >= 0 {
		end = i + 1
	}
	return s[:end]
}
