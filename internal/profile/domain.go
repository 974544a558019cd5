package profile

import "strings"

const (
	// domainWindow is how many of the newest texts the classifier reads.
	domainWindow = 100

	// minDomainScore is the weighted keyword score a domain needs before it
	// replaces General.
	minDomainScore = 5
)

var domainKeywords = map[Domain][]string{
	Technical: {"api", "server", "deploy", "bug", "commit", "frontend", "backend",
		"database", "kod", "yazılım", "program", "fonksiyon", "değişken", "class", "git"},
	Medical: {"hasta", "tedavi", "ilaç", "doktor", "ameliyat", "teşhis",
		"reçete", "hastane", "klinik", "semptom", "muayene", "tansiyon"},
	Legal: {"mahkeme", "dava", "avukat", "kanun", "hukuk", "savcı",
		"hakim", "sözleşme", "madde", "ihlal", "karar", "temyiz"},
	Business: {"toplantı", "proje", "rapor", "müşteri", "satış",
		"pazarlama", "bütçe", "strateji", "hedef", "performans", "yönetim"},
}

var explanations = map[Domain]string{
	General:   "Henuz yeterli veri yok veya genel kullanim tespit edildi.",
	Technical: "Teknik terimler yogun kullaniliyor. Yazilim ve teknoloji odakli prompt olusturuluyor.",
	Medical:   "Tibbi terimler tespit edildi. Saglik alani odakli prompt olusturuluyor.",
	Legal:     "Hukuki terimler tespit edildi. Hukuk alani odakli prompt olusturuluyor.",
	Business:  "Is terimleri tespit edildi. Is/yonetim odakli prompt olusturuluyor.",
}

// Scores holds the weighted keyword score of every non-general domain.
type Scores map[Domain]int

// textWeight favours recent texts: the newest 10 count triple, the next 20
// double.
func textWeight(i int) int {
	switch {
	case i < 10:
		return 3
	case i < 30:
		return 2
	default:
		return 1
	}
}

// DetectDomain classifies texts, newest first. Only the newest 100 texts
// are read. Each keyword counts once per text. The highest-scoring domain
// wins if it reaches 5; ties go to the domain listed first in [Domains].
func DetectDomain(texts []string) (Domain, Scores) {
	scores := Scores{Technical: 0, Medical: 0, Legal: 0, Business: 0}
	for i, text := range texts {
		if i >= domainWindow {
			break
		}
		words := make(map[string]struct{})
		for _, w := range strings.Fields(strings.ToLower(text)) {
			words[w] = struct{}{}
		}
		weight := textWeight(i)
		for d, kws := range domainKeywords {
			for _, kw := range kws {
				if _, ok := words[kw]; ok {
					scores[d] += weight
				}
			}
		}
	}

	best, bestScore := General, 0
	for _, d := range Domains[1:] {
		if scores[d] > bestScore {
			best, bestScore = d, scores[d]
		}
	}
	if bestScore < minDomainScore {
		return General, scores
	}
	return best, scores
}

// DomainInfo explains the current classification.
type DomainInfo struct {
	Detected    Domain         `json:"detected"`
	Label       string         `json:"label"`
	Scores      map[string]int `json:"scores"`
	Explanation string         `json:"explanation"`
}

// Info describes d with the scores that produced it. Score keys are the
// domains' English names.
func Info(d Domain, scores Scores) DomainInfo {
	out := make(map[string]int, len(Domains)-1)
	for _, dom := range Domains[1:] {
		out[dom.String()] = scores[dom]
	}
	return DomainInfo{
		Detected:    d,
		Label:       d.Label(),
		Scores:      out,
		Explanation: explanations[d],
	}
}
