package locale

import "golang.org/x/text/language"

// Generic is used for languages without dedicated rules. It only makes sure
// each sentence ends in terminal punctuation. Learning falls back to the
// Turkish stop list and suffixes, matching the behaviour of the learner
// before per-language rules existed.
type Generic struct {
	code string
}

var _ Locale = Generic{}

func (g Generic) Code() string { return g.code }

// Tag parses the code; unparsable codes map to [language.Und].
func (g Generic) Tag() language.Tag {
	t, err := language.Parse(g.code)
	if err != nil {
		return language.Und
	}
	return t
}

func (Generic) IsStopword(word string) bool              { return Turkish{}.IsStopword(word) }
func (Generic) StripSuffix(word string) (string, string) { return Turkish{}.StripSuffix(word) }
func (Generic) NormalizeNumbers(text string) string      { return text }
func (Generic) CharFixes() []Replacement                 { return nil }
func (Generic) Dictionary() []Replacement                { return nil }
func (Generic) IsLoanword(string) bool                   { return false }
func (Generic) SplitMarkers() []string                   { return trSplitMarkers }

func (Generic) Punctuate(sentence string, _ bool) string {
	return ensureTerminal(sentence)
}
