// Package profile accumulates per-user usage statistics from finished
// transcripts: n-gram counts, the most frequent content words, and the
// subject domain the user most often dictates about. The statistics feed
// the recogniser prompt built by package prompt.
package profile

import (
	"encoding/json"
	"fmt"
)

// Domain is the subject area inferred from the user's transcripts.
type Domain int

const (
	General Domain = iota
	Technical
	Medical
	Legal
	Business
)

// Domains lists every domain in classification priority order.
var Domains = [...]Domain{General, Technical, Medical, Legal, Business}

var domainNames = [...]string{"General", "Technical", "Medical", "Legal", "Business"}

// Display labels shown to the user.
var domainLabels = [...]string{"Genel", "Teknik", "Tibbi", "Hukuki", "Is"}

// String returns the English name used on the wire.
func (d Domain) String() string {
	if d < 0 || int(d) >= len(domainNames) {
		return fmt.Sprintf("Domain(%d)", int(d))
	}
	return domainNames[d]
}

// Label returns the localised display name.
func (d Domain) Label() string {
	if d < 0 || int(d) >= len(domainLabels) {
		return domainLabels[General]
	}
	return domainLabels[d]
}

// ParseDomain resolves an English domain name.
func ParseDomain(name string) (Domain, bool) {
	for i, n := range domainNames {
		if n == name {
			return Domain(i), true
		}
	}
	return General, false
}

// MarshalText implements [encoding.TextMarshaler].
func (d Domain) MarshalText() ([]byte, error) {
	if d < 0 || int(d) >= len(domainNames) {
		return nil, fmt.Errorf("profile: invalid domain %d", int(d))
	}
	return []byte(domainNames[d]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Unknown names decode
// as General.
func (d *Domain) UnmarshalText(b []byte) error {
	*d, _ = ParseDomain(string(b))
	return nil
}

// NgramEntry is a lowercase word sequence and how often it was seen.
type NgramEntry struct {
	Ngram string `json:"ngram"`
	Count uint32 `json:"count"`
}

// Profile is the persisted usage summary of one user.
type Profile struct {
	Domain              Domain       `json:"domain"`
	FrequentWords       []string     `json:"frequent_words"`
	Ngrams              []NgramEntry `json:"ngrams"`
	TotalTranscriptions uint32       `json:"total_transcriptions"`
	TotalCorrections    uint32       `json:"total_corrections"`
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	c := p
	c.FrequentWords = append([]string(nil), p.FrequentWords...)
	c.Ngrams = append([]NgramEntry(nil), p.Ngrams...)
	return c
}

// Decode parses a serialised profile.
func Decode(data []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("profile: decode: %w", err)
	}
	return p, nil
}
