// Package detect finds gendered terminology and pronouns in annotated
// text. Detectors are stateless apart from their registries and are safe
// for concurrent use.
package detect

import (
	"github.com/fyrsmithlabs/inklude/internal/lexicon"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
)

// TextSpan is a half-open byte range into the analysed text together with
// the text it covers.
type TextSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// NewSpan slices text. The caller guarantees 0 <= start <= end <= len(text).
func NewSpan(text string, start, end int) TextSpan {
	return TextSpan{Start: start, End: end, Text: text[start:end]}
}

// Overlaps reports whether the spans share at least one byte.
func (s TextSpan) Overlaps(start, end int) bool {
	return s.Start < end && start < s.End
}

// ValidIn reports whether s is non-empty, lies within text and covers
// exactly s.Text.
func (s TextSpan) ValidIn(text string) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= len(text) && text[s.Start:s.End] == s.Text
}

// GenderedMatch is an occurrence of a lexicon term. Suppressed matches
// coincide with a named entity and are kept for auditing.
type GenderedMatch struct {
	Span       TextSpan      `json:"span"`
	Entry      lexicon.Entry `json:"entry"`
	Suppressed bool          `json:"suppressed"`
}

// PronounMatch is a classified pronoun occurrence. NeoLabel names the set a
// neo-pronoun was classified under.
type PronounMatch struct {
	Span         TextSpan     `json:"span"`
	Type         pronoun.Role `json:"pronoun_type"`
	Lemma        string       `json:"lemma"`
	IsNeoPronoun bool         `json:"is_neo_pronoun"`
	NeoLabel     string       `json:"neo_label,omitempty"`
}
