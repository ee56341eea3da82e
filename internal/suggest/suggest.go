// Package suggest turns detector and resolver output into user-facing
// issues with ranked replacement suggestions, phrased in one of several
// tones.
package suggest

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/inklude/internal/coref"
	"github.com/fyrsmithlabs/inklude/internal/detect"
	"github.com/fyrsmithlabs/inklude/internal/lexicon"
)

// Tone selects how explanations are phrased.
type Tone string

const (
	ToneGentle         Tone = "gentle"
	ToneDirect         Tone = "direct"
	ToneResearchBacked Tone = "research_backed"
)

// Tones lists every tone.
var Tones = []Tone{ToneGentle, ToneDirect, ToneResearchBacked}

// ParseTone returns the tone named s, or false.
func ParseTone(s string) (Tone, bool) {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tones {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Category classifies a detected issue.
type Category string

const (
	CategoryGenderedLanguage      Category = "gendered_language"
	CategoryMisgendering          Category = "misgendering"
	CategoryGenderedTitle         Category = "gendered_title"
	CategoryGenderedColloquialism Category = "gendered_colloquialism"
	CategoryGenderedSalutation    Category = "gendered_salutation"
)

// Severity of a detected issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// GenderedConfidence is the confidence of every lexicon replacement.
const GenderedConfidence = 0.9

// Suggestion is one replacement for an issue.
type Suggestion struct {
	Replacement string  `json:"replacement"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
}

// Issue is a user-facing finding.
type Issue struct {
	Span        detect.TextSpan `json:"span"`
	Category    Category        `json:"category"`
	Severity    Severity        `json:"severity"`
	Message     string          `json:"message"`
	Suggestions []Suggestion    `json:"suggestions"`
}

var categoryByLexicon = map[lexicon.Category]Category{
	lexicon.CategoryJobTitle:      CategoryGenderedTitle,
	lexicon.CategorySalutation:    CategoryGenderedSalutation,
	lexicon.CategoryColloquialism: CategoryGenderedColloquialism,
	lexicon.CategoryCompound:      CategoryGenderedColloquialism,
}

// CategoryFor maps a lexicon category to an issue category.
func CategoryFor(c lexicon.Category) Category {
	if cat, ok := categoryByLexicon[c]; ok {
		return cat
	}
	return CategoryGenderedLanguage
}

func genderedMessage(tone Tone, term, alt, note string) string {
	var msg string
	switch tone {
	case ToneDirect:
		msg = fmt.Sprintf("\"%s\" is gendered language. Use \"%s\" instead. %s", term, alt, note)
	case ToneResearchBacked:
		msg = fmt.Sprintf("Studies show that gendered language can reinforce stereotypes and create exclusionary environments. Replace \"%s\" with \"%s\". %s", term, alt, note)
	default:
		msg = fmt.Sprintf("Consider using \"%s\" instead of \"%s\". %s", alt, term, note)
	}
	return strings.TrimSpace(msg)
}

func misgenderingMessage(tone Tone, name, expected, used string) string {
	switch tone {
	case ToneDirect:
		return fmt.Sprintf("%s's pronouns are %s. \"%s\" is incorrect. Please update.", name, expected, used)
	case ToneResearchBacked:
		return fmt.Sprintf("Using someone's correct pronouns is a fundamental sign of respect. Research shows that misgendering causes measurable psychological harm. %s uses %s pronouns, so please replace \"%s\".", name, expected, used)
	default:
		return fmt.Sprintf("It looks like %s uses %s pronouns. You wrote \"%s\". Would you like to update it?", name, expected, used)
	}
}

// FromGendered builds an issue for a lexicon match: one suggestion per
// alternative, and a headline message using the first alternative. With no
// alternatives the matched text stands in for one.
func FromGendered(m detect.GenderedMatch, tone Tone) Issue {
	entry := m.Entry
	term := m.Span.Text

	first := term
	if len(entry.Alternatives) > 0 {
		first = entry.Alternatives[0]
	}

	suggestions := make([]Suggestion, 0, len(entry.Alternatives))
	for _, alt := range entry.Alternatives {
		suggestions = append(suggestions, Suggestion{
			Replacement: alt,
			Explanation: genderedMessage(tone, term, alt, entry.Note),
			Confidence:  GenderedConfidence,
		})
	}

	return Issue{
		Span:        m.Span,
		Category:    CategoryFor(entry.Category),
		Severity:    Severity(entry.Severity),
		Message:     genderedMessage(tone, term, first, entry.Note),
		Suggestions: suggestions,
	}
}

// FromMisgendering builds a high-severity issue for a misgendering flag
// with one suggestion per expected form.
func FromMisgendering(f coref.Flag, tone Tone) Issue {
	msg := misgenderingMessage(tone, f.PersonName, strings.Join(f.ExpectedPronouns, "/"), f.UsedPronoun)

	suggestions := make([]Suggestion, 0, len(f.ExpectedPronouns))
	for _, form := range f.ExpectedPronouns {
		suggestions = append(suggestions, Suggestion{
			Replacement: form,
			Explanation: msg,
			Confidence:  f.Confidence,
		})
	}

	return Issue{
		Span:        f.Pronoun.Span,
		Category:    CategoryMisgendering,
		Severity:    SeverityHigh,
		Message:     msg,
		Suggestions: suggestions,
	}
}
