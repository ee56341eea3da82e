// Package coref links pronouns to the person mentions they most likely
// refer to and checks those links against people's stated pronouns.
//
// Resolution is positional: a pronoun refers to the closest person
// mention that starts before it in the same or the immediately preceding
// sentence. Every function here is pure.
package coref

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/fyrsmithlabs/inklude/internal/annotate"
	"github.com/fyrsmithlabs/inklude/internal/detect"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
)

// Link confidences by sentence distance.
const (
	SameSentenceConfidence     = 0.8
	PreviousSentenceConfidence = 0.5
)

// Link ties a pronoun to its antecedent.
type Link struct {
	Pronoun        detect.PronounMatch `json:"pronoun"`
	AntecedentText string              `json:"antecedent_text"`
	AntecedentSpan detect.TextSpan     `json:"antecedent_span"`
	Confidence     float64             `json:"confidence"`
}

// Flag reports a pronoun that does not match the stated pronouns of the
// person it refers to.
type Flag struct {
	Pronoun          detect.PronounMatch `json:"pronoun"`
	PersonName       string              `json:"person_name"`
	UsedPronoun      string              `json:"used_pronoun"`
	ExpectedPronouns []string            `json:"expected_pronouns"`
	Confidence       float64             `json:"confidence"`
}

// IdentityMap maps folded person names to their stated pronoun sets.
type IdentityMap map[string][]pronoun.Forms

// NewIdentityMap folds the names and lowercases the forms of m. Entries
// whose forms are all empty are dropped.
func NewIdentityMap(m map[string][]pronoun.Forms) IdentityMap {
	out := make(IdentityMap, len(m))
	for name, sets := range m {
		key := NameKey(name)
		if key == "" {
			continue
		}
		for _, f := range sets {
			if f.Empty() {
				continue
			}
			out[key] = append(out[key], f.Lower())
		}
	}
	return out
}

// Names returns the folded names in sorted order.
func (m IdentityMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NameKey case-folds a person name and collapses inner whitespace.
func NameKey(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// ResolveOne returns the best antecedent for p among the person entities,
// or false when none starts before p in its own or the previous sentence.
// Among eligible entities the one ending closest to p wins; the first
// entity wins ties.
func ResolveOne(p detect.PronounMatch, entities []annotate.Entity, sentences []annotate.Sentence) (Link, bool) {
	doc := annotate.Document{Sentences: sentences}
	pSent := doc.SentenceOf(p.Span.Start)
	if pSent < 0 {
		return Link{}, false
	}

	var (
		best     Link
		found    bool
		bestDist int
	)
	for _, e := range entities {
		if !e.IsPerson() || e.Start >= p.Span.Start {
			continue
		}
		var confidence float64
		switch doc.SentenceOf(e.Start) {
		case pSent:
			confidence = SameSentenceConfidence
		case pSent - 1:
			confidence = PreviousSentenceConfidence
		default:
			continue
		}
		dist := p.Span.Start - e.End
		if found && dist >= bestDist {
			continue
		}
		best = Link{
			Pronoun:        p,
			AntecedentText: e.Text,
			AntecedentSpan: detect.TextSpan{Start: e.Start, End: e.End, Text: e.Text},
			Confidence:     confidence,
		}
		bestDist = dist
		found = true
	}
	return best, found
}

// Resolve links every pronoun that has an antecedent, in pronoun order.
func Resolve(pronouns []detect.PronounMatch, entities []annotate.Entity, sentences []annotate.Sentence) []Link {
	var links []Link
	for _, p := range pronouns {
		if link, ok := ResolveOne(p, entities, sentences); ok {
			links = append(links, link)
		}
	}
	return links
}

// CheckMisgendering flags links whose pronoun is not among the forms the
// antecedent uses for that role. Unknown people and roles the person has
// not specified are skipped.
func CheckMisgendering(links []Link, identities IdentityMap) []Flag {
	var flags []Flag
	for _, link := range links {
		sets, ok := identities[NameKey(link.AntecedentText)]
		if !ok {
			continue
		}
		acceptable := acceptableForms(sets, link.Pronoun.Type)
		if len(acceptable) == 0 {
			continue
		}
		if _, ok := acceptable[link.Pronoun.Lemma]; ok {
			continue
		}
		expected := make([]string, 0, len(acceptable))
		for form := range acceptable {
			expected = append(expected, form)
		}
		sort.Strings(expected)
		flags = append(flags, Flag{
			Pronoun:          link.Pronoun,
			PersonName:       link.AntecedentText,
			UsedPronoun:      link.Pronoun.Lemma,
			ExpectedPronouns: expected,
			Confidence:       link.Confidence,
		})
	}
	return flags
}

func acceptableForms(sets []pronoun.Forms, role pronoun.Role) map[string]struct{} {
	out := make(map[string]struct{})
	for _, f := range sets {
		if form := strings.ToLower(strings.TrimSpace(f.Get(role))); form != "" {
			out[form] = struct{}{}
		}
	}
	return out
}
