package detect

import (
	"github.com/fyrsmithlabs/inklude/internal/annotate"
	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
)

const possessiveDep = "poss"

var (
	subjectForms    = forms("he", "she", "they")
	objectForms     = forms("him", "her", "them")
	possessiveDets  = forms("his", "her", "their")
	possessiveProns = forms("his", "hers", "theirs")
	reflexiveForms  = forms("himself", "herself", "themself", "themselves")
	subjectDeps     = forms("nsubj", "nsubjpass", "csubj", "csubjpass")
	objectDeps      = forms("dobj", "iobj", "pobj", "dative", "obj")
)

func forms(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsTraditionalPronoun reports whether lemma is a he/she/they form.
func IsTraditionalPronoun(lemma string) bool {
	return subjectForms[lemma] || objectForms[lemma] || possessiveDets[lemma] ||
		possessiveProns[lemma] || reflexiveForms[lemma]
}

// PronounDetector classifies pronoun tokens.
type PronounDetector struct {
	neo *neopronoun.Registry
}

// NewPronounDetector creates a detector that consults neo for
// neo-pronoun forms.
func NewPronounDetector(neo *neopronoun.Registry) *PronounDetector {
	return &PronounDetector{neo: neo}
}

// Detect classifies every pronoun token in token order. Neo-pronoun forms
// take their role from the first registered set containing them.
func (d *PronounDetector) Detect(tokens []annotate.Token) []PronounMatch {
	var out []PronounMatch
	for _, tok := range tokens {
		lemma := tok.Lower()
		span := TextSpan{Start: tok.Offset, End: tok.End(), Text: tok.Text}

		if matches := d.neo.Classify(lemma); len(matches) > 0 {
			out = append(out, PronounMatch{
				Span:         span,
				Type:         matches[0].Role,
				Lemma:        lemma,
				IsNeoPronoun: true,
				NeoLabel:     matches[0].Label,
			})
			continue
		}

		if !IsTraditionalPronoun(lemma) {
			continue
		}
		role, ok := ClassifyRole(lemma, tok.Tag, tok.Dep)
		if !ok {
			continue
		}
		out = append(out, PronounMatch{Span: span, Type: role, Lemma: lemma})
	}
	return out
}

// ClassifyRole assigns a grammatical role to a he/she/they form from its
// part-of-speech tag and dependency label.
func ClassifyRole(lemma, tag, dep string) (pronoun.Role, bool) {
	switch {
	case reflexiveForms[lemma]:
		return pronoun.RoleReflexive, true
	case tag == "PRP$" || dep == possessiveDep:
		return pronoun.RolePossessive, true
	case possessiveProns[lemma] && tag == "PRP":
		return pronoun.RolePossessivePronoun, true
	case subjectForms[lemma] && subjectDeps[dep]:
		return pronoun.RoleSubject, true
	case objectForms[lemma]:
		return pronoun.RoleObject, true
	case subjectDeps[dep]:
		return pronoun.RoleSubject, true
	case objectDeps[dep]:
		return pronoun.RoleObject, true
	case subjectForms[lemma]:
		return pronoun.RoleSubject, true
	case possessiveDets[lemma]:
		return pronoun.RolePossessive, true
	case possessiveProns[lemma]:
		return pronoun.RolePossessivePronoun, true
	}
	return "", false
}
