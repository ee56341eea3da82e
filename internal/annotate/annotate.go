// Package annotate defines the linguistic annotation consumed by the
// detectors: tokens with part-of-speech and dependency tags, sentence
// boundaries and named-entity spans. All offsets are byte offsets into the
// annotated text.
//
// Annotator is the boundary to the annotation step. RuleAnnotator is a
// deterministic, dependency-free implementation good enough for pronoun
// role classification and person-name recognition in plain prose.
package annotate

import (
	"context"
	"sort"
	"strings"
)

// Entity labels produced by RuleAnnotator.
const (
	LabelPerson = "PERSON"
	LabelOrg    = "ORG"
)

// Token is one annotated token.
type Token struct {
	Text     string `json:"text"`
	Offset   int    `json:"offset"`
	Tag      string `json:"tag"`
	Dep      string `json:"dep"`
	Sentence int    `json:"sentence"`
}

// End returns the offset one past the last byte of the token.
func (t Token) End() int { return t.Offset + len(t.Text) }

// Lower returns the lowercased token text.
func (t Token) Lower() string { return strings.ToLower(t.Text) }

// Sentence is a half-open byte range.
type Sentence struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Entity is a named-entity span.
type Entity struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// IsPerson reports whether the entity denotes a person.
func (e Entity) IsPerson() bool {
	return e.Label == LabelPerson || e.Label == "PER"
}

// Document is the annotation of one text.
type Document struct {
	Text      string     `json:"text"`
	Tokens    []Token    `json:"tokens"`
	Sentences []Sentence `json:"sentences"`
	Entities  []Entity   `json:"entities"`
}

// SentenceOf returns the index of the sentence containing offset, or -1
// when offset falls between sentences or outside the text.
func (d *Document) SentenceOf(offset int) int {
	i := sort.Search(len(d.Sentences), func(i int) bool {
		return d.Sentences[i].End > offset
	})
	if i < len(d.Sentences) && d.Sentences[i].Start <= offset {
		return i
	}
	return -1
}

// Hints carry caller knowledge that improves annotation without changing
// token boundaries.
type Hints struct {
	// KnownNames are lowercased person names, typically the keys of the
	// caller's identity map.
	KnownNames []string
}

// Annotator produces a Document for a text.
type Annotator interface {
	Annotate(ctx context.Context, text string, hints Hints) (*Document, error)
}
