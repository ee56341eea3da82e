package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/inklude/internal/annotate"
	"github.com/fyrsmithlabs/inklude/internal/lexicon"
)

func newGenderedDetector(t *testing.T) *GenderedDetector {
	t.Helper()
	lex, err := lexicon.Load()
	require.NoError(t, err)
	return NewGenderedDetector(lex)
}

func terms(matches []GenderedMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Entry.Term
	}
	return out
}

func TestGenderedDetect(t *testing.T) {
	d := newGenderedDetector(t)

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"empty", "", nil},
		{"clean", "The team finished the quarterly report ahead of schedule.", nil},
		{"longest phrase wins", "dear sir or madam,", []string{"dear sir or madam"}},
		{"longest phrase wins capitalised", "Dear Sir or Madam, hello.", []string{"dear sir or madam"}},
		{"shorter phrase alone", "Dear Sir, hello.", []string{"dear sir"}},
		{"greeting before plural", "Hey guys, welcome.", []string{"hey guys"}},
		{"ladies and gentlemen", "Ladies and gentlemen, ladies first.", []string{"ladies and gentlemen", "ladies"}},
		{"several terms sorted by position", "Our chairman thanked the fireman.", []string{"chairman", "fireman"}},
		{"whole words only", "The chairmanship and unmanned mastery.", nil},
		{"hyphenated term", "A man-made lake.", []string{"man-made"}},
		{"trailing period term", "Ask Mr. Davis.", []string{"mr."}},
		{"period term needs boundary", "Ask Mr.Davis.", nil},
		{"underscore is a word character", "chairman_id", nil},
		{"digits are word characters", "chairman2", nil},
		{"unicode neighbours", "éfireman fireman", []string{"fireman"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := d.Detect(tt.text, nil)
			if tt.expected == nil {
				assert.Empty(t, matches)
				return
			}
			assert.Equal(t, tt.expected, terms(matches))
		})
	}
}

func TestGenderedDetectSpanFidelity(t *testing.T) {
	d := newGenderedDetector(t)
	text := "Héllo Chairman! The FIREMAN, the Salesman, and a stewardess met. Hey guys, man up."

	matches := d.Detect(text, nil)
	require.Len(t, matches, 6)
	for i, m := range matches {
		assert.True(t, m.Span.ValidIn(text), "match %d %+v", i, m.Span)
		assert.Equal(t, text[m.Span.Start:m.Span.End], m.Span.Text)
		if i > 0 {
			assert.Less(t, matches[i-1].Span.End, m.Span.Start+1)
		}
	}
	assert.Equal(t, "Chairman", matches[0].Span.Text)
	assert.Equal(t, "FIREMAN", matches[1].Span.Text)
}

func TestGenderedDetectOverlap(t *testing.T) {
	d := newGenderedDetector(t)

	matches := d.Detect("dear sir or madam,", nil)
	require.Len(t, matches, 1)
	assert.Equal(t, TextSpan{Start: 0, End: 17, Text: "dear sir or madam"}, matches[0].Span)

	for _, m := range d.Detect("A manmade disaster struck.", nil) {
		assert.NotEqual(t, "manmade", m.Entry.Term)
	}
}

func TestGenderedDetectSuppression(t *testing.T) {
	d := newGenderedDetector(t)

	t.Run("person entity", func(t *testing.T) {
		text := "Guy Fieri makes food."
		entities := []annotate.Entity{{Label: annotate.LabelPerson, Start: 0, End: 9, Text: "Guy Fieri"}}
		for _, m := range d.Detect(text, entities) {
			if m.Span.Overlaps(0, 9) {
				assert.True(t, m.Suppressed)
			}
		}
	})

	t.Run("partial overlap suppresses", func(t *testing.T) {
		text := "Ask Sam Chairman today about the fireman."
		entities := []annotate.Entity{{Label: annotate.LabelPerson, Start: 4, End: 16, Text: "Sam Chairman"}}

		matches := d.Detect(text, entities)
		require.Len(t, matches, 2)
		assert.Equal(t, "chairman", matches[0].Entry.Term)
		assert.True(t, matches[0].Suppressed)
		assert.Equal(t, "fireman", matches[1].Entry.Term)
		assert.False(t, matches[1].Suppressed)
	})

	t.Run("any entity label suppresses", func(t *testing.T) {
		text := "Salesman Partners LLC hired staff."
		entities := []annotate.Entity{{Label: annotate.LabelOrg, Start: 0, End: 21, Text: "Salesman Partners LLC"}}

		matches := d.Detect(text, entities)
		require.Len(t, matches, 1)
		assert.True(t, matches[0].Suppressed)
	})

	t.Run("adjacent entity does not suppress", func(t *testing.T) {
		text := "Mr. Davis arrived."
		entities := []annotate.Entity{{Label: annotate.LabelPerson, Start: 4, End: 9, Text: "Davis"}}

		matches := d.Detect(text, entities)
		require.Len(t, matches, 1)
		assert.False(t, matches[0].Suppressed)
	})
}

func TestGenderedDetectWithAnnotator(t *testing.T) {
	d := newGenderedDetector(t)
	a := annotate.NewRuleAnnotator()

	text := "Guy Fieri makes food. Hey guys!"
	doc, err := a.Annotate(t.Context(), text, annotate.Hints{})
	require.NoError(t, err)

	matches := d.Detect(text, doc.Entities)
	var active []GenderedMatch
	for _, m := range matches {
		if !m.Suppressed {
			active = append(active, m)
		}
		assert.NotContains(t, []string{"Guy", "guy"}, m.Span.Text)
	}
	require.Len(t, active, 1)
	assert.Equal(t, "Hey guys", active[0].Span.Text)
}

func TestFindRestartsAfterBoundaryFailure(t *testing.T) {
	lex, err := lexicon.Parse([]byte(`entries:
  - term: "mr."
    alternatives: ["Mx."]
    category: honorific
    severity: low
`))
	require.NoError(t, err)
	d := NewGenderedDetector(lex)

	matches := d.Detect("mmr. Mr. x", nil)
	require.Len(t, matches, 1)
	assert.Equal(t, TextSpan{Start: 5, End: 8, Text: "Mr."}, matches[0].Span)
}
