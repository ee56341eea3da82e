package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/inklude/internal/annotate"
	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
)

func newPronounDetector(t *testing.T) *PronounDetector {
	t.Helper()
	neo, err := neopronoun.NewBuiltinRegistry()
	require.NoError(t, err)
	return NewPronounDetector(neo)
}

func detectPronouns(t *testing.T, d *PronounDetector, text string) []PronounMatch {
	t.Helper()
	doc, err := annotate.NewRuleAnnotator().Annotate(t.Context(), text, annotate.Hints{})
	require.NoError(t, err)
	return d.Detect(doc.Tokens)
}

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		lemma, tag, dep string
		expected        pronoun.Role
	}{
		{"themselves", "PRP", "dobj", pronoun.RoleReflexive},
		{"herself", "PRP", "nsubj", pronoun.RoleReflexive},
		{"her", "PRP$", "poss", pronoun.RolePossessive},
		{"their", "PRP$", "", pronoun.RolePossessive},
		{"his", "NN", "poss", pronoun.RolePossessive},
		{"his", "PRP", "attr", pronoun.RolePossessivePronoun},
		{"hers", "PRP", "attr", pronoun.RolePossessivePronoun},
		{"she", "PRP", "nsubj", pronoun.RoleSubject},
		{"they", "PRP", "nsubjpass", pronoun.RoleSubject},
		{"her", "PRP", "dobj", pronoun.RoleObject},
		{"him", "PRP", "nsubj", pronoun.RoleObject},
		{"them", "PRP", "", pronoun.RoleObject},
		{"they", "PRP", "dobj", pronoun.RoleObject},
		{"hers", "NN", "nsubj", pronoun.RoleSubject},
		{"theirs", "NN", "pobj", pronoun.RoleObject},
		{"he", "", "", pronoun.RoleSubject},
		{"their", "", "", pronoun.RolePossessive},
		{"theirs", "", "", pronoun.RolePossessivePronoun},
	}
	for _, tt := range tests {
		t.Run(tt.lemma+"/"+tt.tag+"/"+tt.dep, func(t *testing.T) {
			role, ok := ClassifyRole(tt.lemma, tt.tag, tt.dep)
			require.True(t, ok)
			assert.Equal(t, tt.expected, role)
		})
	}

	_, ok := ClassifyRole("table", "NN", "dobj")
	assert.True(t, ok, "dependency fallback applies to any lemma")
	_, ok = ClassifyRole("table", "NN", "dep")
	assert.False(t, ok)
}

func TestPronounDetect(t *testing.T) {
	d := newPronounDetector(t)
	text := "She told him that her book was hers, and they hurt themselves."

	matches := detectPronouns(t, d, text)
	type got struct {
		text string
		role pronoun.Role
	}
	var results []got
	for _, m := range matches {
		assert.True(t, m.Span.ValidIn(text))
		assert.False(t, m.IsNeoPronoun)
		results = append(results, got{m.Span.Text, m.Type})
	}
	assert.Equal(t, []got{
		{"She", pronoun.RoleSubject},
		{"him", pronoun.RoleObject},
		{"her", pronoun.RolePossessive},
		{"hers", pronoun.RolePossessivePronoun},
		{"they", pronoun.RoleSubject},
		{"themselves", pronoun.RoleReflexive},
	}, results)
	assert.Equal(t, "she", matches[0].Lemma)
}

func TestPronounDetectNeoPronouns(t *testing.T) {
	d := newPronounDetector(t)
	text := "Ze finished. I thanked zir. Xyr notes were xyrs."

	matches := detectPronouns(t, d, text)
	require.Len(t, matches, 4)
	for _, m := range matches {
		assert.True(t, m.IsNeoPronoun)
		assert.True(t, m.Span.ValidIn(text))
	}

	assert.Equal(t, "ze", matches[0].Lemma)
	assert.Equal(t, pronoun.RoleSubject, matches[0].Type)
	assert.Equal(t, "ze/hir", matches[0].NeoLabel)

	assert.Equal(t, "zir", matches[1].Lemma)
	assert.Equal(t, pronoun.RoleObject, matches[1].Type)
	assert.Equal(t, "ze/zir", matches[1].NeoLabel)

	assert.Equal(t, "Xyr", matches[2].Span.Text)
	assert.Equal(t, pronoun.RolePossessive, matches[2].Type)
	assert.Equal(t, pronoun.RolePossessivePronoun, matches[3].Type)
}

func TestPronounDetectOrderAndEmpty(t *testing.T) {
	d := newPronounDetector(t)

	assert.Empty(t, detectPronouns(t, d, ""))
	assert.Empty(t, detectPronouns(t, d, "The team finished the quarterly report ahead of schedule."))

	matches := detectPronouns(t, d, "They said he would call them, but she did.")
	for i := 1; i < len(matches); i++ {
		assert.Less(t, matches[i-1].Span.Start, matches[i].Span.Start)
	}
}

func TestPronounDetectRuntimeRegistration(t *testing.T) {
	neo, err := neopronoun.NewRegistry()
	require.NoError(t, err)
	d := NewPronounDetector(neo)

	assert.Empty(t, detectPronouns(t, d, "Vy left early."))

	_, err = neo.Register(neopronoun.Set{
		Forms: pronoun.Forms{
			Subject: "vy", Object: "vym", Possessive: "vyr", PossessivePronoun: "vyrs", Reflexive: "vymself",
		},
		Label:      "vy/vym",
		Popularity: neopronoun.PopularityEmerging,
	})
	require.NoError(t, err)

	matches := detectPronouns(t, d, "Vy left early.")
	require.Len(t, matches, 1)
	assert.Equal(t, "Vy", matches[0].Span.Text)
	assert.True(t, matches[0].IsNeoPronoun)
}
