package annotate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotate(t *testing.T, text string, hints Hints) *Document {
	t.Helper()
	doc, err := NewRuleAnnotator().Annotate(context.Background(), text, hints)
	require.NoError(t, err)
	return doc
}

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}

func find(t *testing.T, doc *Document, text string, nth int) Token {
	t.Helper()
	for _, tok := range doc.Tokens {
		if tok.Text == text {
			if nth == 0 {
				return tok
			}
			nth--
		}
	}
	t.Fatalf("token %q not found", text)
	return Token{}
}

func TestTokenize(t *testing.T) {
	text := "Alex's dog, isn't it? Zir co-worker paid 3.50 ; fine."
	doc := annotate(t, text, Hints{})

	assert.Equal(t, []string{
		"Alex", "'s", "dog", ",", "isn't", "it", "?",
		"Zir", "co-worker", "paid", "3.50", ";", "fine", ".",
	}, texts(doc.Tokens))

	for _, tok := range doc.Tokens {
		assert.Equal(t, tok.Text, text[tok.Offset:tok.End()])
	}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		sentences []string
	}{
		{
			name:      "simple",
			text:      "Alex finished the report. He did a great job.",
			sentences: []string{"Alex finished the report.", "He did a great job."},
		},
		{
			name:      "title abbreviation",
			text:      "Mr. Davis arrived. He sat down!",
			sentences: []string{"Mr. Davis arrived.", "He sat down!"},
		},
		{
			name:      "initials and e.g.",
			text:      "J. R. Smith wrote it, e.g. the memo. Then she left?! Fine",
			sentences: []string{"J. R. Smith wrote it, e.g. the memo.", "Then she left?!", "Fine"},
		},
		{
			name:      "closing quote",
			text:      `She said "stop." They stopped.`,
			sentences: []string{`She said "stop."`, "They stopped."},
		},
		{
			name:      "paragraph break",
			text:      "First line\n\nSecond line",
			sentences: []string{"First line", "Second line"},
		},
		{
			name: "empty",
			text: "   ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := annotate(t, tt.text, Hints{})
			var got []string
			for _, s := range doc.Sentences {
				got = append(got, tt.text[s.Start:s.End])
			}
			assert.Equal(t, tt.sentences, got)

			for _, tok := range doc.Tokens {
				s := doc.Sentences[tok.Sentence]
				assert.True(t, tok.Offset >= s.Start && tok.End() <= s.End, "token %q outside its sentence", tok.Text)
			}
		})
	}
}

func TestSentenceOf(t *testing.T) {
	text := "Alex left. Sam stayed."
	doc := annotate(t, text, Hints{})

	assert.Equal(t, 0, doc.SentenceOf(0))
	assert.Equal(t, 0, doc.SentenceOf(9))
	assert.Equal(t, -1, doc.SentenceOf(10))
	assert.Equal(t, 1, doc.SentenceOf(11))
	assert.Equal(t, -1, doc.SentenceOf(len(text)))
}

func TestPronounTags(t *testing.T) {
	tests := []struct {
		name string
		text string
		word string
		nth  int
		tag  string
		dep  string
	}{
		{"subject", "She gave her book to him.", "She", 0, "PRP", "nsubj"},
		{"possessive determiner", "She gave her book to him.", "her", 0, "PRP$", "poss"},
		{"prepositional object", "She gave her book to him.", "him", 0, "PRP", "pobj"},
		{"direct object her", "I saw her.", "her", 0, "PRP", "dobj"},
		{"indirect object her", "I gave her the book.", "her", 0, "PRP", "dobj"},
		{"her before adverb", "I saw her yesterday.", "her", 0, "PRP", "dobj"},
		{"standalone possessive", "The book is hers.", "hers", 0, "PRP", "attr"},
		{"his standalone", "The idea was his.", "his", 0, "PRP", "attr"},
		{"his determiner", "His idea won.", "His", 0, "PRP$", "poss"},
		{"their", "They lost their keys.", "their", 0, "PRP$", "poss"},
		{"reflexive", "They paid for themselves.", "themselves", 0, "PRP", "pobj"},
		{"object them", "We thanked them.", "them", 0, "PRP", "dobj"},
		{"non-pronoun", "We thanked them.", "thanked", 0, "VBD", "dep"},
		{"punctuation", "We thanked them.", ".", 0, ".", "punct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := annotate(t, tt.text, Hints{})
			tok := find(t, doc, tt.word, tt.nth)
			assert.Equal(t, tt.tag, tok.Tag)
			assert.Equal(t, tt.dep, tok.Dep)
		})
	}
}

func TestEntities(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		hints    Hints
		expected []Entity
	}{
		{
			name:     "two-word name at sentence start",
			text:     "Guy Fieri makes food.",
			expected: []Entity{{Label: LabelPerson, Start: 0, End: 9, Text: "Guy Fieri"}},
		},
		{
			name:     "known given name at sentence start",
			text:     "Alex finished the report. He did a great job.",
			expected: []Entity{{Label: LabelPerson, Start: 0, End: 4, Text: "Alex"}},
		},
		{
			name:     "unknown capitalised word at sentence start",
			text:     "Yesterday the team met.",
			expected: nil,
		},
		{
			name:     "leading capitalised word dropped",
			text:     "Yesterday Jordan Lee called.",
			expected: []Entity{{Label: LabelPerson, Start: 10, End: 20, Text: "Jordan Lee"}},
		},
		{
			name:     "mid-sentence name",
			text:     "I met Thandiwe at lunch on Monday.",
			expected: []Entity{{Label: LabelPerson, Start: 6, End: 14, Text: "Thandiwe"}},
		},
		{
			name:     "title stripped",
			text:     "Mr. Davis arrived.",
			expected: []Entity{{Label: LabelPerson, Start: 4, End: 9, Text: "Davis"}},
		},
		{
			name:     "salutation is not an entity",
			text:     "Dear Sir or Madam, thank you.",
			expected: nil,
		},
		{
			name:     "salutation followed by a name",
			text:     "Dear Alex, thank you.",
			expected: []Entity{{Label: LabelPerson, Start: 5, End: 9, Text: "Alex"}},
		},
		{
			name: "organisation suffix",
			text: "Acme Corp hired Sam.",
			expected: []Entity{
				{Label: LabelOrg, Start: 0, End: 9, Text: "Acme Corp"},
				{Label: LabelPerson, Start: 16, End: 19, Text: "Sam"},
			},
		},
		{
			name:     "unknown single name without hint",
			text:     "Thandiwe left early.",
			expected: nil,
		},
		{
			name:     "unknown single name with hint",
			text:     "Thandiwe left early.",
			hints:    Hints{KnownNames: []string{" thandiwe "}},
			expected: []Entity{{Label: LabelPerson, Start: 0, End: 8, Text: "Thandiwe"}},
		},
		{
			name:     "possessive clitic excluded",
			text:     "We read Alex's notes.",
			expected: []Entity{{Label: LabelPerson, Start: 8, End: 12, Text: "Alex"}},
		},
		{
			name: "runs stop at sentence boundaries",
			text: "We called Sam. Riley answered.",
			expected: []Entity{
				{Label: LabelPerson, Start: 10, End: 13, Text: "Sam"},
				{Label: LabelPerson, Start: 15, End: 20, Text: "Riley"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := annotate(t, tt.text, tt.hints)
			assert.Equal(t, tt.expected, doc.Entities)
			for _, e := range doc.Entities {
				assert.Equal(t, e.Text, tt.text[e.Start:e.End])
			}
		})
	}
}

func TestExtraNames(t *testing.T) {
	a := NewRuleAnnotator(WithNames("Thandiwe"))
	doc, err := a.Annotate(context.Background(), "Thandiwe left early.", Hints{})
	require.NoError(t, err)
	require.Len(t, doc.Entities, 1)
	assert.True(t, doc.Entities[0].IsPerson())
}

func TestCommonWordsAreNotEntities(t *testing.T) {
	a := NewRuleAnnotator(WithCommonWords("fireman", "ladies and gentlemen", "chairman"))

	tests := []struct {
		name  string
		text  string
		hints Hints
		want  []string
	}{
		{name: "mid-sentence common word", text: "We spoke to the Fireman yesterday.", want: nil},
		{name: "phrase words", text: "Ladies and Gentlemen, welcome.", want: nil},
		{name: "common word before a name", text: "We met the Fireman Sam Jones.", want: []string{"Fireman Sam Jones"}},
		{name: "hinted name", text: "We spoke to the Fireman yesterday.", hints: Hints{KnownNames: []string{"fireman"}}, want: []string{"Fireman"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := a.Annotate(context.Background(), tt.text, tt.hints)
			require.NoError(t, err)
			var got []string
			for _, e := range doc.Entities {
				got = append(got, e.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnnotateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRuleAnnotator().Annotate(ctx, "text", Hints{})
	assert.ErrorIs(t, err, context.Canceled)
}
