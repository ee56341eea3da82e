package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/inklude/internal/coref"
	"github.com/fyrsmithlabs/inklude/internal/detect"
	"github.com/fyrsmithlabs/inklude/internal/lexicon"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
)

func chairmanMatch() detect.GenderedMatch {
	return detect.GenderedMatch{
		Span: detect.TextSpan{Start: 4, End: 12, Text: "Chairman"},
		Entry: lexicon.Entry{
			Term:         "chairman",
			Alternatives: []string{"chairperson", "chair"},
			Category:     lexicon.CategoryJobTitle,
			Severity:     lexicon.SeverityMedium,
			Note:         "Gender-neutral alternatives are widely adopted.",
		},
	}
}

func heFlag(expected ...string) coref.Flag {
	return coref.Flag{
		Pronoun: detect.PronounMatch{
			Span:  detect.TextSpan{Start: 30, End: 32, Text: "He"},
			Type:  pronoun.RoleSubject,
			Lemma: "he",
		},
		PersonName:       "Alex",
		UsedPronoun:      "he",
		ExpectedPronouns: expected,
		Confidence:       0.8,
	}
}

func TestParseTone(t *testing.T) {
	for _, tone := range Tones {
		got, ok := ParseTone(string(tone))
		require.True(t, ok)
		assert.Equal(t, tone, got)
	}
	got, ok := ParseTone(" Direct ")
	assert.True(t, ok)
	assert.Equal(t, ToneDirect, got)

	_, ok = ParseTone("snarky")
	assert.False(t, ok)
}

func TestCategoryFor(t *testing.T) {
	expected := map[lexicon.Category]Category{
		lexicon.CategoryJobTitle:           CategoryGenderedTitle,
		lexicon.CategorySalutation:         CategoryGenderedSalutation,
		lexicon.CategoryColloquialism:      CategoryGenderedColloquialism,
		lexicon.CategoryCompound:           CategoryGenderedColloquialism,
		lexicon.CategoryHonorific:          CategoryGenderedLanguage,
		lexicon.CategoryPronounRelated:     CategoryGenderedLanguage,
		lexicon.CategoryFamilial:           CategoryGenderedLanguage,
		lexicon.CategoryGenderedDescriptor: CategoryGenderedLanguage,
		lexicon.CategoryInstitutional:      CategoryGenderedLanguage,
		lexicon.CategoryMaritimeMilitary:   CategoryGenderedLanguage,
	}
	for _, c := range lexicon.Categories {
		assert.Equal(t, expected[c], CategoryFor(c), string(c))
	}
}

func TestFromGendered(t *testing.T) {
	tests := []struct {
		tone    Tone
		message string
	}{
		{ToneGentle, `Consider using "chairperson" instead of "Chairman". Gender-neutral alternatives are widely adopted.`},
		{ToneDirect, `"Chairman" is gendered language. Use "chairperson" instead. Gender-neutral alternatives are widely adopted.`},
		{ToneResearchBacked, `Studies show that gendered language can reinforce stereotypes and create exclusionary environments. Replace "Chairman" with "chairperson". Gender-neutral alternatives are widely adopted.`},
	}
	for _, tt := range tests {
		t.Run(string(tt.tone), func(t *testing.T) {
			issue := FromGendered(chairmanMatch(), tt.tone)

			assert.Equal(t, detect.TextSpan{Start: 4, End: 12, Text: "Chairman"}, issue.Span)
			assert.Equal(t, CategoryGenderedTitle, issue.Category)
			assert.Equal(t, SeverityMedium, issue.Severity)
			assert.Equal(t, tt.message, issue.Message)

			require.Len(t, issue.Suggestions, 2)
			assert.Equal(t, "chairperson", issue.Suggestions[0].Replacement)
			assert.Equal(t, tt.message, issue.Suggestions[0].Explanation)
			assert.Equal(t, "chair", issue.Suggestions[1].Replacement)
			assert.Contains(t, issue.Suggestions[1].Explanation, `"chair"`)
			for _, s := range issue.Suggestions {
				assert.Equal(t, GenderedConfidence, s.Confidence)
			}
		})
	}
}

func TestFromGenderedWithoutAlternatives(t *testing.T) {
	m := chairmanMatch()
	m.Entry.Alternatives = nil
	m.Entry.Note = ""

	issue := FromGendered(m, ToneGentle)
	assert.Equal(t, `Consider using "Chairman" instead of "Chairman".`, issue.Message)
	assert.NotNil(t, issue.Suggestions)
	assert.Empty(t, issue.Suggestions)
}

func TestFromMisgendering(t *testing.T) {
	tests := []struct {
		tone    Tone
		message string
	}{
		{ToneGentle, `It looks like Alex uses they/xe pronouns. You wrote "he". Would you like to update it?`},
		{ToneDirect, `Alex's pronouns are they/xe. "he" is incorrect. Please update.`},
		{ToneResearchBacked, `Using someone's correct pronouns is a fundamental sign of respect. Research shows that misgendering causes measurable psychological harm. Alex uses they/xe pronouns, so please replace "he".`},
	}
	for _, tt := range tests {
		t.Run(string(tt.tone), func(t *testing.T) {
			issue := FromMisgendering(heFlag("they", "xe"), tt.tone)

			assert.Equal(t, CategoryMisgendering, issue.Category)
			assert.Equal(t, SeverityHigh, issue.Severity)
			assert.Equal(t, detect.TextSpan{Start: 30, End: 32, Text: "He"}, issue.Span)
			assert.Equal(t, tt.message, issue.Message)

			require.Len(t, issue.Suggestions, 2)
			assert.Equal(t, "they", issue.Suggestions[0].Replacement)
			assert.Equal(t, "xe", issue.Suggestions[1].Replacement)
			for _, s := range issue.Suggestions {
				assert.Equal(t, tt.message, s.Explanation)
				assert.Equal(t, 0.8, s.Confidence)
			}
		})
	}
}
