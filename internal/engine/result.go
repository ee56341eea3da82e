package engine

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/inklude/internal/detect"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
	"github.com/fyrsmithlabs/inklude/internal/suggest"
)

// NoIssuesSummary is the summary of a clean text.
const NoIssuesSummary = "No issues detected. The text appears inclusive."

// PronounOccurrence is a pronoun found in the text and, when resolved, the
// person it refers to.
type PronounOccurrence struct {
	Span           detect.TextSpan `json:"span"`
	Type           pronoun.Role    `json:"pronoun_type"`
	ResolvedEntity string          `json:"resolved_entity,omitempty"`
	IsNeoPronoun   bool            `json:"is_neo_pronoun"`
}

// Result is the outcome of one analysis. Issues are sorted by start offset.
type Result struct {
	TextLength    int                 `json:"text_length"`
	Issues        []suggest.Issue     `json:"issues"`
	PronounsFound []PronounOccurrence `json:"pronouns_found"`
	Summary       string              `json:"summary"`
}

// Summarize describes issues in one sentence, counting misgendering
// separately from other gendered language.
func Summarize(issues []suggest.Issue) string {
	if len(issues) == 0 {
		return NoIssuesSummary
	}

	var gendered, misgendering int
	for _, is := range issues {
		if is.Category == suggest.CategoryMisgendering {
			misgendering++
		} else {
			gendered++
		}
	}

	var parts []string
	if gendered > 0 {
		parts = append(parts, fmt.Sprintf("%d gendered language %s", gendered, plural(gendered, "issue", "issues")))
	}
	if misgendering > 0 {
		parts = append(parts, fmt.Sprintf("%d potential misgendering %s", misgendering, plural(misgendering, "instance", "instances")))
	}
	return "Found " + strings.Join(parts, " and ") + "."
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
