package detect

import (
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/fyrsmithlabs/inklude/internal/annotate"
	"github.com/fyrsmithlabs/inklude/internal/lexicon"
)

type termPattern struct {
	entry lexicon.Entry
	re    *regexp.Regexp
}

// GenderedDetector scans text for lexicon terms.
type GenderedDetector struct {
	patterns []termPattern // longest term first
}

// NewGenderedDetector compiles one case-insensitive pattern per lexicon
// term.
func NewGenderedDetector(lex *lexicon.Registry) *GenderedDetector {
	terms := lex.TermsByDescendingLength()
	patterns := make([]termPattern, 0, len(terms))
	for _, term := range terms {
		entry, _ := lex.Lookup(term)
		patterns = append(patterns, termPattern{
			entry: entry,
			re:    regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term)),
		})
	}
	return &GenderedDetector{patterns: patterns}
}

// Detect returns every whole-word lexicon match in text, sorted by start
// offset. Longer terms claim their span first; a shorter candidate that
// overlaps an accepted span is discarded. Matches overlapping any entity
// span are returned with Suppressed set.
func (d *GenderedDetector) Detect(text string, entities []annotate.Entity) []GenderedMatch {
	if text == "" {
		return nil
	}

	var accepted []GenderedMatch
	for _, p := range d.patterns {
		for _, loc := range p.find(text) {
			if overlapsAny(accepted, loc[0], loc[1]) {
				continue
			}
			accepted = append(accepted, GenderedMatch{
				Span:  NewSpan(text, loc[0], loc[1]),
				Entry: p.entry,
			})
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Span.Start < accepted[j].Span.Start
	})

	for i := range accepted {
		accepted[i].Suppressed = coversEntity(accepted[i].Span, entities)
	}
	return accepted
}

// find returns the whole-word occurrences of the pattern. A candidate that
// fails the boundary check restarts the scan one rune after its start, so
// "mr." in "mmr. Mr." is still found at the second position.
func (p termPattern) find(text string) [][2]int {
	var out [][2]int
	for pos := 0; pos < len(text); {
		loc := p.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if isWordBoundary(text, start, end) {
			out = append(out, [2]int{start, end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return out
}

func overlapsAny(accepted []GenderedMatch, start, end int) bool {
	for _, m := range accepted {
		if m.Span.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func coversEntity(span TextSpan, entities []annotate.Entity) bool {
	for _, e := range entities {
		if span.Overlaps(e.Start, e.End) {
			return true
		}
	}
	return false
}

// isWordBoundary reports whether neither neighbour of text[start:end] is a
// word character.
func isWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
