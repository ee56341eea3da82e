// Package lexicon holds the curated catalogue of gendered terms and their
// inclusive alternatives.
//
// The catalogue is embedded at build time and loaded once at startup. A
// Registry is read-only after Load returns and is safe for concurrent use
// without synchronization.
package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/lexicon.yaml
var builtinData []byte

// Errors returned while loading a catalogue.
var (
	ErrMalformedEntry = errors.New("malformed lexicon entry")
	ErrDuplicateTerm  = errors.New("duplicate lexicon term")
)

// Category classifies a lexicon entry.
type Category string

const (
	CategoryJobTitle           Category = "job_title"
	CategorySalutation         Category = "salutation"
	CategoryColloquialism      Category = "colloquialism"
	CategoryHonorific          Category = "honorific"
	CategoryPronounRelated     Category = "pronoun_related"
	CategoryFamilial           Category = "familial"
	CategoryGenderedDescriptor Category = "gendered_descriptor"
	CategoryInstitutional      Category = "institutional"
	CategoryMaritimeMilitary   Category = "maritime_military"
	CategoryCompound           Category = "compound"
)

// Categories lists every known category in declaration order.
var Categories = []Category{
	CategoryJobTitle,
	CategorySalutation,
	CategoryColloquialism,
	CategoryHonorific,
	CategoryPronounRelated,
	CategoryFamilial,
	CategoryGenderedDescriptor,
	CategoryInstitutional,
	CategoryMaritimeMilitary,
	CategoryCompound,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Severity ranks how strongly a term should be flagged.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Entry is an immutable lexicon record. Term is always lowercase.
type Entry struct {
	Term         string   `json:"term" yaml:"term"`
	Alternatives []string `json:"alternatives" yaml:"alternatives"`
	Category     Category `json:"category" yaml:"category"`
	Severity     Severity `json:"severity" yaml:"severity"`
	Note         string   `json:"note" yaml:"note"`
}

// catalogue is the on-disk shape of a lexicon file.
type catalogue struct {
	Entries []Entry `yaml:"entries"`
}

// Registry maps lowercase terms to entries.
type Registry struct {
	entries map[string]Entry
	ordered []Entry  // load order
	terms   []string // longest first
}

// Load parses the embedded catalogue.
func Load() (*Registry, error) {
	return Parse(builtinData)
}

// MustLoad is like Load but panics on error. A broken embedded catalogue
// is a build defect, so startup code may use it.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(fmt.Sprintf("lexicon: %v", err))
	}
	return r
}

// Parse builds a Registry from a YAML catalogue. Every entry must carry a
// non-empty term, a known category and a known severity; terms must be
// unique after lowercasing.
func Parse(data []byte) (*Registry, error) {
	var c catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	r := &Registry{
		entries: make(map[string]Entry, len(c.Entries)),
		ordered: make([]Entry, 0, len(c.Entries)),
	}
	for i, e := range c.Entries {
		e.Term = strings.ToLower(strings.TrimSpace(e.Term))
		if e.Term == "" {
			return nil, fmt.Errorf("%w: entry %d has empty term", ErrMalformedEntry, i)
		}
		if !e.Category.Valid() {
			return nil, fmt.Errorf("%w: %q has unknown category %q", ErrMalformedEntry, e.Term, e.Category)
		}
		if !e.Severity.Valid() {
			return nil, fmt.Errorf("%w: %q has unknown severity %q", ErrMalformedEntry, e.Term, e.Severity)
		}
		if _, dup := r.entries[e.Term]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTerm, e.Term)
		}
		e = e.clone()
		r.entries[e.Term] = e
		r.ordered = append(r.ordered, e)
	}

	r.terms = make([]string, 0, len(r.entries))
	for term := range r.entries {
		r.terms = append(r.terms, term)
	}
	// Ties broken alphabetically so scans are deterministic.
	sort.Slice(r.terms, func(i, j int) bool {
		if len(r.terms[i]) != len(r.terms[j]) {
			return len(r.terms[i]) > len(r.terms[j])
		}
		return r.terms[i] < r.terms[j]
	})

	return r, nil
}

// Lookup returns the entry for term, matched case-insensitively.
func (r *Registry) Lookup(term string) (Entry, bool) {
	e, ok := r.entries[strings.ToLower(term)]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// TermsByDescendingLength returns every term, longest first, so that
// multi-word phrases are matched before the shorter terms they contain.
func (r *Registry) TermsByDescendingLength() []string {
	return append([]string(nil), r.terms...)
}

// Entries returns all entries in catalogue order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.ordered))
	for i, e := range r.ordered {
		out[i] = e.clone()
	}
	return out
}

// ByCategory returns the entries in category c, in catalogue order.
func (r *Registry) ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range r.ordered {
		if e.Category == c {
			out = append(out, e.clone())
		}
	}
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

func (e Entry) clone() Entry {
	alts := make([]string, len(e.Alternatives))
	copy(alts, e.Alternatives)
	e.Alternatives = alts
	return e
}
