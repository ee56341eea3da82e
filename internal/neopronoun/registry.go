// Package neopronoun catalogues pronoun sets beyond he/she/they and indexes
// every surface form to the sets and roles it belongs to.
//
// The Registry is read on every analysis and written rarely, when an
// administrator approves a community-submitted set. Readers load an
// immutable snapshot through an atomic pointer; writers serialize on a
// mutex, build a new snapshot and swap it in. No reader ever observes a
// partially built index.
package neopronoun

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/inklude/internal/pronoun"
)

//go:embed data/builtin.yaml
var builtinData []byte

// Errors for registry operations.
var (
	ErrInvalidSet    = errors.New("invalid neo-pronoun set")
	ErrLabelConflict = errors.New("a different set is already registered under this label")
)

// Popularity is how commonly a set is encountered.
type Popularity string

const (
	PopularityCommon     Popularity = "common"
	PopularityModerate   Popularity = "moderate"
	PopularityEmerging   Popularity = "emerging"
	PopularityHistorical Popularity = "historical"
)

// Popularities lists every tier.
var Popularities = []Popularity{PopularityCommon, PopularityModerate, PopularityEmerging, PopularityHistorical}

// Valid reports whether p is a known tier.
func (p Popularity) Valid() bool {
	switch p {
	case PopularityCommon, PopularityModerate, PopularityEmerging, PopularityHistorical:
		return true
	}
	return false
}

// CommunityOrigin is the origin recorded for sets registered at runtime
// from community submissions.
const CommunityOrigin = "Community-submitted"

// Set is an immutable neo-pronoun set. Label is its unique key, e.g. "ze/hir".
type Set struct {
	pronoun.Forms `yaml:",inline"`
	Label         string     `json:"label" yaml:"label"`
	Popularity    Popularity `json:"popularity" yaml:"popularity"`
	Origin        string     `json:"origin" yaml:"origin"`
	UsageNote     string     `json:"usage_note" yaml:"usage_note"`
	Example       string     `json:"example" yaml:"example"`
}

// Validate checks that the set has a label, all five forms and a known
// popularity tier.
func (s Set) Validate() error {
	if strings.TrimSpace(s.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidSet)
	}
	if !s.Forms.Complete() {
		return fmt.Errorf("%w: %q must define all five forms", ErrInvalidSet, s.Label)
	}
	if !s.Popularity.Valid() {
		return fmt.Errorf("%w: %q has unknown popularity %q", ErrInvalidSet, s.Label, s.Popularity)
	}
	return nil
}

// Match is one (set, role) interpretation of a surface form.
type Match struct {
	Label string       `json:"label"`
	Role  pronoun.Role `json:"role"`
}

// snapshot is never mutated after it is published.
type snapshot struct {
	sets    []Set
	byLabel map[string]int
	forms   map[string][]Match
}

func emptySnapshot() *snapshot {
	return &snapshot{
		byLabel: map[string]int{},
		forms:   map[string][]Match{},
	}
}

// with returns a copy of s extended by set.
func (s *snapshot) with(set Set) *snapshot {
	next := &snapshot{
		sets:    make([]Set, len(s.sets), len(s.sets)+1),
		byLabel: make(map[string]int, len(s.byLabel)+1),
		forms:   make(map[string][]Match, len(s.forms)+5),
	}
	copy(next.sets, s.sets)
	for k, v := range s.byLabel {
		next.byLabel[k] = v
	}
	for k, v := range s.forms {
		next.forms[k] = v
	}

	next.byLabel[set.Label] = len(next.sets)
	next.sets = append(next.sets, set)

	lower := set.Forms.Lower()
	for _, role := range pronoun.Roles {
		form := lower.Get(role)
		prev := next.forms[form]
		// Fresh backing array: older snapshots keep their slices.
		entries := make([]Match, len(prev), len(prev)+1)
		copy(entries, prev)
		next.forms[form] = append(entries, Match{Label: set.Label, Role: role})
	}
	return next
}

// Registry is the process-wide neo-pronoun catalogue. Construct it with
// NewRegistry or NewBuiltinRegistry and pass it to the components that
// need it.
type Registry struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[snapshot]
}

// NewRegistry creates a registry seeded with sets, in order.
func NewRegistry(sets ...Set) (*Registry, error) {
	r := &Registry{}
	r.snap.Store(emptySnapshot())
	for _, s := range sets {
		if _, err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewBuiltinRegistry creates a registry seeded with the embedded catalogue.
func NewBuiltinRegistry() (*Registry, error) {
	sets, err := ParseSets(builtinData)
	if err != nil {
		return nil, fmt.Errorf("failed to load builtin neo-pronoun sets: %w", err)
	}
	return NewRegistry(sets...)
}

// ParseSets decodes a YAML document with a top-level "sets" list.
func ParseSets(data []byte) ([]Set, error) {
	var doc struct {
		Sets []Set `yaml:"sets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse neo-pronoun sets: %w", err)
	}
	return doc.Sets, nil
}

// Register appends set and indexes its five forms.
//
// Registering a set identical to one already held under the same label is
// a no-op and reports added=false. A different set under an existing label
// is rejected with ErrLabelConflict; existing sets are never replaced.
func (r *Registry) Register(set Set) (added bool, err error) {
	set.Label = strings.TrimSpace(set.Label)
	if err := set.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snap.Load()
	if idx, ok := cur.byLabel[set.Label]; ok {
		if cur.sets[idx] == set {
			return false, nil
		}
		return false, fmt.Errorf("%w: %q", ErrLabelConflict, set.Label)
	}

	r.snap.Store(cur.with(set))
	return true, nil
}

// All returns every set in registration order.
func (r *Registry) All() []Set {
	s := r.snap.Load()
	return append([]Set(nil), s.sets...)
}

// ByPopularity returns the sets in tier p, in registration order.
func (r *Registry) ByPopularity(p Popularity) []Set {
	var out []Set
	for _, s := range r.snap.Load().sets {
		if s.Popularity == p {
			out = append(out, s)
		}
	}
	return out
}

// ByLabel looks up a set by its exact label.
func (r *Registry) ByLabel(label string) (Set, bool) {
	s := r.snap.Load()
	idx, ok := s.byLabel[label]
	if !ok {
		return Set{}, false
	}
	return s.sets[idx], true
}

// Classify returns every (label, role) pair the token can stand for, in
// registration order. Matching is exact and case-insensitive.
func (r *Registry) Classify(token string) []Match {
	matches := r.snap.Load().forms[strings.ToLower(token)]
	return append([]Match(nil), matches...)
}

// IsKnownForm reports whether token is a form of any registered set.
func (r *Registry) IsKnownForm(token string) bool {
	_, ok := r.snap.Load().forms[strings.ToLower(token)]
	return ok
}

// Len returns the number of registered sets.
func (r *Registry) Len() int {
	return len(r.snap.Load().sets)
}
