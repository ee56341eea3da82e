// Package submissions holds community-submitted pronoun sets awaiting
// review. Approved sets are registered with the analysis engine so later
// analyses recognize them.
//
// The store is in memory; submissions do not survive a restart.
package submissions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
)

// Field limits, in characters.
const (
	MaxFormLength  = 30
	MaxLabelLength = 60
)

// Common errors.
var (
	ErrNotFound          = errors.New("submission not found")
	ErrAlreadyApproved   = errors.New("submission already approved")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrInvalidID         = errors.New("invalid submission ID")
)

// Registrar accepts approved sets.
type Registrar interface {
	RegisterNeoPronounSet(set neopronoun.Set) (bool, error)
}

// Create is the payload of a new submission.
type Create struct {
	pronoun.Forms
	Label     string `json:"label"`
	UsageNote string `json:"usage_note,omitempty"`
	Example   string `json:"example,omitempty"`
}

// Validate checks that all five forms are present and that no field is
// over its limit.
func (c Create) Validate() error {
	for _, role := range pronoun.Roles {
		form := strings.TrimSpace(c.Get(role))
		if form == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidSubmission, role)
		}
		if utf8.RuneCountInString(form) > MaxFormLength {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidSubmission, role, MaxFormLength)
		}
	}
	label := strings.TrimSpace(c.Label)
	if label == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidSubmission)
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return fmt.Errorf("%w: label exceeds %d characters", ErrInvalidSubmission, MaxLabelLength)
	}
	return nil
}

// Submission is a stored pronoun set.
type Submission struct {
	ID string `json:"id"`
	pronoun.Forms
	Label       string    `json:"label"`
	UsageNote   string    `json:"usage_note,omitempty"`
	Example     string    `json:"example,omitempty"`
	IsApproved  bool      `json:"is_approved"`
	SubmittedBy string    `json:"submitted_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Set converts the submission to a community neo-pronoun set.
func (s Submission) Set() neopronoun.Set {
	return neopronoun.Set{
		Forms:      s.Forms.Lower(),
		Label:      s.Label,
		Popularity: neopronoun.PopularityEmerging,
		Origin:     neopronoun.CommunityOrigin,
		UsageNote:  s.UsageNote,
		Example:    s.Example,
	}
}

// Store is a concurrency-safe in-memory submission store.
type Store struct {
	mu        sync.RWMutex
	items     map[string]*Submission
	registrar Registrar
	logger    *zap.Logger
	now       func() time.Time
}

// NewStore creates an empty store. Approved sets are passed to registrar.
func NewStore(registrar Registrar, logger *zap.Logger) (*Store, error) {
	if registrar == nil {
		return nil, errors.New("registrar is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		items:     make(map[string]*Submission),
		registrar: registrar,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Submit validates and stores a new pending submission. submittedBy
// identifies the submitter; a random id is used when it is empty.
func (s *Store) Submit(c Create, submittedBy string) (Submission, error) {
	if err := c.Validate(); err != nil {
		return Submission{}, err
	}
	if submittedBy == "" {
		submittedBy = uuid.New().String()
	}

	sub := &Submission{
		ID: uuid.New().String(),
		Forms: pronoun.Forms{
			Subject:           strings.TrimSpace(c.Subject),
			Object:            strings.TrimSpace(c.Object),
			Possessive:        strings.TrimSpace(c.Possessive),
			PossessivePronoun: strings.TrimSpace(c.PossessivePronoun),
			Reflexive:         strings.TrimSpace(c.Reflexive),
		},
		Label:       strings.TrimSpace(c.Label),
		UsageNote:   strings.TrimSpace(c.UsageNote),
		Example:     strings.TrimSpace(c.Example),
		SubmittedBy: submittedBy,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	s.items[sub.ID] = sub
	s.mu.Unlock()

	s.logger.Info("pronoun set submitted", zap.String("id", sub.ID), zap.String("label", sub.Label))
	return *sub, nil
}

// Get returns the submission with id.
func (s *Store) Get(id string) (Submission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Submission{}, ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.items[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return *sub, nil
}

// List returns every submission, newest first.
func (s *Store) List() []Submission {
	s.mu.RLock()
	out := make([]Submission, 0, len(s.items))
	for _, sub := range s.items {
		out = append(out, *sub)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Approve marks a pending submission approved and registers its set. A
// registration failure leaves the submission pending.
func (s *Store) Approve(id string) (Submission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Submission{}, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.items[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	if sub.IsApproved {
		return Submission{}, ErrAlreadyApproved
	}
	if _, err := s.registrar.RegisterNeoPronounSet(sub.Set()); err != nil {
		return Submission{}, fmt.Errorf("failed to register %q: %w", sub.Label, err)
	}
	sub.IsApproved = true

	s.logger.Info("pronoun set approved", zap.String("id", sub.ID), zap.String("label", sub.Label))
	return *sub, nil
}

// Delete removes a submission. Deleting an approved submission does not
// unregister its set.
func (s *Store) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	s.logger.Info("pronoun set submission deleted", zap.String("id", id))
	return nil
}

// Len returns the number of stored submissions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
