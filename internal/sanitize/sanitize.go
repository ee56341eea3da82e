// Package sanitize validates and normalizes untrusted analysis input: texts,
// tones, identity maps and pronoun specifications typed by users.
package sanitize

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/inklude/internal/coref"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
	"github.com/fyrsmithlabs/inklude/internal/suggest"
)

const (
	// MaxIdentities caps the people in one identity map.
	MaxIdentities = 100

	// MaxFormLength caps a single pronoun form.
	MaxFormLength = 30

	// MaxNameLength caps an identity name.
	MaxNameLength = 200
)

// Validation errors.
var (
	ErrTextRequired    = errors.New("text is required")
	ErrTextTooLong     = errors.New("text too long")
	ErrInvalidText     = errors.New("text is not valid UTF-8")
	ErrInvalidTone     = errors.New("invalid tone")
	ErrBatchEmpty      = errors.New("batch must contain at least one text")
	ErrBatchTooLarge   = errors.New("batch too large")
	ErrInvalidIdentity = errors.New("invalid identity")
)

// Text checks that text is non-blank UTF-8 of at most maxChars
// characters. maxChars <= 0 disables the length check.
func Text(text string, maxChars int) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextRequired
	}
	if !utf8.ValidString(text) {
		return ErrInvalidText
	}
	if maxChars > 0 {
		if n := utf8.RuneCountInString(text); n > maxChars {
			return fmt.Errorf("%w: %d characters, limit is %d", ErrTextTooLong, n, maxChars)
		}
	}
	return nil
}

// Batch checks every text of a batch and the batch size.
func Batch(texts []string, maxBatch, maxChars int) error {
	if len(texts) == 0 {
		return ErrBatchEmpty
	}
	if maxBatch > 0 && len(texts) > maxBatch {
		return fmt.Errorf("%w: %d texts, limit is %d", ErrBatchTooLarge, len(texts), maxBatch)
	}
	for i, text := range texts {
		if err := Text(text, maxChars); err != nil {
			return fmt.Errorf("texts[%d]: %w", i, err)
		}
	}
	return nil
}

// Tone parses a tone name. An empty name yields fallback.
func Tone(name string, fallback suggest.Tone) (suggest.Tone, error) {
	if strings.TrimSpace(name) == "" {
		return fallback, nil
	}
	tone, ok := suggest.ParseTone(name)
	if !ok {
		return "", fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidTone, name, toneList())
	}
	return tone, nil
}

func toneList() string {
	names := make([]string, len(suggest.Tones))
	for i, t := range suggest.Tones {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Identities validates a name to pronoun-sets map and builds the
// normalized identity map. Every name needs at least one set with at least
// one form; names that fold to the same key are rejected. Names are checked
// in sorted order so the reported error is stable.
func Identities(raw map[string][]pronoun.Forms) (coref.IdentityMap, error) {
	if len(raw) > MaxIdentities {
		return nil, fmt.Errorf("%w: %d identities, limit is %d", ErrInvalidIdentity, len(raw), MaxIdentities)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]string, len(raw))
	for _, name := range names {
		sets := raw[name]
		key := coref.NameKey(name)
		if key == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidIdentity)
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return nil, fmt.Errorf("%w: name exceeds %d characters", ErrInvalidIdentity, MaxNameLength)
		}
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q and %q name the same person", ErrInvalidIdentity, prev, name)
		}
		seen[key] = name

		usable := 0
		for _, f := range sets {
			for _, role := range pronoun.Roles {
				if utf8.RuneCountInString(strings.TrimSpace(f.Get(role))) > MaxFormLength {
					return nil, fmt.Errorf("%w: %s form for %q exceeds %d characters", ErrInvalidIdentity, role, name, MaxFormLength)
				}
			}
			if !f.Empty() {
				usable++
			}
		}
		if usable == 0 {
			return nil, fmt.Errorf("%w: %q has no pronouns", ErrInvalidIdentity, name)
		}
	}
	return coref.NewIdentityMap(raw), nil
}
