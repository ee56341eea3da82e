package sanitize

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/inklude/internal/pronoun"
)

// Path errors.
var (
	// ErrPathTraversal indicates a path contains directory traversal sequences.
	ErrPathTraversal = errors.New("path contains directory traversal")

	// ErrEmptyPath indicates an empty path was provided.
	ErrEmptyPath = errors.New("path cannot be empty")

	// ErrInvalidExtension indicates a seed file that is not YAML.
	ErrInvalidExtension = errors.New("seed file must have a .yaml or .yml extension")
)

// ValidatePath checks a path for traversal and returns it cleaned and
// absolute. If allowedRoot is non-empty the path must resolve within it.
func ValidatePath(path, allowedRoot string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	if strings.Contains(path, "..") {
		return "", fmt.Errorf("%w: contains '..'", ErrPathTraversal)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if allowedRoot != "" {
		absRoot, err := filepath.Abs(allowedRoot)
		if err != nil {
			return "", fmt.Errorf("failed to resolve allowed root: %w", err)
		}
		rel, err := filepath.Rel(absRoot, absPath)
		if err != nil {
			return "", fmt.Errorf("%w: path outside allowed root", ErrPathTraversal)
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: path escapes allowed root", ErrPathTraversal)
		}
	}

	return absPath, nil
}

// ValidateSeedPath validates the location of a community seed file.
func ValidateSeedPath(path string) (string, error) {
	abs, err := ValidatePath(path, "")
	if err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".yaml", ".yml":
		return abs, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidExtension, filepath.Base(abs))
}

// ParseForms parses a slash-separated pronoun specification such as
// "they/them" or "xe/xem/xyr/xyrs/xemself". Forms fill the roles in order
// subject, object, possessive, possessive pronoun, reflexive; missing
// trailing roles are left empty.
func ParseForms(spec string) (pronoun.Forms, error) {
	parts := strings.Split(spec, "/")
	if len(parts) > len(pronoun.Roles) {
		return pronoun.Forms{}, fmt.Errorf("%w: %q has more than %d forms", ErrInvalidIdentity, spec, len(pronoun.Roles))
	}

	var f pronoun.Forms
	targets := []*string{&f.Subject, &f.Object, &f.Possessive, &f.PossessivePronoun, &f.Reflexive}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return pronoun.Forms{}, fmt.Errorf("%w: %q has an empty form", ErrInvalidIdentity, spec)
		}
		if len([]rune(p)) > MaxFormLength {
			return pronoun.Forms{}, fmt.Errorf("%w: form %q exceeds %d characters", ErrInvalidIdentity, p, MaxFormLength)
		}
		*targets[i] = p
	}
	return f.Lower(), nil
}

// ParseIdentity parses "Name=they/them/their/theirs/themself".
func ParseIdentity(s string) (string, pronoun.Forms, error) {
	name, spec, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", pronoun.Forms{}, fmt.Errorf("%w: %q is not of the form Name=pronouns", ErrInvalidIdentity, s)
	}
	forms, err := ParseForms(spec)
	if err != nil {
		return "", pronoun.Forms{}, err
	}
	return name, forms, nil
}

// ParseIdentities parses repeated identity flags. A name given more than
// once accumulates sets.
func ParseIdentities(specs []string) (map[string][]pronoun.Forms, error) {
	out := make(map[string][]pronoun.Forms, len(specs))
	for _, s := range specs {
		name, forms, err := ParseIdentity(s)
		if err != nil {
			return nil, err
		}
		out[name] = append(out[name], forms)
	}
	return out, nil
}
