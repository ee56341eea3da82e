// Package pronoun defines grammatical pronoun roles and the five-form
// pronoun set shared by the registry, the detectors and the resolver.
package pronoun

import "strings"

// Role is the grammatical role of a pronoun occurrence.
type Role string

const (
	RoleSubject           Role = "subject"
	RoleObject            Role = "object"
	RolePossessive        Role = "possessive"
	RolePossessivePronoun Role = "possessive_pronoun"
	RoleReflexive         Role = "reflexive"
)

// Roles lists every role in canonical order.
var Roles = []Role{
	RoleSubject,
	RoleObject,
	RolePossessive,
	RolePossessivePronoun,
	RoleReflexive,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSubject, RoleObject, RolePossessive, RolePossessivePronoun, RoleReflexive:
		return true
	}
	return false
}

// Forms holds the surface form of a pronoun set for each role, e.g.
// they/them/their/theirs/themself.
type Forms struct {
	Subject           string `json:"subject" yaml:"subject"`
	Object            string `json:"object" yaml:"object"`
	Possessive        string `json:"possessive" yaml:"possessive"`
	PossessivePronoun string `json:"possessive_pronoun" yaml:"possessive_pronoun"`
	Reflexive         string `json:"reflexive" yaml:"reflexive"`
}

// Get returns the form for role, or "" when the role is unknown or unset.
func (f Forms) Get(role Role) string {
	switch role {
	case RoleSubject:
		return f.Subject
	case RoleObject:
		return f.Object
	case RolePossessive:
		return f.Possessive
	case RolePossessivePronoun:
		return f.PossessivePronoun
	case RoleReflexive:
		return f.Reflexive
	}
	return ""
}

// Lower returns a copy with every form trimmed and lowercased.
func (f Forms) Lower() Forms {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return Forms{
		Subject:           norm(f.Subject),
		Object:            norm(f.Object),
		Possessive:        norm(f.Possessive),
		PossessivePronoun: norm(f.PossessivePronoun),
		Reflexive:         norm(f.Reflexive),
	}
}

// Complete reports whether every role has a non-blank form.
func (f Forms) Complete() bool {
	for _, role := range Roles {
		if strings.TrimSpace(f.Get(role)) == "" {
			return false
		}
	}
	return true
}

// Empty reports whether no role has a form.
func (f Forms) Empty() bool {
	for _, role := range Roles {
		if strings.TrimSpace(f.Get(role)) != "" {
			return false
		}
	}
	return true
}

// Label renders the conventional "subject/object" label.
func (f Forms) Label() string {
	return f.Subject + "/" + f.Object
}
