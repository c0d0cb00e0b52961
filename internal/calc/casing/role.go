package casing

import (
	"fmt"
	"strings"
)

// SectionRole names the physical well section a chain stage sizes.
type SectionRole string

const (
	Production   SectionRole = "production"
	Intermediate SectionRole = "intermediate"
	Surface      SectionRole = "surface"
)

// DefaultRoles is the chain order used when sections carry no explicit role.
var DefaultRoles = []SectionRole{Production, Intermediate, Surface}

// MaxSections caps the chain length.
const MaxSections = 3

// ParseRole accepts the role name in any case, with or without a trailing
// "section".
func ParseRole(s string) (SectionRole, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "section"))
	r := SectionRole(s)
	if !r.Known() {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownRole)
	}
	return r, nil
}

func (r SectionRole) Known() bool {
	switch r {
	case Production, Intermediate, Surface:
		return true
	}
	return false
}

// Title is the display label, e.g. "Production".
func (r SectionRole) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Instance returns the 1-based drill-string instance paired with the role.
func (r SectionRole) Instance() int {
	for i, d := range DefaultRoles {
		if d == r {
			return i + 1
		}
	}
	return 0
}

// RoleForInstance is the inverse of Instance.
func RoleForInstance(instance int) (SectionRole, bool) {
	if instance < 1 || instance > len(DefaultRoles) {
		return "", false
	}
	return DefaultRoles[instance-1], true
}
