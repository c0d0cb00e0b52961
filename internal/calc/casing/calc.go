// Package casing chains the casing/bit-size selection across the well
// sections, feeding each section's next at-head into the following one.
package casing

import (
	"errors"
	"fmt"

	"Wellbore/internal/calc/had"
	"Wellbore/internal/formstate"
	"Wellbore/internal/reftable"
)

var (
	ErrInitialNotFound = errors.New("initial dcsg not found in the at body column")
	ErrBitSize         = errors.New("no bit size available")
	ErrChainBroken     = errors.New("next at head not found")
	ErrUnreachable     = errors.New("target depth is unreachable")

	ErrNotPositive   = errors.New("must be positive")
	ErrUnknownRole   = errors.New("unknown section role")
	ErrDuplicateRole = errors.New("role already used by another section")
	ErrUnknownMetal  = errors.New("unknown metal type")
	ErrSectionCount  = fmt.Errorf("between 1 and %d sections are required", MaxSections)
)

type SectionInput struct {
	Role        SectionRole        `json:"role,omitempty" yaml:"role,omitempty"`
	Multiplier  float64            `json:"multiplier" yaml:"multiplier"`
	MetalType   reftable.MetalType `json:"metal_type" yaml:"metal_type"`
	TargetDepth float64            `json:"target_depth" yaml:"target_depth"`
}

type Input struct {
	InitialDCSG  float64        `json:"initial_dcsg" yaml:"initial_dcsg"`
	Sections     []SectionInput `json:"sections" yaml:"sections"`
	CriticalRole SectionRole    `json:"critical_role,omitempty" yaml:"critical_role,omitempty"`
}

// Normalize fills default roles by position and the default critical role,
// then validates the input. Errors are *formstate.FieldError values whose
// instance is the 1-based section index.
func (in Input) Normalize() (Input, error) {
	if in.InitialDCSG <= 0 {
		return in, &formstate.FieldError{Field: "initial_dcsg", Err: ErrNotPositive}
	}
	if len(in.Sections) == 0 || len(in.Sections) > MaxSections {
		return in, &formstate.FieldError{Field: "sections", Err: ErrSectionCount}
	}
	if in.CriticalRole == "" {
		in.CriticalRole = Production
	}
	if !in.CriticalRole.Known() {
		return in, &formstate.FieldError{Field: "critical_role", Err: ErrUnknownRole}
	}

	sections := make([]SectionInput, len(in.Sections))
	used := map[SectionRole]bool{}
	for i, s := range in.Sections {
		n := i + 1
		if s.Role == "" {
			s.Role = DefaultRoles[i]
		}
		if !s.Role.Known() {
			return in, &formstate.FieldError{Field: "role", Instance: n, Err: ErrUnknownRole}
		}
		if used[s.Role] {
			return in, &formstate.FieldError{Field: "role", Instance: n, Err: ErrDuplicateRole}
		}
		used[s.Role] = true

		if s.Multiplier <= 0 {
			return in, &formstate.FieldError{Field: "multiplier", Instance: n, Err: ErrNotPositive}
		}
		if !s.MetalType.Known() {
			return in, &formstate.FieldError{Field: "metal_type", Instance: n, Err: ErrUnknownMetal}
		}
		if s.TargetDepth <= 0 {
			return in, &formstate.FieldError{Field: "target_depth", Instance: n, Err: ErrNotPositive}
		}
		sections[i] = s
	}
	in.Sections = sections
	return in, nil
}

// SectionResult is one resolved stage of the chain.
type SectionResult struct {
	Role               SectionRole        `json:"role"`
	Multiplier         float64            `json:"multiplier"`
	MetalType          reftable.MetalType `json:"metal_type"`
	TargetDepth        float64            `json:"target_depth"`
	AtHead             float64            `json:"at_head"`
	AtBody             float64            `json:"at_body,omitempty"`
	DerivedBitDiameter float64            `json:"derived_bit_diameter"`
	BitSize            float64            `json:"bit_size"`
	InternalDiameter   float64            `json:"internal_diameter"`
	NextAtHead         float64            `json:"next_at_head,omitempty"`
	Collar             float64            `json:"collar,omitempty"`
	HAD                *had.Result        `json:"had,omitempty"`
}

// Result carries every section resolved before the chain stopped.
type Result struct {
	RunID    string          `json:"run_id"`
	State    State           `json:"state"`
	Sections []SectionResult `json:"sections"`
	Reason   string          `json:"reason,omitempty"`
	Err      error           `json:"-"`
}

// Section returns the resolved section for a role.
func (r Result) Section(role SectionRole) (SectionResult, bool) {
	for _, s := range r.Sections {
		if s.Role == role {
			return s, true
		}
	}
	return SectionResult{}, false
}

// Diameters returns the selected bit size and collar diameter of a role.
// ok is false when the role was not resolved or has no collar.
func (r Result) Diameters(role SectionRole) (bit, collar float64, ok bool) {
	s, found := r.Section(role)
	if !found || s.Collar == 0 {
		return 0, 0, false
	}
	return s.BitSize, s.Collar, true
}

// HAD returns the critical-depth evaluation of the run, if any.
func (r Result) HAD() *had.Result {
	for _, s := range r.Sections {
		if s.HAD != nil {
			return s.HAD
		}
	}
	return nil
}
