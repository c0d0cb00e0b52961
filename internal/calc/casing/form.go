package casing

import (
	"strconv"
	"strings"

	"Wellbore/internal/formstate"
	"Wellbore/internal/reftable"
)

// Form field names. Section fields are keyed per section, e.g. "multiplier_2".
const (
	FieldDCSG         = "dcsg"
	FieldIterations   = "iterations"
	FieldCriticalRole = "critical_role"
	FieldMultiplier   = "multiplier"
	FieldMetalType    = "metal_type"
	FieldDepth        = "depth"
	FieldRole         = "role"
)

// ParseForm builds an Input from flat form values. "iterations" limits the
// number of sections (default and maximum MaxSections).
func ParseForm(v formstate.Values) (Input, error) {
	var in Input

	dcsg, err := v.Float(FieldDCSG, 0)
	if err != nil {
		return in, err
	}
	in.InitialDCSG = dcsg

	n := MaxSections
	if v.Has(FieldIterations, 0) {
		raw := strings.TrimSpace(v[FieldIterations])
		it, err := strconv.Atoi(raw)
		if err != nil || it < 1 {
			return in, &formstate.FieldError{Field: FieldIterations, Err: formstate.ErrNotNumeric}
		}
		n = min(it, MaxSections)
	}

	if v.Has(FieldCriticalRole, 0) {
		r, err := ParseRole(v[FieldCriticalRole])
		if err != nil {
			return in, &formstate.FieldError{Field: FieldCriticalRole, Err: ErrUnknownRole}
		}
		in.CriticalRole = r
	}

	for i := 1; i <= n; i++ {
		var s SectionInput
		if s.Multiplier, err = v.Float(FieldMultiplier, i); err != nil {
			return in, err
		}
		if s.TargetDepth, err = v.Float(FieldDepth, i); err != nil {
			return in, err
		}
		if !v.Has(FieldMetalType, i) {
			return in, &formstate.FieldError{Field: FieldMetalType, Instance: i, Err: formstate.ErrEmpty}
		}
		s.MetalType = reftable.ParseMetalType(v[formstate.Key(FieldMetalType, i)])
		if v.Has(FieldRole, i) {
			if s.Role, err = ParseRole(v[formstate.Key(FieldRole, i)]); err != nil {
				return in, &formstate.FieldError{Field: FieldRole, Instance: i, Err: ErrUnknownRole}
			}
		}
		in.Sections = append(in.Sections, s)
	}
	return in, nil
}
