package reftable

import (
	"errors"
	"fmt"
	"strings"
)

// Tolerance is the absolute difference under which two diameters are equal.
const Tolerance = 0.01

var (
	ErrNoMatch = errors.New("no matching row")
	// ErrColumnsNotFound is wrapped by *ColumnsError.
	ErrColumnsNotFound = errors.New("columns not found")
)

// ColumnsError lists required headers that are absent from a table.
type ColumnsError struct {
	Missing []string
}

func (e *ColumnsError) Error() string {
	return fmt.Sprintf("columns not found: %s", strings.Join(e.Missing, ", "))
}

func (e *ColumnsError) Unwrap() error { return ErrColumnsNotFound }

// Column is a bitmask over the casing table columns.
type Column uint16

const (
	ColAtHead Column = 1 << iota
	ColAtBody
	ColBitSize
	ColInternalDiameter
	ColExternalPressure
	ColMetalType
	ColTensileStrength
	ColUnitWeight

	AllColumns = ColAtHead | ColAtBody | ColBitSize | ColInternalDiameter |
		ColExternalPressure | ColMetalType | ColTensileStrength | ColUnitWeight
)

var columnNames = []struct {
	col  Column
	name string
}{
	{ColAtHead, "at head"},
	{ColAtBody, "at body"},
	{ColBitSize, "bit size"},
	{ColInternalDiameter, "internal diameter"},
	{ColExternalPressure, "external pressure mpa"},
	{ColMetalType, "metal type"},
	{ColTensileStrength, "tensile strength at body tonf"},
	{ColUnitWeight, "unit weight length lbs/ft"},
}

// Has reports whether every column in want is set in c.
func (c Column) Has(want Column) bool { return c&want == want }

func (c Column) missing(want Column) []string {
	var out []string
	for _, cn := range columnNames {
		if want.Has(cn.col) && !c.Has(cn.col) {
			out = append(out, cn.name)
		}
	}
	return out
}

// MetalType is a casing steel grade.
type MetalType string

const (
	K55  MetalType = "K-55"
	L80  MetalType = "L-80"
	N80  MetalType = "N-80"
	P110 MetalType = "P-110"
	Q125 MetalType = "Q-125"
	T95  MetalType = "T-95"
	C90  MetalType = "C-90"
)

// MetalTypes lists the grades in catalogue order.
var MetalTypes = []MetalType{K55, L80, N80, P110, Q125, T95, C90}

// ParseMetalType normalises case and whitespace. Unknown grades are kept
// verbatim so that table rows with other grades still compare exactly.
func ParseMetalType(s string) MetalType {
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	for _, m := range MetalTypes {
		if string(m) == s {
			return m
		}
	}
	return MetalType(s)
}

// Known reports whether m is one of the seven catalogue grades.
func (m MetalType) Known() bool {
	for _, k := range MetalTypes {
		if k == m {
			return true
		}
	}
	return false
}

// Row is one casing reference record. Valid marks which cells held a usable value.
type Row struct {
	AtHead           float64   `json:"at_head"`
	AtBody           float64   `json:"at_body,omitempty"`
	BitSize          float64   `json:"bit_size"`
	InternalDiameter float64   `json:"internal_diameter"`
	ExternalPressure float64   `json:"external_pressure"`
	MetalType        MetalType `json:"metal_type"`
	TensileStrength  float64   `json:"tensile_strength"`
	UnitWeight       float64   `json:"unit_weight"`
	Valid            Column    `json:"-"`
}

// Has reports whether all of the given cells are valid.
func (r Row) Has(c Column) bool { return r.Valid.Has(c) }

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < Tolerance
}
