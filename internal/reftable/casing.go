package reftable

import (
	"fmt"
	"math"
)

// CasingTable is an immutable snapshot of the casing/bit-size reference rows.
type CasingTable struct {
	rows    []Row
	columns Column
}

// NewCasingTable builds a table; columns marks which headers the source carried.
func NewCasingTable(rows []Row, columns Column) *CasingTable {
	cp := make([]Row, len(rows))
	copy(cp, rows)
	return &CasingTable{rows: cp, columns: columns}
}

// Rows returns a copy of the rows in table order.
func (t *CasingTable) Rows() []Row {
	cp := make([]Row, len(t.rows))
	copy(cp, t.rows)
	return cp
}

func (t *CasingTable) Len() int { return len(t.rows) }

func (t *CasingTable) Columns() Column { return t.columns }

func (t *CasingTable) require(c Column) error {
	if !t.columns.Has(c) {
		return &ColumnsError{Missing: t.columns.missing(c)}
	}
	return nil
}

// FindMatchingRows returns, in table order, the rows of the given metal type
// whose at-head is within Tolerance of atHead.
func (t *CasingTable) FindMatchingRows(atHead float64, metal MetalType) ([]Row, error) {
	need := ColAtHead | ColExternalPressure | ColMetalType | ColTensileStrength | ColUnitWeight
	if err := t.require(need); err != nil {
		return nil, err
	}
	var out []Row
	for _, r := range t.rows {
		if !r.Has(need) {
			continue
		}
		if r.MetalType == metal && near(r.AtHead, atHead) {
			out = append(out, r)
		}
	}
	return out, nil
}

// NearestBitSize returns the bit size closest to target and the internal
// diameter of the same row.
func (t *CasingTable) NearestBitSize(target float64) (bitSize, internalDiameter float64, err error) {
	need := ColBitSize | ColInternalDiameter
	if err := t.require(need); err != nil {
		return 0, 0, err
	}
	sizes := make([]float64, len(t.rows))
	for i, r := range t.rows {
		if r.Has(need) {
			sizes[i] = r.BitSize
		} else {
			sizes[i] = math.NaN()
		}
	}
	i, ok := NearestValue(sizes, target)
	if !ok {
		return 0, 0, fmt.Errorf("bit size near %.2f: %w", target, ErrNoMatch)
	}
	return t.rows[i].BitSize, t.rows[i].InternalDiameter, nil
}

// LookupByInternalDiameter returns the at-head of the first row whose internal
// diameter matches within Tolerance.
func (t *CasingTable) LookupByInternalDiameter(value float64) (float64, error) {
	need := ColAtHead | ColInternalDiameter
	if err := t.require(need); err != nil {
		return 0, err
	}
	for _, r := range t.rows {
		if r.Has(need) && near(r.InternalDiameter, value) {
			return r.AtHead, nil
		}
	}
	return 0, fmt.Errorf("internal diameter %.2f: %w", value, ErrNoMatch)
}

// ResolveInitialAtHead maps the user's starting DCSG, matched against the
// "At body" column, to the at-head diameter of the first matching row.
func (t *CasingTable) ResolveInitialAtHead(dcsg float64) (float64, error) {
	need := ColAtHead | ColAtBody
	if err := t.require(need); err != nil {
		return 0, err
	}
	for _, r := range t.rows {
		if r.Has(need) && near(r.AtBody, dcsg) {
			return r.AtHead, nil
		}
	}
	return 0, fmt.Errorf("dcsg %.2f: %w", dcsg, ErrNoMatch)
}

// AtBody returns the at-body diameter of the first row with the given at-head.
func (t *CasingTable) AtBody(atHead float64) (float64, error) {
	need := ColAtHead | ColAtBody
	if err := t.require(need); err != nil {
		return 0, err
	}
	for _, r := range t.rows {
		if r.Has(need) && near(r.AtHead, atHead) {
			return r.AtBody, nil
		}
	}
	return 0, fmt.Errorf("at head %.2f: %w", atHead, ErrNoMatch)
}
