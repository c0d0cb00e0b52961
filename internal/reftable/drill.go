package reftable

import (
	"fmt"
	"math"
)

// GammaTolerance is the absolute tolerance of the γ lookup.
const GammaTolerance = 1e-8

// GammaRow carries the drill-pipe section properties tabulated per γ.
type GammaRow struct {
	OuterDiameter float64 `json:"outer_diameter"`
	Ap            float64 `json:"ap"`
	Aip           float64 `json:"aip"`
	Mp            float64 `json:"mp"`
	Qp            float64 `json:"qp"`
	B             float64 `json:"b"`
	Gamma         float64 `json:"gamma"`
}

// GradeTable holds parallel columns with one entry per unique grade.
// Missing tensile values are NaN.
type GradeTable struct {
	Grades     []string  `json:"grades"`
	TensilePSI []float64 `json:"tensile_psi"`
	TensileMPI []float64 `json:"tensile_mpi"`
}

// Add appends a grade unless it is already present.
func (g *GradeTable) Add(grade string, psi, mpi float64) {
	for _, existing := range g.Grades {
		if existing == grade {
			return
		}
	}
	g.Grades = append(g.Grades, grade)
	g.TensilePSI = append(g.TensilePSI, psi)
	g.TensileMPI = append(g.TensileMPI, mpi)
}

func (g GradeTable) Len() int { return len(g.Grades) }

// Nearest selects the grade whose mpi rating is closest to stress.
func (g GradeTable) Nearest(stress float64) (grade string, mpi float64, err error) {
	i, ok := NearestValue(g.TensileMPI, stress)
	if !ok {
		return "", 0, fmt.Errorf("drill pipe grade near %.2f: %w", stress, ErrNoMatch)
	}
	return g.Grades[i], g.TensileMPI[i], nil
}

// DrillTable is an immutable snapshot of the drill-collar workbook.
type DrillTable struct {
	collars []float64
	grades  GradeTable
	gamma   []GammaRow
}

func NewDrillTable(collars []float64, grades GradeTable, gamma []GammaRow) *DrillTable {
	t := &DrillTable{
		collars: make([]float64, len(collars)),
		gamma:   make([]GammaRow, len(gamma)),
	}
	copy(t.collars, collars)
	copy(t.gamma, gamma)
	t.grades = GradeTable{
		Grades:     append([]string(nil), grades.Grades...),
		TensilePSI: append([]float64(nil), grades.TensilePSI...),
		TensileMPI: append([]float64(nil), grades.TensileMPI...),
	}
	return t
}

// Collars returns the collar diameter catalogue.
func (t *DrillTable) Collars() []float64 { return append([]float64(nil), t.collars...) }

// Grades returns the drill-pipe grade table.
func (t *DrillTable) Grades() GradeTable { return t.grades }

// NearestCollar rounds a diameter to the closest catalogue value.
func (t *DrillTable) NearestCollar(diameter float64) (float64, error) {
	i, ok := NearestValue(t.collars, diameter)
	if !ok {
		return 0, fmt.Errorf("collar diameter near %.2f: %w", diameter, ErrNoMatch)
	}
	return t.collars[i], nil
}

// LookupGamma returns the first row whose γ equals gamma within GammaTolerance.
func (t *DrillTable) LookupGamma(gamma float64) (GammaRow, error) {
	for _, r := range t.gamma {
		if math.Abs(r.Gamma-gamma) <= GammaTolerance {
			return r, nil
		}
	}
	return GammaRow{}, fmt.Errorf("γ %g: %w", gamma, ErrNoMatch)
}
