package had

import (
	"errors"
	"math"
)

const (
	// ConvergenceTolerance bounds |y²+z²+yz−1| for an accepted length.
	ConvergenceTolerance = 1e-4

	lbsFtToKgM    = 1.488 // unit weight conversion used by the load terms
	tensileFactor = 1000  // Tonf to the load scale of the interaction law
	tensileSafety = 1.75  // design factor in the closed-form lengths
)

var (
	ErrTooFewCandidates = errors.New("at least 3 candidates are required")
	ErrNotFinite        = errors.New("section length is not a finite number")
)

// Lengths are the solved section lengths. L4 is set only when the first three
// sections do not cover the depth and a fourth candidate exists.
//
// L1 and L2 come from a whole-unit scan over [1, bound): the solver does not
// refine between integers. When no integer reaches ConvergenceTolerance the
// best residual seen is kept and Converged is false. A residual is nil when
// its scan range held no integer; that length stays 0.
type Lengths struct {
	L1         float64  `json:"l1"`
	L2         float64  `json:"l2"`
	L3         float64  `json:"l3"`
	L4         float64  `json:"l4,omitempty"`
	HasL4      bool     `json:"has_l4"`
	Residual1  *float64 `json:"residual1"`
	Residual2  *float64 `json:"residual2"`
	Converged1 bool     `json:"converged1"`
	Converged2 bool     `json:"converged2"`
}

// Total is the sum of the solved lengths.
func (l Lengths) Total() float64 {
	t := l.L1 + l.L2 + l.L3
	if l.HasL4 {
		t += l.L4
	}
	return t
}

// Values returns the lengths in section order.
func (l Lengths) Values() []float64 {
	out := []float64{l.L1, l.L2, l.L3}
	if l.HasL4 {
		out = append(out, l.L4)
	}
	return out
}

// Interaction evaluates the biaxial load law y²+z²+yz.
func Interaction(y, z float64) float64 {
	return y*y + z*z + y*z
}

// Stage1 returns (y1, z1) for a trial l1.
func Stage1(c []Candidate, depth, l1 float64) (y, z float64) {
	y = (depth - l1) / c[1].HAD
	z = (l1 * c[0].UnitWeight * lbsFtToKgM) / (c[1].TensileStrength * tensileFactor)
	return y, z
}

// Stage2 returns (y2, z2) for a trial l2 given the accepted l1.
func Stage2(c []Candidate, depth, l1, l2 float64) (y, z float64) {
	y = (depth - (l1 + l2)) / c[2].HAD
	z = (l2*c[0].UnitWeight + l2*c[1].UnitWeight) * lbsFtToKgM / (c[2].TensileStrength * tensileFactor)
	return y, z
}

// SolveLengths solves l1..l3 (and l4) for candidates sorted by descending HAD.
func SolveLengths(c []Candidate, depth float64) (Lengths, error) {
	if len(c) < 3 {
		return Lengths{}, ErrTooFewCandidates
	}
	var out Lengths

	out.L1, out.Residual1 = scan(int(depth), func(l float64) float64 {
		return math.Abs(Interaction(Stage1(c, depth, l)) - 1)
	})
	out.Converged1 = converged(out.Residual1)

	out.L2, out.Residual2 = scan(int(depth-out.L1), func(l float64) float64 {
		return math.Abs(Interaction(Stage2(c, depth, out.L1, l)) - 1)
	})
	out.Converged2 = converged(out.Residual2)

	out.L3 = closedForm(c[2].TensileStrength, c[2].UnitWeight,
		out.L1*c[0].UnitWeight+out.L2*c[1].UnitWeight)

	if out.L1+out.L2+out.L3 < depth && len(c) > 3 {
		out.L4 = closedForm(c[3].TensileStrength, c[3].UnitWeight,
			out.L1*c[0].UnitWeight+out.L2*c[1].UnitWeight+out.L3*c[2].UnitWeight)
		out.HasL4 = true
	}
	for _, v := range out.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return out, ErrNotFinite
		}
	}
	return out, nil
}

func converged(residual *float64) bool {
	return residual != nil && *residual < ConvergenceTolerance
}

// scan walks l = 1, 2, ..., bound-1 and keeps the smallest residual,
// stopping as soon as it drops below ConvergenceTolerance. An empty range
// yields l = 0 and a nil residual.
func scan(bound int, residual func(float64) float64) (best float64, bestResidual *float64) {
	for i := 1; i < bound; i++ {
		l := float64(i)
		d := residual(l)
		if bestResidual == nil || d < *bestResidual {
			best, bestResidual = l, &d
		}
		if d < ConvergenceTolerance {
			break
		}
	}
	return best, bestResidual
}

// closedForm solves the next length from the remaining tensile capacity of
// a section after the weight already hung below it.
func closedForm(tensile, unitWeight, weightBelow float64) float64 {
	return (tensile*tensileFactor/tensileSafety - weightBelow*lbsFtToKgM) / (unitWeight * lbsFtToKgM)
}
