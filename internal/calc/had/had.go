// Package had evaluates the critical collapse depth (HAD) of casing
// candidates and solves the section lengths of the winning candidate set.
package had

import (
	"math"
	"sort"

	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"
)

const (
	DefaultSafety  = 1.08
	collapseScale  = 100 // MPa to depth units
	collapseSafety = 1.08
)

var safety = map[reftable.MetalType]float64{
	reftable.K55:  1.05,
	reftable.L80:  1.08,
	reftable.N80:  1.08,
	reftable.P110: 1.125,
	reftable.Q125: 1.125,
	reftable.T95:  1.125,
	reftable.C90:  1.125,
}

// SafetyCoefficient returns the collapse safety coefficient of a grade.
func SafetyCoefficient(m reftable.MetalType) float64 {
	if s, ok := safety[m]; ok {
		return s
	}
	return DefaultSafety
}

// CriticalDepth is the depth at which the external pressure rating reaches
// the safety-adjusted limit.
func CriticalDepth(externalPressure float64, m reftable.MetalType) float64 {
	return (collapseScale * externalPressure) / (SafetyCoefficient(m) * collapseSafety)
}

// Candidate is one casing option ranked by critical depth.
type Candidate struct {
	HAD              float64            `json:"had"`
	ExternalPressure float64            `json:"external_pressure"`
	MetalType        reftable.MetalType `json:"metal_type"`
	TensileStrength  float64            `json:"tensile_strength"`
	UnitWeight       float64            `json:"unit_weight"`
	Length           float64            `json:"l_value,omitempty"`
	HasLength        bool               `json:"has_length"`
}

// Key buckets an at-head diameter to two decimals.
func Key(atHead float64) float64 {
	return math.Round(atHead*100) / 100
}

// Result is the outcome of one evaluation.
type Result struct {
	TargetDepth float64     `json:"target_depth"`
	Reachable   bool        `json:"reachable"`
	AtHeadKey   float64     `json:"at_head_key,omitempty"`
	Candidates  []Candidate `json:"candidates"`
	Lengths     *Lengths    `json:"lengths,omitempty"`

	// LengthsError says why Lengths is missing for a reachable result with
	// at least 3 candidates.
	LengthsError string `json:"lengths_error,omitempty"`
}

// Evaluate walks rows in table order, bucketing candidates by at-head key,
// and stops on the first row whose HAD reaches depth. That row's bucket is
// sorted by descending HAD and, with at least 3 entries, gets section
// lengths attached. Unreachable results list every evaluated candidate in
// table order.
func Evaluate(depth float64, rows []reftable.Row) Result {
	logger := logging.New("had")
	res := Result{TargetDepth: depth}

	buckets := map[float64][]Candidate{}
	var seen []Candidate
	for _, r := range rows {
		c := Candidate{
			HAD:              CriticalDepth(r.ExternalPressure, r.MetalType),
			ExternalPressure: r.ExternalPressure,
			MetalType:        r.MetalType,
			TensileStrength:  r.TensileStrength,
			UnitWeight:       r.UnitWeight,
		}
		key := Key(r.AtHead)
		buckets[key] = append(buckets[key], c)
		seen = append(seen, c)

		if c.HAD < depth {
			continue
		}

		sorted := append([]Candidate(nil), buckets[key]...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].HAD > sorted[j].HAD })

		res.Reachable = true
		res.AtHeadKey = key
		res.Candidates = sorted
		if len(sorted) >= 3 {
			l, err := SolveLengths(sorted, depth)
			if err != nil {
				logger.Warn("section lengths not solved", "at_head", key, "depth", depth, "err", err)
				res.LengthsError = err.Error()
			} else {
				res.Lengths = &l
				for i, v := range l.Values() {
					sorted[i].Length = v
					sorted[i].HasLength = true
				}
				logger.Info("section lengths solved",
					"at_head", key, "depth", depth, "candidates", len(sorted),
					"l1", l.L1, "l2", l.L2, "l3", l.L3, "has_l4", l.HasL4)
			}
		}
		for i, c := range sorted {
			logger.Debug("candidate", "rank", i+1, "had", c.HAD, "metal", c.MetalType,
				"tensile", c.TensileStrength, "unit_weight", c.UnitWeight, "l_value", c.Length)
		}
		return res
	}

	res.Candidates = seen
	logger.Info("target depth unreachable", "depth", depth, "rows", len(rows))
	return res
}
