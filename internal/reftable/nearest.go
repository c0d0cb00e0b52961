package reftable

import "math"

// NearestValue returns the index of the candidate closest to target.
// NaN and infinite entries are skipped; ties go to the earliest index.
func NearestValue(candidates []float64, target float64) (int, bool) {
	best := -1
	bestDiff := math.Inf(1)
	for i, c := range candidates {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			continue
		}
		if d := math.Abs(c - target); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best, best >= 0
}
