// Package autodesign picks the metal type for the critical section by trying
// every known grade.
package autodesign

import (
	"context"
	"errors"
	"slices"

	"Wellbore/internal/calc/batch"
	"Wellbore/internal/calc/casing"
	"Wellbore/internal/reftable"
)

var ErrNoCandidate = errors.New("no metal type reaches the target depth")

// Option is the chain obtained with one metal type on the critical section.
// Weight sums length times unit weight over the solved candidates and is
// meaningful only when HasLengths is set. A closed-form length may come out
// negative, so Weight itself can be zero or below.
type Option struct {
	MetalType   reftable.MetalType `json:"metal_type"`
	Reachable   bool               `json:"reachable"`
	HasLengths  bool               `json:"has_lengths"`
	TopHAD      float64            `json:"top_had,omitempty"`
	TotalLength float64            `json:"total_length,omitempty"`
	Weight      float64            `json:"weight,omitempty"`
	Reason      string             `json:"reason,omitempty"`
}

type Result struct {
	Recommended reftable.MetalType `json:"recommended"`
	Options     []Option           `json:"options"`
	Chain       *casing.Result     `json:"chain"`
}

// Casing runs in once per metal type, replacing the critical section's metal.
// Reachable options come first, lightest before heavier; options without
// solved lengths follow the weighed ones.
func Casing(ctx context.Context, p reftable.Provider, in casing.Input) (Result, error) {
	// Only the critical section uses its metal type, and that one is replaced below.
	in.Sections = slices.Clone(in.Sections)
	for i := range in.Sections {
		if in.Sections[i].MetalType == "" {
			in.Sections[i].MetalType = reftable.MetalTypes[0]
		}
	}
	norm, err := in.Normalize()
	if err != nil {
		return Result{}, err
	}
	critical := slices.IndexFunc(norm.Sections, func(s casing.SectionInput) bool { return s.Role == norm.CriticalRole })

	items := make([]casing.Input, len(reftable.MetalTypes))
	for i, m := range reftable.MetalTypes {
		items[i] = norm
		items[i].Sections = slices.Clone(norm.Sections)
		if critical >= 0 {
			items[i].Sections[critical].MetalType = m
		}
	}
	runs, err := batch.Calculate(ctx, p, batch.Input{Items: items})
	if err != nil {
		return Result{}, err
	}

	res := Result{Options: make([]Option, len(items))}
	chains := make(map[reftable.MetalType]*casing.Result, len(items))
	for i, run := range runs.Results {
		m := reftable.MetalTypes[i]
		opt := Option{MetalType: m}
		if run.Err != nil {
			opt.Reason = run.Error
			res.Options[i] = opt
			continue
		}
		chains[m] = run.Result
		if run.Result.State == casing.StateFailed {
			opt.Reason = run.Result.Reason
		}
		if h := run.Result.HAD(); h != nil && h.Reachable {
			opt.Reachable = true
			if len(h.Candidates) > 0 {
				opt.TopHAD = h.Candidates[0].HAD
			}
			if h.Lengths != nil {
				opt.HasLengths = true
				opt.TotalLength = h.Lengths.Total()
				for _, c := range h.Candidates {
					if c.HasLength {
						opt.Weight += c.Length * c.UnitWeight
					}
				}
			}
		}
		res.Options[i] = opt
	}

	slices.SortStableFunc(res.Options, compare)
	if best := res.Options[0]; best.Reachable {
		res.Recommended = best.MetalType
		res.Chain = chains[best.MetalType]
		return res, nil
	}
	return res, ErrNoCandidate
}

func compare(a, b Option) int {
	switch {
	case a.Reachable != b.Reachable:
		if a.Reachable {
			return -1
		}
		return 1
	case a.HasLengths != b.HasLengths:
		if a.HasLengths {
			return -1
		}
		return 1
	case !a.HasLengths:
		return 0
	case a.Weight < b.Weight:
		return -1
	case a.Weight > b.Weight:
		return 1
	}
	return 0
}
