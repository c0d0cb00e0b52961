package autodesign

import (
	"slices"
	"testing"

	"Wellbore/internal/reftable"

	"github.com/google/go-cmp/cmp"
)

func TestCompare_NonPositiveWeightStillWeighed(t *testing.T) {
	opts := []Option{
		{MetalType: reftable.K55, Reachable: true},
		{MetalType: reftable.N80, Reachable: true, HasLengths: true, Weight: 900},
		{MetalType: reftable.L80},
		{MetalType: reftable.P110, Reachable: true, HasLengths: true, Weight: -120},
		{MetalType: reftable.C90, Reachable: true, HasLengths: true, Weight: 0},
	}
	slices.SortStableFunc(opts, compare)

	var got []reftable.MetalType
	for _, o := range opts {
		got = append(got, o.MetalType)
	}
	want := []reftable.MetalType{reftable.P110, reftable.C90, reftable.N80, reftable.K55, reftable.L80}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}
