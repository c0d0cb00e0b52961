package autodesign_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"Wellbore/internal/calc/autodesign"
	"Wellbore/internal/calc/casing"
	"Wellbore/internal/reftable"
	"Wellbore/internal/reftable/reftabletest"
)

func input(depth float64) casing.Input {
	return casing.Input{
		InitialDCSG: 177.8,
		Sections: []casing.SectionInput{
			{Multiplier: 1.1, TargetDepth: depth},
			{Multiplier: 1.15, MetalType: reftable.P110, TargetDepth: 1000},
			{Multiplier: 1.2, MetalType: reftable.K55, TargetDepth: 500},
		},
	}
}

func TestCasing_RecommendsReachableGrade(t *testing.T) {
	res, err := autodesign.Casing(context.Background(), reftabletest.Store(), input(5000))
	if err != nil {
		t.Fatalf("Casing: %v", err)
	}
	if res.Recommended != reftable.N80 {
		t.Errorf("recommended = %q", res.Recommended)
	}
	if len(res.Options) != len(reftable.MetalTypes) {
		t.Fatalf("got %d options", len(res.Options))
	}
	best := res.Options[0]
	if !best.Reachable || best.Weight <= 0 || best.TotalLength <= 0 {
		t.Errorf("best option = %+v", best)
	}
	for _, o := range res.Options[1:] {
		if o.Reachable || o.Reason == "" {
			t.Errorf("option %s should be unreachable with a reason: %+v", o.MetalType, o)
		}
	}
	if res.Chain == nil || res.Chain.State != casing.StateDone || res.Chain.Sections[0].MetalType != reftable.N80 {
		t.Errorf("chain = %+v", res.Chain)
	}
}

func TestCasing_NoCandidate(t *testing.T) {
	res, err := autodesign.Casing(context.Background(), reftabletest.Store(), input(7000))
	if !errors.Is(err, autodesign.ErrNoCandidate) {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}
	if res.Recommended != "" || len(res.Options) != len(reftable.MetalTypes) {
		t.Errorf("result = %+v", res)
	}
}

func TestCasing_DoesNotMutateInput(t *testing.T) {
	in := input(5000)
	if _, err := autodesign.Casing(context.Background(), reftabletest.Store(), in); err != nil {
		t.Fatal(err)
	}
	if in.Sections[0].MetalType != "" {
		t.Errorf("caller's input changed: %+v", in.Sections[0])
	}
}

func TestHandler_Casing(t *testing.T) {
	h := &autodesign.Handler{Tables: reftabletest.Store()}
	for _, tc := range []struct {
		name string
		in   casing.Input
		want int
	}{
		{"recommended", input(5000), http.StatusOK},
		{"no candidate", input(7000), http.StatusOK},
		{"invalid", casing.Input{}, http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.in)
			rec := httptest.NewRecorder()
			h.Casing(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/casing/autodesign", bytes.NewReader(body)))
			if rec.Code != tc.want {
				t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
