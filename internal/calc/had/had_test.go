package had

import (
	"math"
	"testing"

	"Wellbore/internal/reftable"
	"Wellbore/internal/reftable/reftabletest"
)

func productionRows(t *testing.T) []reftable.Row {
	t.Helper()
	rows, err := reftabletest.Casing().FindMatchingRows(194.5, reftable.N80)
	if err != nil {
		t.Fatalf("FindMatchingRows: %v", err)
	}
	return rows
}

func TestSafetyCoefficient(t *testing.T) {
	tests := []struct {
		metal reftable.MetalType
		want  float64
	}{
		{reftable.K55, 1.05},
		{reftable.L80, 1.08},
		{reftable.N80, 1.08},
		{reftable.P110, 1.125},
		{reftable.Q125, 1.125},
		{reftable.T95, 1.125},
		{reftable.C90, 1.125},
		{reftable.MetalType("J-55"), 1.08},
	}
	for _, tt := range tests {
		if got := SafetyCoefficient(tt.metal); got != tt.want {
			t.Errorf("SafetyCoefficient(%s) = %v, want %v", tt.metal, got, tt.want)
		}
	}
}

func TestCriticalDepth(t *testing.T) {
	got := CriticalDepth(40, reftable.N80)
	if math.Abs(got-3429.3553) > 1e-3 {
		t.Errorf("CriticalDepth(40, N-80) = %v", got)
	}
	got = CriticalDepth(40, reftable.K55)
	if want := 4000 / (1.05 * 1.08); math.Abs(got-want) > 1e-9 {
		t.Errorf("CriticalDepth(40, K-55) = %v, want %v", got, want)
	}
}

func TestEvaluate_ThreeCandidates(t *testing.T) {
	res := Evaluate(5000, productionRows(t))
	if !res.Reachable {
		t.Fatal("expected reachable")
	}
	if res.AtHeadKey != 194.5 {
		t.Errorf("AtHeadKey = %v", res.AtHeadKey)
	}
	if len(res.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(res.Candidates))
	}
	for i := 1; i < len(res.Candidates); i++ {
		if res.Candidates[i-1].HAD < res.Candidates[i].HAD {
			t.Errorf("candidates not sorted descending at %d", i)
		}
	}
	if res.Candidates[0].ExternalPressure != 65 {
		t.Errorf("first candidate should be the 65 MPa row, got %v", res.Candidates[0].ExternalPressure)
	}
	if res.Lengths == nil {
		t.Fatal("expected lengths")
	}
	if res.Lengths.HasL4 {
		t.Error("no fourth candidate, l4 must be skipped")
	}
	if res.Lengths.L1 != 496 || res.Lengths.L2 != 1303 {
		t.Errorf("l1, l2 = %v, %v; want 496, 1303", res.Lengths.L1, res.Lengths.L2)
	}
	for i, c := range res.Candidates {
		if !c.HasLength {
			t.Errorf("candidate %d has no length", i)
		}
	}
	if res.Candidates[2].Length != res.Lengths.L3 {
		t.Errorf("third candidate length %v, want l3 %v", res.Candidates[2].Length, res.Lengths.L3)
	}
}

func TestEvaluate_FourCandidates(t *testing.T) {
	res := Evaluate(6000, productionRows(t))
	if !res.Reachable || len(res.Candidates) != 4 {
		t.Fatalf("expected reachable with 4 candidates, got %v/%d", res.Reachable, len(res.Candidates))
	}
	if res.Lengths == nil || !res.Lengths.HasL4 {
		t.Fatal("expected the l4 path")
	}
	if !res.Candidates[3].HasLength || res.Candidates[3].Length != res.Lengths.L4 {
		t.Errorf("fourth candidate length = %v, want %v", res.Candidates[3].Length, res.Lengths.L4)
	}
	if res.Candidates[0].HAD != CriticalDepth(75, reftable.N80) {
		t.Errorf("first candidate should carry the maximum HAD")
	}
}

func TestEvaluate_StopsAtFirstReachingRow(t *testing.T) {
	res := Evaluate(4000, productionRows(t))
	if !res.Reachable {
		t.Fatal("expected reachable")
	}
	if len(res.Candidates) != 2 {
		t.Errorf("expected evaluation to stop after the 55 MPa row, got %d candidates", len(res.Candidates))
	}
	if res.Lengths != nil {
		t.Error("fewer than 3 candidates must not be solved")
	}
}

func TestEvaluate_Unreachable(t *testing.T) {
	res := Evaluate(7000, productionRows(t))
	if res.Reachable {
		t.Fatal("expected unreachable")
	}
	if res.Lengths != nil {
		t.Error("no lengths expected")
	}
	if len(res.Candidates) != 4 {
		t.Errorf("expected all 4 evaluated candidates, got %d", len(res.Candidates))
	}

	res = Evaluate(1000, nil)
	if res.Reachable || len(res.Candidates) != 0 {
		t.Errorf("no rows must be unreachable, got %+v", res)
	}
}

func TestEvaluate_BucketsByAtHead(t *testing.T) {
	rows := []reftable.Row{
		{AtHead: 194.5, ExternalPressure: 20, MetalType: reftable.N80, TensileStrength: 300, UnitWeight: 30},
		{AtHead: 244.5, ExternalPressure: 20, MetalType: reftable.N80, TensileStrength: 300, UnitWeight: 30},
		{AtHead: 244.5, ExternalPressure: 70, MetalType: reftable.N80, TensileStrength: 300, UnitWeight: 30},
	}
	res := Evaluate(5000, rows)
	if res.AtHeadKey != 244.5 {
		t.Errorf("AtHeadKey = %v, want 244.5", res.AtHeadKey)
	}
	if len(res.Candidates) != 2 {
		t.Errorf("expected only the 244.5 bucket, got %d candidates", len(res.Candidates))
	}
}
