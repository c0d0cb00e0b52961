package casing_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"Wellbore/internal/calc/casing"
	"Wellbore/internal/formstate"
	"Wellbore/internal/reftable"
	"Wellbore/internal/reftable/reftabletest"
)

func TestHandler_CalcJSON(t *testing.T) {
	h := &casing.Handler{Tables: reftabletest.Store()}
	body := `{"initial_dcsg": 177.8, "sections": [
		{"multiplier": 1.1, "metal_type": "N-80", "target_depth": 5000},
		{"multiplier": 1.15, "metal_type": "P-110", "target_depth": 1000}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/casing/calc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Calc(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res casing.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.State != casing.StateDone || len(res.Sections) != 2 {
		t.Errorf("got state %v with %d sections", res.State, len(res.Sections))
	}
	if res.Sections[1].Role != casing.Intermediate {
		t.Errorf("second role = %q", res.Sections[1].Role)
	}
}

func TestHandler_CalcForm(t *testing.T) {
	h := &casing.Handler{Tables: reftabletest.Store()}
	form := url.Values{
		"dcsg":         {"177,8"},
		"iterations":   {"1"},
		"multiplier_1": {"1.1"},
		"metal_type_1": {"n-80"},
		"depth_1":      {"5000"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/casing/calc", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.Calc(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res casing.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Sections) != 1 || res.Sections[0].HAD == nil {
		t.Errorf("expected one evaluated section, got %+v", res.Sections)
	}
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tables reftable.Provider
		body   string
		want   int
	}{
		{"bad json", reftabletest.Store(), `{`, http.StatusBadRequest},
		{"invalid input", reftabletest.Store(), `{"initial_dcsg": 0, "sections": []}`, http.StatusBadRequest},
		{"no table", reftable.NewStore(nil, nil), `{"initial_dcsg": 1, "sections": [{"multiplier": 1, "metal_type": "N-80", "target_depth": 1}]}`, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &casing.Handler{Tables: tt.tables}
			rec := httptest.NewRecorder()
			h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestParseForm(t *testing.T) {
	v := formstate.Values{
		"dcsg":          "177.8",
		"critical_role": "Intermediate",
		"multiplier_1":  "1.1",
		"metal_type_1":  "N-80",
		"depth_1":       "5000",
		"multiplier_2":  "1,15",
		"metal_type_2":  "P-110",
		"depth_2":       "1000",
		"role_2":        "Surface section",
		"multiplier_3":  "1.2",
		"metal_type_3":  "K-55",
		"depth_3":       "500",
	}
	in, err := casing.ParseForm(v)
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	if len(in.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(in.Sections))
	}
	if in.Sections[1].Multiplier != 1.15 || in.Sections[1].Role != casing.Surface {
		t.Errorf("section 2 = %+v", in.Sections[1])
	}
	if in.CriticalRole != casing.Intermediate {
		t.Errorf("critical role = %q", in.CriticalRole)
	}

	delete(v, "depth_3")
	_, err = casing.ParseForm(v)
	var fe *formstate.FieldError
	if !errors.As(err, &fe) || fe.Field != "depth" || fe.Instance != 3 || !errors.Is(err, formstate.ErrEmpty) {
		t.Errorf("expected empty depth_3, got %v", err)
	}

	v["iterations"] = "2"
	if in, err = casing.ParseForm(v); err != nil || len(in.Sections) != 2 {
		t.Errorf("iterations should cap the sections: %v, %d", err, len(in.Sections))
	}

	v["iterations"] = "two"
	if _, err = casing.ParseForm(v); !errors.Is(err, formstate.ErrNotNumeric) {
		t.Errorf("expected ErrNotNumeric for iterations, got %v", err)
	}
}

func TestHandler_CalcShallowDepthEncodes(t *testing.T) {
	var rows []reftable.Row
	for _, ep := range []float64{0.01, 0.012, 0.02} {
		rows = append(rows, reftable.Row{
			AtHead: 194.5, AtBody: 177.8, BitSize: 215.9, InternalDiameter: 224.4,
			ExternalPressure: ep, MetalType: reftable.N80, TensileStrength: 250, UnitWeight: 26,
			Valid: reftable.AllColumns,
		})
	}
	tables := reftable.NewStore(reftable.NewCasingTable(rows, reftable.AllColumns), nil)
	h := &casing.Handler{Tables: tables}
	body := `{"initial_dcsg": 177.8, "sections": [{"multiplier": 1.1, "metal_type": "N-80", "target_depth": 1.5}]}`
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	var res casing.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	h0 := res.Sections[0].HAD
	if h0 == nil || !h0.Reachable || h0.Lengths == nil {
		t.Fatalf("expected solved lengths, got %+v", h0)
	}
	if h0.Lengths.L1 != 0 || h0.Lengths.Residual1 != nil || h0.Lengths.Converged1 {
		t.Errorf("empty scan range must report no residual, got %+v", h0.Lengths)
	}
}
