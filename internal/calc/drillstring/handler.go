package drillstring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"Wellbore/internal/calc/casing"
	"Wellbore/internal/formstate"
	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"
)

var ErrNoInput = errors.New("either values or input is required")

// Request pairs the casing chain that supplies the section diameters with
// the drill-string parameters, given either as raw form values or already
// structured.
type Request struct {
	Casing casing.Input     `json:"casing" yaml:"casing"`
	Values formstate.Values `json:"values,omitempty" yaml:"values,omitempty"`
	Input  *Input           `json:"input,omitempty" yaml:"input,omitempty"`
}

type Response struct {
	Casing *casing.Result `json:"casing,omitempty"`
	Drill  Result         `json:"drill"`
}

// Run parses the request, runs the casing chain when sections are given,
// and evaluates the instances against the provider's drill table.
func Run(ctx context.Context, p reftable.Provider, req Request) (Response, error) {
	var in Input
	switch {
	case req.Values != nil:
		parsed, err := ParseForm(req.Values)
		if err != nil {
			return Response{}, err
		}
		in = parsed
	case req.Input != nil:
		in = *req.Input
	default:
		return Response{}, ErrNoInput
	}
	if err := in.Validate(); err != nil {
		return Response{}, err
	}

	// One snapshot serves the collar lookup of the chain and the γ and grade
	// lookups below.
	p = reftable.Pin(p)

	var resp Response
	var d Diameters
	if len(req.Casing.Sections) > 0 {
		cr, err := casing.Run(p, req.Casing)
		if err != nil {
			return Response{}, err
		}
		resp.Casing = &cr
		d = cr
	}

	table, err := p.Drill()
	if err != nil && !errors.Is(err, reftable.ErrNotLoaded) {
		return Response{}, err
	}

	resp.Drill, err = Calculate(ctx, in, table, d)
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

type Handler struct {
	Tables reftable.Provider
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	resp, err := Run(r.Context(), h.Tables, req)
	if err != nil {
		var fe *formstate.FieldError
		switch {
		case errors.As(err, &fe), errors.Is(err, ErrNoInput), errors.Is(err, ErrInstanceCount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, reftable.ErrNotLoaded):
			http.Error(w, "Casing table not loaded", http.StatusServiceUnavailable)
		default:
			http.Error(w, "Calculation error", http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.New("drillstring").Error("encode result", "err", err)
		http.Error(w, "Calculation error", http.StatusInternalServerError)
	}
}
