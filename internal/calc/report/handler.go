package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"Wellbore/internal/calc/casing"
	"Wellbore/internal/calc/drillstring"
	"Wellbore/internal/formstate"
	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"
)

type Input struct {
	Meta   `yaml:",inline"`
	Casing casing.Input     `json:"casing" yaml:"casing"`
	Values formstate.Values `json:"values,omitempty" yaml:"values,omitempty"`
}

// Build runs the calculations named by in and collects them into a Document.
func Build(ctx context.Context, p reftable.Provider, in Input) (Document, error) {
	doc := Document{Meta: in.Meta}
	switch {
	case len(in.Values) > 0:
		resp, err := drillstring.Run(ctx, p, drillstring.Request{Casing: in.Casing, Values: in.Values})
		if err != nil {
			return doc, err
		}
		doc.Casing, doc.Drill = resp.Casing, &resp.Drill
	case len(in.Casing.Sections) > 0:
		res, err := casing.Run(p, in.Casing)
		if err != nil {
			return doc, err
		}
		doc.Casing = &res
	}
	return doc, nil
}

type Handler struct {
	Tables reftable.Provider
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	doc, err := Build(r.Context(), h.Tables, input)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	if err := Render(w, doc); err != nil {
		logging.New("report").Error("render failed", "err", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

// WriteError maps a Build error to an HTTP status.
func WriteError(w http.ResponseWriter, err error) {
	var fe *formstate.FieldError
	switch {
	case errors.As(err, &fe):
		http.Error(w, fe.Error(), http.StatusBadRequest)
	case errors.Is(err, reftable.ErrNotLoaded):
		http.Error(w, "Casing table not loaded", http.StatusServiceUnavailable)
	default:
		logging.New("report").Error("build report", "err", err)
		http.Error(w, "Calculation error", http.StatusInternalServerError)
	}
}
