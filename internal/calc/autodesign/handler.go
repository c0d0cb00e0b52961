package autodesign

import (
	"encoding/json"
	"errors"
	"net/http"

	"Wellbore/internal/calc/casing"
	"Wellbore/internal/formstate"
	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"
)

type Handler struct {
	Tables reftable.Provider
}

func (h *Handler) Casing(w http.ResponseWriter, r *http.Request) {
	var input casing.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Casing(r.Context(), h.Tables, input)
	var fe *formstate.FieldError
	switch {
	case errors.As(err, &fe):
		http.Error(w, fe.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, reftable.ErrNotLoaded):
		http.Error(w, "Casing table not loaded", http.StatusServiceUnavailable)
		return
	case errors.Is(err, ErrNoCandidate):
		// Options still explain why each grade failed.
	case err != nil:
		http.Error(w, "Calculation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		logging.New("autodesign").Error("encode result", "err", err)
		http.Error(w, "Calculation error", http.StatusInternalServerError)
	}
}
