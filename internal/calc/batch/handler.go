package batch

import (
	"encoding/json"
	"errors"
	"net/http"

	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"
)

type Handler struct {
	Tables reftable.Provider
}

func (h *Handler) Casing(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(r.Context(), h.Tables, input)
	switch {
	case errors.Is(err, reftable.ErrNotLoaded):
		http.Error(w, "Casing table not loaded", http.StatusServiceUnavailable)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		logging.New("batch").Error("encode result", "err", err)
		http.Error(w, "Calculation error", http.StatusInternalServerError)
	}
}
