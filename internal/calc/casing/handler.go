package casing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"Wellbore/internal/formstate"
	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"
)

type Handler struct {
	Tables reftable.Provider
}

// Calc accepts either a JSON Input or url-encoded form values.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := Run(h.Tables, in)
	if err != nil {
		var fe *formstate.FieldError
		switch {
		case errors.As(err, &fe):
			http.Error(w, fe.Error(), http.StatusBadRequest)
		case errors.Is(err, reftable.ErrNotLoaded):
			http.Error(w, "Casing table not loaded", http.StatusServiceUnavailable)
		default:
			http.Error(w, "Calculation error", http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		logging.New("casing").Error("encode result", "err", err)
		http.Error(w, "Calculation error", http.StatusInternalServerError)
	}
}

func decodeInput(r *http.Request) (Input, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return Input{}, errors.New("invalid form")
		}
		v := formstate.Values{}
		for k := range r.PostForm {
			v[k] = r.PostForm.Get(k)
		}
		return ParseForm(v)
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return Input{}, errors.New("invalid request payload")
	}
	return in, nil
}
