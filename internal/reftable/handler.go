package reftable

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"Wellbore/internal/logging"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Store *Store
}

type UploadResult struct {
	Kind    string   `json:"kind"`
	Rows    int      `json:"rows"`
	Missing []string `json:"missing_columns,omitempty"`
}

// UploadCasing replaces the active casing table with the uploaded workbook.
func (h *Handler) UploadCasing(w http.ResponseWriter, r *http.Request) {
	file, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	t, err := LoadCasing(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	h.Store.SetCasing(t)
	logging.New("reftable").Info("casing table replaced", "rows", t.Len())

	res := UploadResult{Kind: "casing", Rows: t.Len(), Missing: t.Columns().missing(AllColumns)}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// UploadDrill replaces the active drill-collar table with the uploaded workbook.
func (h *Handler) UploadDrill(w http.ResponseWriter, r *http.Request) {
	file, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	t, err := LoadDrill(file)
	if err != nil {
		var ce *ColumnsError
		if errors.As(err, &ce) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(UploadResult{Kind: "drill", Missing: ce.Missing})
			return
		}
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	h.Store.SetDrill(t)
	logging.New("reftable").Info("drill table replaced", "collars", len(t.collars), "grades", t.grades.Len())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UploadResult{Kind: "drill", Rows: len(t.gamma)})
}

func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return nil, false
	}
	return file, true
}
