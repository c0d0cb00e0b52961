// Package project saves and reloads the sizing form of a user, and re-runs
// the calculations stored in it.
package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"Wellbore/internal/auth"
	"Wellbore/internal/calc/report"
	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"
	"Wellbore/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxNameLen = 200

type Handler struct {
	Repo   repo.ProjectRepository
	Tables reftable.Provider
}

type SaveRequest struct {
	ID   string       `json:"id,omitempty"`
	Name string       `json:"name"`
	Data report.Input `json:"data"`
}

type Project struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Data      report.Input `json:"data"`
	UpdatedAt string       `json:"updated_at"`
}

func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Save stores the form under a new id, or overwrites the project named by req.ID.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > maxNameLen {
		http.Error(w, "Project name required", http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		req.ID = uuid.NewString()
		status = http.StatusCreated
	} else if _, err := uuid.Parse(req.ID); err != nil {
		http.Error(w, "Invalid project id", http.StatusBadRequest)
		return
	}

	data, err := json.Marshal(req.Data)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	saved, err := h.Repo.SaveProject(r.Context(), repo.Project{ID: req.ID, UserID: uid, Name: req.Name, Data: data})
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.New("project").Error("save project", "id", req.ID, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	saved.Data = nil
	writeJSON(w, status, saved)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	list, err := h.Repo.ListProjects(r.Context(), uid)
	if err != nil {
		logging.New("project").Error("list projects", "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []repo.Project{}
	}
	writeJSON(w, http.StatusOK, list)
}

// load fetches the project named in the route and decodes its form.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (Project, bool) {
	uid, ok := userID(w, r)
	if !ok {
		return Project{}, false
	}
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "Invalid project id", http.StatusBadRequest)
		return Project{}, false
	}

	stored, err := h.Repo.GetProject(r.Context(), uid, id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Project not found", http.StatusNotFound)
		return Project{}, false
	}
	if err != nil {
		logging.New("project").Error("load project", "id", id, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return Project{}, false
	}

	p := Project{ID: stored.ID, Name: stored.Name, UpdatedAt: stored.UpdatedAt.Format(time.RFC3339)}
	if err := json.Unmarshal(stored.Data, &p.Data); err != nil {
		logging.New("project").Error("decode project", "id", id, "err", err)
		http.Error(w, "Corrupt project data", http.StatusInternalServerError)
		return Project{}, false
	}
	return p, true
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.load(w, r); ok {
		writeJSON(w, http.StatusOK, p)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	err := h.Repo.DeleteProject(r.Context(), uid, mux.Vars(r)["id"])
	switch {
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, "Project not found", http.StatusNotFound)
	case err != nil:
		logging.New("project").Error("delete project", "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// Report renders the stored project as a PDF with the current reference tables.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	if p.Data.Project == "" {
		p.Data.Project = p.Name
	}
	doc, err := report.Build(r.Context(), h.Tables, p.Data)
	if err != nil {
		report.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"project-"+p.ID+".pdf\"")
	if err := report.Render(w, doc); err != nil {
		logging.New("project").Error("render report", "id", p.ID, "err", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
	}
}
