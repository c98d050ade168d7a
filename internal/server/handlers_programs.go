package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/storage"
)

type programRequest struct {
	Title       string                         `json:"title"`
	Description string                         `json:"description"`
	TargetRPE   *float64                       `json:"targetRpe"`
	Exercises   []storage.ProgramExerciseInput `json:"exercises"`
}

func (req *programRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	if len(req.Exercises) == 0 {
		return "at least one exercise is required"
	}
	for _, ex := range req.Exercises {
		if ex.ExerciseID == uuid.Nil {
			return "exerciseId is required for every slot"
		}
		if ex.TargetSets < 1 {
			return "targetSets must be at least 1"
		}
		if ex.RestSeconds < 0 {
			return "restSeconds cannot be negative"
		}
	}
	return ""
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	programs, err := s.db.ListPrograms(r.Context(), profile.ID)
	if err != nil {
		s.log.Error("listing programs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"programs": programs, "count": len(programs)})
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var req programRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	program, err := s.db.CreateProgram(r.Context(), profile.ID, req.Title, req.Description, req.TargetRPE, req.Exercises)
	if err != nil {
		s.log.Error("creating program", "title", req.Title, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, program)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program id")
		return
	}

	program, err := s.db.GetProgram(r.Context(), id, profile.ID)
	if err != nil {
		if errors.Is(err, storage.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, "program not found")
			return
		}
		s.log.Error("getting program", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (s *Server) handleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program id")
		return
	}

	var req programRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	program, err := s.db.UpdateProgram(r.Context(), id, profile.ID, req.Title, req.Description, req.TargetRPE, req.Exercises)
	if err != nil {
		if errors.Is(err, storage.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, "program not found")
			return
		}
		s.log.Error("updating program", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (s *Server) handleArchiveProgram(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program id")
		return
	}

	if err := s.db.ArchiveProgram(r.Context(), id, profile.ID); err != nil {
		if errors.Is(err, storage.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, "program not found")
			return
		}
		s.log.Error("archiving program", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
