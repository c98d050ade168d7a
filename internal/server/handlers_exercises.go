package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/heraheo/JuniFit-sub000/internal/models"
	"github.com/heraheo/JuniFit-sub000/internal/workout"
)

// handleListExercises returns the exercise catalog, filtered by the q
// query parameter when present. A blank query returns the head of the
// catalog; matching is literal, case-insensitive, then punctuation- and
// space-insensitive, against names and aliases.
func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context())
	if err != nil {
		s.log.Error("listing exercises", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	filtered := workout.FilterExercises(exercises, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{
		"exercises": filtered,
		"count":     len(filtered),
	})
}

type createExerciseRequest struct {
	Name       string            `json:"name"`
	BodyPart   string            `json:"bodyPart"`
	RecordType models.RecordType `json:"recordType"`
	Aliases    []string          `json:"aliases"`
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req createExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !req.RecordType.Valid() {
		writeError(w, http.StatusBadRequest, "recordType must be weight_reps, reps_only or time")
		return
	}

	ex, err := s.db.CreateExercise(r.Context(), req.Name, req.BodyPart, req.RecordType, req.Aliases)
	if err != nil {
		s.log.Error("creating exercise", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}
