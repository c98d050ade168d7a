package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/storage"
	"github.com/heraheo/JuniFit-sub000/internal/workout"
)

// handleListSessions returns the profile's workout history in a time
// range, newest first. Defaults to the last 30 days.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessions, err := s.db.QuerySessions(r.Context(), profile.ID, start, end)
	if err != nil {
		s.log.Error("querying sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "count": len(sessions)})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := s.db.GetSession(r.Context(), id, profile.ID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.log.Error("getting session", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	sets, err := s.db.QuerySessionSets(r.Context(), id)
	if err != nil {
		s.log.Error("querying session sets", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"session": session, "sets": sets})
}

type editSetsRequest struct {
	Edits map[uuid.UUID]workout.SetEdit `json:"edits"`
}

// handleEditSessionSets reconciles user-edited set values against the
// stored sets. Only changed sets are written; null fields stay null.
func (s *Server) handleEditSessionSets(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req editSetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Edits) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"changed": false})
		return
	}

	// Ownership check before touching any set.
	if _, err := s.db.GetSession(r.Context(), id, profile.ID); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.log.Error("getting session", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	originals, err := s.db.QuerySessionSets(r.Context(), id)
	if err != nil {
		s.log.Error("querying session sets", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	changed, err := workout.ApplyEdits(r.Context(), s.db, originals, req.Edits)
	if err != nil {
		s.log.Error("applying set edits", "session", id, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"changed": changed})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	deleted, err := s.db.DeleteSession(r.Context(), id, profile.ID)
	if err != nil {
		s.log.Error("deleting session", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
