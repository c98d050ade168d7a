package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/storage"
	"github.com/heraheo/JuniFit-sub000/internal/workout"
)

// workoutView is the JSON snapshot of a live workout: everything a
// client needs to render the session screen.
type workoutView struct {
	SessionID      uuid.UUID      `json:"sessionId"`
	ProgramID      uuid.UUID      `json:"programId"`
	ProgramTitle   string         `json:"programTitle"`
	StartedAt      time.Time      `json:"startedAt"`
	Exercises      []exerciseView `json:"exercises"`
	Timer          timerView      `json:"timer"`
	RestsCompleted int64          `json:"restsCompleted"`
}

type exerciseView struct {
	ExerciseID   uuid.UUID          `json:"exerciseId"`
	Name         string             `json:"name"`
	RecordType   string             `json:"recordType"`
	RestSeconds  int                `json:"restSeconds"`
	Intention    string             `json:"intention,omitempty"`
	Note         string             `json:"note"`
	Sets         []workout.SetInput `json:"sets"`
	AllCompleted bool               `json:"allCompleted"`
}

type timerView struct {
	State     workout.TimerState `json:"state"`
	Remaining int                `json:"remaining"`
	Total     int                `json:"total"`
}

func snapshotWorkout(lw *liveWorkout) workoutView {
	view := workoutView{
		SessionID:      lw.SessionID,
		ProgramID:      lw.Program.ID,
		ProgramTitle:   lw.Program.Title,
		StartedAt:      lw.StartedAt,
		RestsCompleted: lw.restsDone.Load(),
	}
	for _, pe := range lw.Program.Exercises {
		view.Exercises = append(view.Exercises, exerciseView{
			ExerciseID:   pe.ExerciseID,
			Name:         pe.ExerciseName,
			RecordType:   string(pe.RecordType),
			RestSeconds:  pe.RestSeconds,
			Intention:    pe.Intention,
			Note:         lw.Session.Note(pe.ExerciseID),
			Sets:         lw.Session.Sets(pe.ExerciseID),
			AllCompleted: !lw.Session.HasIncompleteSets(pe.ExerciseID),
		})
	}
	state, remaining, total := lw.Session.Timer().State()
	view.Timer = timerView{State: state, Remaining: remaining, Total: total}
	return view
}

type startWorkoutRequest struct {
	ProgramID uuid.UUID `json:"programId"`
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var req startWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProgramID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "programId is required")
		return
	}

	program, err := s.db.GetProgram(r.Context(), req.ProgramID, profile.ID)
	if err != nil {
		if errors.Is(err, storage.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, "program not found")
			return
		}
		s.log.Error("loading program", "id", req.ProgramID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	session, err := s.db.CreateSession(r.Context(), profile.ID, &program.ID)
	if err != nil {
		s.log.Error("creating session", "program", program.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	lw, err := s.live.Start(profile.ID, session.ID, program)
	if err != nil {
		// Session row was created for nothing; remove it again.
		if _, derr := s.db.DeleteSession(r.Context(), session.ID, profile.ID); derr != nil {
			s.log.Error("cleaning up session after start conflict", "session", session.ID, "error", derr)
		}
		writeError(w, http.StatusConflict, "a workout is already active")
		return
	}

	s.log.Info("workout started", "profile", profile.ID, "program", program.Title, "session", session.ID)
	writeJSON(w, http.StatusCreated, snapshotWorkout(lw))
}

func (s *Server) handleActiveWorkout(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var view workoutView
	err := s.live.With(profile.ID, func(lw *liveWorkout) error {
		view = snapshotWorkout(lw)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "no active workout")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAbandonWorkout(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	lw, err := s.live.Discard(profile.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "no active workout")
		return
	}

	// Abandoned workouts leave no trace: drop the placeholder row too.
	if _, err := s.db.DeleteSession(r.Context(), lw.SessionID, profile.ID); err != nil {
		s.log.Error("deleting abandoned session", "session", lw.SessionID, "error", err)
	}

	s.log.Info("workout abandoned", "profile", profile.ID, "session", lw.SessionID)
	w.WriteHeader(http.StatusNoContent)
}

type setInputRequest struct {
	ExerciseID uuid.UUID     `json:"exerciseId"`
	SetIndex   int           `json:"setIndex"`
	Field      workout.Field `json:"field"`
	Value      string        `json:"value"`
}

func (s *Server) handleUpdateInput(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var req setInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var view workoutView
	err := s.live.With(profile.ID, func(lw *liveWorkout) error {
		if err := lw.Session.UpdateInput(req.ExerciseID, req.SetIndex, req.Field, req.Value); err != nil {
			return err
		}
		view = snapshotWorkout(lw)
		return nil
	})
	if err != nil {
		writeLiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type noteRequest struct {
	ExerciseID uuid.UUID `json:"exerciseId"`
	Text       string    `json:"text"`
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.live.With(profile.ID, func(lw *liveWorkout) error {
		return lw.Session.UpdateNote(req.ExerciseID, req.Text)
	})
	if err != nil {
		writeLiveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setActionRequest struct {
	ExerciseID uuid.UUID `json:"exerciseId"`
	SetIndex   int       `json:"setIndex"`
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var req setActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var view workoutView
	var restStarted bool
	err := s.live.With(profile.ID, func(lw *liveWorkout) error {
		var err error
		restStarted, err = lw.Session.ToggleSet(req.ExerciseID, req.SetIndex)
		if err != nil {
			return err
		}
		view = snapshotWorkout(lw)
		return nil
	})
	if err != nil {
		writeLiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restStarted": restStarted, "workout": view})
}

func (s *Server) handleSkipSet(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var req setActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var view workoutView
	var restStarted bool
	err := s.live.With(profile.ID, func(lw *liveWorkout) error {
		var err error
		restStarted, err = lw.Session.SkipSet(req.ExerciseID, req.SetIndex)
		if err != nil {
			return err
		}
		view = snapshotWorkout(lw)
		return nil
	})
	if err != nil {
		writeLiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restStarted": restStarted, "workout": view})
}

type completeExerciseRequest struct {
	ExerciseID uuid.UUID `json:"exerciseId"`
}

func (s *Server) handleCompleteExercise(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var req completeExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var view workoutView
	err := s.live.With(profile.ID, func(lw *liveWorkout) error {
		if err := lw.Session.CompleteRemaining(req.ExerciseID); err != nil {
			return err
		}
		view = snapshotWorkout(lw)
		return nil
	})
	if err != nil {
		writeLiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var view timerView
	err := s.live.With(profile.ID, func(lw *liveWorkout) error {
		state, remaining, total := lw.Session.Timer().State()
		view = timerView{State: state, Remaining: remaining, Total: total}
		return nil
	})
	if err != nil {
		writeLiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTimerSkip(w http.ResponseWriter, r *http.Request) {
	s.timerAction(w, r, func(t *workout.RestTimer) { t.Skip() })
}

func (s *Server) handleTimerClose(w http.ResponseWriter, r *http.Request) {
	s.timerAction(w, r, func(t *workout.RestTimer) { t.Close() })
}

func (s *Server) timerAction(w http.ResponseWriter, r *http.Request, act func(*workout.RestTimer)) {
	profile, _ := ProfileFromContext(r.Context())

	var view timerView
	err := s.live.With(profile.ID, func(lw *liveWorkout) error {
		act(lw.Session.Timer())
		state, remaining, total := lw.Session.Timer().State()
		view = timerView{State: state, Remaining: remaining, Total: total}
		return nil
	})
	if err != nil {
		writeLiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type finishRequest struct {
	Note string `json:"note"`
}

func (s *Server) handleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	var req finishRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var result *workout.FinishResult
	err := s.live.With(profile.ID, func(lw *liveWorkout) error {
		var err error
		result, err = workout.Finish(r.Context(), s.db, lw.SessionID, lw.Session, req.Note, time.Now())
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNoActiveWorkout) {
			writeError(w, http.StatusNotFound, "no active workout")
			return
		}
		// Writes stop at the first failure; the client is told which
		// set fell over and state stays live so finish can be retried.
		s.log.Error("finishing workout", "profile", profile.ID, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if _, err := s.live.Discard(profile.ID); err != nil {
		s.log.Warn("discarding finished workout", "error", err)
	}

	s.log.Info("workout finished", "profile", profile.ID, "session", result.Session.ID, "sets", result.SetsWritten)
	writeJSON(w, http.StatusOK, result)
}

// writeLiveError maps live-session errors to HTTP statuses: missing
// workout or target is 404, a set that fails required-field validation
// is 422, everything else is a bad request.
func writeLiveError(w http.ResponseWriter, err error) {
	var incomplete *workout.IncompleteError
	switch {
	case errors.Is(err, ErrNoActiveWorkout):
		writeError(w, http.StatusNotFound, "no active workout")
	case errors.Is(err, workout.ErrNoSuchExercise), errors.Is(err, workout.ErrNoSuchSet):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &incomplete):
		writeError(w, http.StatusUnprocessableEntity, incomplete.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
