package mcp

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/heraheo/JuniFit-sub000/internal/models"
	"github.com/heraheo/JuniFit-sub000/internal/storage"
)

// fakeDataSource serves canned sessions and records which queries ran.
type fakeDataSource struct {
	sessions   map[uuid.UUID]models.WorkoutSession
	sets       map[uuid.UUID][]models.WorkoutSet
	setQueries int
}

func (f *fakeDataSource) ListPrograms(context.Context, uuid.UUID) ([]models.Program, error) {
	return nil, nil
}

func (f *fakeDataSource) GetProgram(context.Context, uuid.UUID, uuid.UUID) (models.Program, error) {
	return models.Program{}, storage.ErrProgramNotFound
}

func (f *fakeDataSource) QuerySessions(context.Context, uuid.UUID, time.Time, time.Time) ([]models.WorkoutSession, error) {
	return nil, nil
}

func (f *fakeDataSource) GetSession(_ context.Context, sessionID, profileID uuid.UUID) (models.WorkoutSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.ProfileID != profileID {
		return models.WorkoutSession{}, storage.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeDataSource) QuerySessionSets(_ context.Context, sessionID uuid.UUID) ([]models.WorkoutSet, error) {
	f.setQueries++
	return f.sets[sessionID], nil
}

func (f *fakeDataSource) GetVolumeStats(context.Context, uuid.UUID, time.Time, time.Time) (*storage.VolumeStats, error) {
	return &storage.VolumeStats{}, nil
}

func (f *fakeDataSource) MonthlyCalendar(context.Context, uuid.UUID, int, time.Month) ([]storage.CalendarDay, error) {
	return nil, nil
}

func (f *fakeDataSource) GetPersonalBests(context.Context, uuid.UUID) ([]storage.PersonalBest, error) {
	return nil, nil
}

func sessionSetsRequest(sessionID string) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{
		Name:      "get_session_sets",
		Arguments: map[string]any{"session_id": sessionID},
	}}
}

// TestGetSessionSetsScopedToProfile verifies get_session_sets only serves
// sessions owned by the calling profile: another profile asking for the same
// session ID gets not-found and no set query ever runs.
func TestGetSessionSetsScopedToProfile(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	sessionID := uuid.New()

	ds := &fakeDataSource{
		sessions: map[uuid.UUID]models.WorkoutSession{
			sessionID: {ID: sessionID, ProfileID: owner},
		},
		sets: map[uuid.UUID][]models.WorkoutSet{
			sessionID: {{SessionID: sessionID, ExerciseName: "Bench Press", SetNumber: 1}},
		},
	}
	h := &handlers{ds: ds, log: slog.Default()}

	res, err := h.getSessionSets(WithProfileID(context.Background(), other), sessionSetsRequest(sessionID.String()))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("foreign session served instead of not-found")
	}
	if ds.setQueries != 0 {
		t.Errorf("set queries for foreign session = %d, want 0", ds.setQueries)
	}

	res, err = h.getSessionSets(WithProfileID(context.Background(), owner), sessionSetsRequest(sessionID.String()))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Errorf("owner denied: %v", res.Content)
	}
	if ds.setQueries != 1 {
		t.Errorf("set queries for owner = %d, want 1", ds.setQueries)
	}
}

// TestGetSessionSetsRequiresProfile verifies the tool rejects calls without
// an authenticated profile in the context.
func TestGetSessionSetsRequiresProfile(t *testing.T) {
	ds := &fakeDataSource{}
	h := &handlers{ds: ds, log: slog.Default()}

	res, err := h.getSessionSets(context.Background(), sessionSetsRequest(uuid.NewString()))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("unauthenticated call served")
	}
	if ds.setQueries != 0 {
		t.Errorf("set queries = %d, want 0", ds.setQueries)
	}
}
