package workout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// fakeStore records writes and can be told to fail at a given point.
type fakeStore struct {
	sets         []models.WorkoutSet
	creates      int // CreateSet calls across all attempts
	clears       int
	failAtSet    int // fail the Nth CreateSet (1-based); 0 = never
	failComplete bool
	completed    *models.WorkoutSession
	updates      []models.WorkoutSet
	failUpdateAt int
}

var errBackend = errors.New("backend unavailable")

func (f *fakeStore) DeleteSessionSets(_ context.Context, _ uuid.UUID) error {
	f.clears++
	f.sets = f.sets[:0]
	return nil
}

func (f *fakeStore) CreateSet(_ context.Context, set models.WorkoutSet) (models.WorkoutSet, error) {
	f.creates++
	if f.failAtSet > 0 && f.creates == f.failAtSet {
		return models.WorkoutSet{}, errBackend
	}
	set.ID = uuid.New()
	f.sets = append(f.sets, set)
	return set, nil
}

func (f *fakeStore) CompleteSession(_ context.Context, sessionID uuid.UUID, endedAt time.Time, note string) (models.WorkoutSession, error) {
	if f.failComplete {
		return models.WorkoutSession{}, errBackend
	}
	sess := models.WorkoutSession{ID: sessionID, EndedAt: &endedAt, Note: note}
	f.completed = &sess
	return sess, nil
}

func (f *fakeStore) UpdateSet(_ context.Context, setID uuid.UUID, weight *float64, reps *int, timeSeconds *float64) (models.WorkoutSet, error) {
	if f.failUpdateAt > 0 && len(f.updates)+1 == f.failUpdateAt {
		return models.WorkoutSet{}, errBackend
	}
	set := models.WorkoutSet{ID: setID, Weight: weight, Reps: reps, TimeSeconds: timeSeconds}
	f.updates = append(f.updates, set)
	return set, nil
}

// TestFinishWritesCompletedSetsOnly verifies the round trip: completed sets
// become inserts with record-type-appropriate values and contiguous 1-based
// numbering, incomplete sets are never written, and the session completion
// lands after all sets.
func TestFinishWritesCompletedSetsOnly(t *testing.T) {
	s := NewSession(testProgram())

	// Bench: set 1 filled+completed, set 2 left incomplete, set 3 skipped.
	s.UpdateInput(benchID, 0, FieldWeight, "60")
	s.UpdateInput(benchID, 0, FieldReps, "10")
	if _, err := s.ToggleSet(benchID, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SkipSet(benchID, 2); err != nil {
		t.Fatal(err)
	}
	s.UpdateNote(benchID, "solid session")

	store := &fakeStore{}
	sessionID := uuid.New()
	endedAt := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

	result, err := Finish(context.Background(), store, sessionID, s, "good day", endedAt)
	if err != nil {
		t.Fatal(err)
	}
	if result.SetsWritten != 2 {
		t.Errorf("sets written = %d, want 2", result.SetsWritten)
	}
	if len(store.sets) != 2 {
		t.Fatalf("store has %d sets, want 2", len(store.sets))
	}

	first := store.sets[0]
	if first.SetNumber != 1 || first.ExerciseName != "Bench Press" {
		t.Errorf("first write = %s #%d, want Bench Press #1", first.ExerciseName, first.SetNumber)
	}
	if first.Weight == nil || *first.Weight != 60 {
		t.Errorf("first weight = %v, want 60", first.Weight)
	}
	if first.Reps == nil || *first.Reps != 10 {
		t.Errorf("first reps = %v, want 10", first.Reps)
	}
	if first.TimeSeconds != nil {
		t.Errorf("time = %v for weight_reps set, want nil", *first.TimeSeconds)
	}
	if first.Note != "solid session" {
		t.Errorf("note = %q, want exercise note on first set", first.Note)
	}

	// The skipped third set is persisted as the second contiguous set.
	second := store.sets[1]
	if second.SetNumber != 2 {
		t.Errorf("second write set_number = %d, want 2 (contiguous)", second.SetNumber)
	}
	if second.Weight == nil || *second.Weight != 0 {
		t.Errorf("skipped set weight = %v, want 0", second.Weight)
	}
	if second.Note != "" {
		t.Errorf("note repeated on set %d: %q", second.SetNumber, second.Note)
	}

	if store.completed == nil {
		t.Fatal("session completion never written")
	}
	if store.completed.Note != "good day" {
		t.Errorf("session note = %q, want %q", store.completed.Note, "good day")
	}
	if !store.completed.EndedAt.Equal(endedAt) {
		t.Errorf("ended_at = %v, want %v", store.completed.EndedAt, endedAt)
	}
}

// TestFinishSetWriteFailure verifies the first failing set write aborts the
// batch with an error naming the exercise and set, before the completion
// write.
func TestFinishSetWriteFailure(t *testing.T) {
	s := NewSession(testProgram())
	for i := 0; i < 3; i++ {
		if _, err := s.SkipSet(benchID, i); err != nil {
			t.Fatal(err)
		}
	}
	s.Timer().Close()

	store := &fakeStore{failAtSet: 2}
	_, err := Finish(context.Background(), store, uuid.New(), s, "", time.Now())

	var setErr *SetWriteError
	if !errors.As(err, &setErr) {
		t.Fatalf("error = %v, want *SetWriteError", err)
	}
	if setErr.ExerciseName != "Bench Press" || setErr.SetNumber != 2 {
		t.Errorf("failure names %s set %d, want Bench Press set 2", setErr.ExerciseName, setErr.SetNumber)
	}
	if !errors.Is(err, errBackend) {
		t.Error("cause not wrapped")
	}
	if len(store.sets) != 1 {
		t.Errorf("writes after failure = %d, want 1 (prior write committed)", len(store.sets))
	}
	if store.completed != nil {
		t.Error("completion written despite set failure")
	}
}

// TestFinishRetryAfterPartialFailure verifies a full retry succeeds after a
// mid-batch write failure: each attempt rewrites the session's sets from
// scratch, so the retry does not collide with sets the failed attempt
// already committed.
func TestFinishRetryAfterPartialFailure(t *testing.T) {
	s := NewSession(testProgram())
	for i := 0; i < 3; i++ {
		if _, err := s.SkipSet(benchID, i); err != nil {
			t.Fatal(err)
		}
	}
	s.Timer().Close()

	store := &fakeStore{failAtSet: 2}
	sessionID := uuid.New()

	_, err := Finish(context.Background(), store, sessionID, s, "", time.Now())
	var setErr *SetWriteError
	if !errors.As(err, &setErr) {
		t.Fatalf("first attempt error = %v, want *SetWriteError", err)
	}
	if len(store.sets) != 1 {
		t.Fatalf("committed sets after failure = %d, want 1", len(store.sets))
	}

	store.failAtSet = 0
	result, err := Finish(context.Background(), store, sessionID, s, "second try", time.Now())
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if result.SetsWritten != 3 {
		t.Errorf("retry wrote %d sets, want 3", result.SetsWritten)
	}
	if store.clears != 2 {
		t.Errorf("clears = %d, want one per attempt", store.clears)
	}
	if len(store.sets) != 3 {
		t.Fatalf("stored sets = %d, want 3", len(store.sets))
	}
	for i, set := range store.sets {
		if set.SetNumber != i+1 {
			t.Errorf("set %d number = %d, want %d", i, set.SetNumber, i+1)
		}
	}
	if store.completed == nil || store.completed.Note != "second try" {
		t.Error("completion not written on retry")
	}
}

// TestFinishCompleteFailure verifies a completion-write failure is reported
// distinctly from a set-write failure.
func TestFinishCompleteFailure(t *testing.T) {
	s := NewSession(testProgram())
	if _, err := s.SkipSet(plankID, 1); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{failComplete: true}
	_, err := Finish(context.Background(), store, uuid.New(), s, "", time.Now())

	var completeErr *CompleteError
	if !errors.As(err, &completeErr) {
		t.Fatalf("error = %v, want *CompleteError", err)
	}
	var setErr *SetWriteError
	if errors.As(err, &setErr) {
		t.Error("completion failure also matches *SetWriteError")
	}
}

// TestFinishRecordTypeResolution verifies each record type sends only its
// relevant dimensions as numbers and the rest as null.
func TestFinishRecordTypeResolution(t *testing.T) {
	s := NewSession(testProgram())

	s.UpdateInput(pushupID, 0, FieldReps, "15")
	if _, err := s.ToggleSet(pushupID, 0); err != nil {
		t.Fatal(err)
	}
	s.UpdateInput(plankID, 0, FieldTime, "60")
	if _, err := s.ToggleSet(plankID, 0); err != nil {
		t.Fatal(err)
	}
	s.Timer().Close()

	store := &fakeStore{}
	if _, err := Finish(context.Background(), store, uuid.New(), s, "", time.Now()); err != nil {
		t.Fatal(err)
	}
	if len(store.sets) != 2 {
		t.Fatalf("writes = %d, want 2", len(store.sets))
	}

	pushup := store.sets[0]
	if pushup.Weight != nil || pushup.TimeSeconds != nil {
		t.Errorf("reps_only wrote weight=%v time=%v, want nil/nil", pushup.Weight, pushup.TimeSeconds)
	}
	if pushup.Reps == nil || *pushup.Reps != 15 {
		t.Errorf("reps = %v, want 15", pushup.Reps)
	}

	plank := store.sets[1]
	if plank.Weight != nil || plank.Reps != nil {
		t.Errorf("time set wrote weight=%v reps=%v, want nil/nil", plank.Weight, plank.Reps)
	}
	if plank.TimeSeconds == nil || *plank.TimeSeconds != 60 {
		t.Errorf("time = %v, want 60", plank.TimeSeconds)
	}
}
