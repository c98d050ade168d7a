package workout

import (
	"testing"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

var (
	benchID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	pushupID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	plankID  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

// testProgram is a three-exercise program covering all record types:
// bench press (weight_reps, 3 sets, 90s rest), push up (reps_only, 2 sets,
// 60s rest), plank (time, 2 sets, no rest).
func testProgram() *models.Program {
	return &models.Program{
		ID:    uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000"),
		Title: "Push Day",
		Exercises: []models.ProgramExercise{
			{
				ExerciseID: benchID, ExerciseName: "Bench Press",
				RecordType: models.RecordWeightReps,
				TargetSets: 3, RestSeconds: 90, DisplayOrder: 1,
			},
			{
				ExerciseID: pushupID, ExerciseName: "Push Up",
				RecordType: models.RecordRepsOnly,
				TargetSets: 2, RestSeconds: 60, DisplayOrder: 2,
			},
			{
				ExerciseID: plankID, ExerciseName: "Plank",
				RecordType: models.RecordTime,
				TargetSets: 2, RestSeconds: 0, DisplayOrder: 3,
			},
		},
	}
}

// TestNewSessionAllocation verifies that initialization produces exactly
// target_sets blank, incomplete inputs per exercise.
func TestNewSessionAllocation(t *testing.T) {
	s := NewSession(testProgram())

	wantCounts := map[uuid.UUID]int{benchID: 3, pushupID: 2, plankID: 2}
	for exID, want := range wantCounts {
		sets := s.Sets(exID)
		if len(sets) != want {
			t.Fatalf("exercise %s: %d sets, want %d", exID, len(sets), want)
		}
		for i, set := range sets {
			if set.Completed {
				t.Errorf("set %d starts completed", i)
			}
			if set.Weight != "" || set.Reps != "" || set.Time != "" {
				t.Errorf("set %d not blank: %+v", i, set)
			}
		}
	}
	if s.Note(benchID) != "" {
		t.Errorf("note starts non-empty: %q", s.Note(benchID))
	}
}

// TestResetIdempotent verifies that re-initializing discards all prior
// inputs and yields the same blank state every time.
func TestResetIdempotent(t *testing.T) {
	p := testProgram()
	s := NewSession(p)

	if err := s.UpdateInput(benchID, 0, FieldWeight, "60"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleSet(benchID, 0); err == nil {
		// reps still blank; toggle must fail, see actions tests
		t.Fatal("toggle succeeded with blank reps")
	}
	s.Reset(p)

	sets := s.Sets(benchID)
	if sets[0].Weight != "" {
		t.Errorf("weight after reset = %q, want empty", sets[0].Weight)
	}
}

// TestUpdateInput verifies that partial numeric text is stored and
// re-validated while anything else is dropped without touching state.
func TestUpdateInput(t *testing.T) {
	s := NewSession(testProgram())

	if err := s.UpdateInput(benchID, 0, FieldWeight, "62.5"); err != nil {
		t.Fatal(err)
	}
	if got := s.Sets(benchID)[0].Weight; got != "62.5" {
		t.Errorf("weight = %q, want %q", got, "62.5")
	}

	// Rejected keystroke: previous value stays.
	if err := s.UpdateInput(benchID, 0, FieldWeight, "62.5x"); err != nil {
		t.Fatal(err)
	}
	if got := s.Sets(benchID)[0].Weight; got != "62.5" {
		t.Errorf("weight after rejected input = %q, want %q", got, "62.5")
	}

	// Reps with a decimal point is stored (it is partial numeric text) but
	// flagged with a field error.
	if err := s.UpdateInput(benchID, 0, FieldReps, "2.5"); err != nil {
		t.Fatal(err)
	}
	set := s.Sets(benchID)[0]
	if set.Reps != "2.5" {
		t.Errorf("reps = %q, want %q", set.Reps, "2.5")
	}
	if set.Errors[FieldReps] != "reps must be a positive integer" {
		t.Errorf("reps error = %q, want integer message", set.Errors[FieldReps])
	}

	// Correcting the value clears the error.
	if err := s.UpdateInput(benchID, 0, FieldReps, "10"); err != nil {
		t.Fatal(err)
	}
	if msg, ok := s.Sets(benchID)[0].Errors[FieldReps]; ok {
		t.Errorf("reps error not cleared: %q", msg)
	}
}

// TestUpdateInputUnknownTargets verifies lookups outside the program fail.
func TestUpdateInputUnknownTargets(t *testing.T) {
	s := NewSession(testProgram())

	if err := s.UpdateInput(uuid.New(), 0, FieldWeight, "1"); err != ErrNoSuchExercise {
		t.Errorf("unknown exercise error = %v, want ErrNoSuchExercise", err)
	}
	if err := s.UpdateInput(benchID, 3, FieldWeight, "1"); err != ErrNoSuchSet {
		t.Errorf("out of range error = %v, want ErrNoSuchSet", err)
	}
}

// TestUpdateNote verifies note text is unconstrained free text.
func TestUpdateNote(t *testing.T) {
	s := NewSession(testProgram())
	if err := s.UpdateNote(benchID, "felt heavy today / 무거웠다"); err != nil {
		t.Fatal(err)
	}
	if got := s.Note(benchID); got != "felt heavy today / 무거웠다" {
		t.Errorf("note = %q", got)
	}
	if err := s.UpdateNote(uuid.New(), "x"); err != ErrNoSuchExercise {
		t.Errorf("unknown exercise error = %v, want ErrNoSuchExercise", err)
	}
}
