package workout

import (
	"errors"
	"testing"
)

// TestToggleSetRequiresFields verifies a set can never be completed while a
// record-type-required field is blank or invalid, and that the failure
// leaves the completion flag untouched.
func TestToggleSetRequiresFields(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Session)
	}{
		{name: "all blank", setup: func(s *Session) {}},
		{name: "weight only", setup: func(s *Session) {
			s.UpdateInput(benchID, 0, FieldWeight, "60")
		}},
		{name: "reps only", setup: func(s *Session) {
			s.UpdateInput(benchID, 0, FieldReps, "10")
		}},
		{name: "non-integer reps", setup: func(s *Session) {
			s.UpdateInput(benchID, 0, FieldWeight, "60")
			s.UpdateInput(benchID, 0, FieldReps, "2.5")
		}},
		{name: "zero weight", setup: func(s *Session) {
			s.UpdateInput(benchID, 0, FieldWeight, "0")
			s.UpdateInput(benchID, 0, FieldReps, "10")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(testProgram())
			tt.setup(s)

			_, err := s.ToggleSet(benchID, 0)
			var incomplete *IncompleteError
			if !errors.As(err, &incomplete) {
				t.Fatalf("error = %v, want *IncompleteError", err)
			}
			if incomplete.ExerciseName != "Bench Press" || incomplete.SetNumber != 1 {
				t.Errorf("error names %s set %d, want Bench Press set 1",
					incomplete.ExerciseName, incomplete.SetNumber)
			}
			if s.Sets(benchID)[0].Completed {
				t.Error("set marked completed despite failed toggle")
			}
		})
	}
}

// TestToggleSetStartsRestTimer verifies the timer starts only on the
// false→true transition and only when the exercise defines a rest interval.
func TestToggleSetStartsRestTimer(t *testing.T) {
	s := NewSession(testProgram())
	s.UpdateInput(benchID, 0, FieldWeight, "60")
	s.UpdateInput(benchID, 0, FieldReps, "10")

	started, err := s.ToggleSet(benchID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !started {
		t.Error("rest not started on completion")
	}
	if !s.Sets(benchID)[0].Completed {
		t.Error("set not completed")
	}
	state, remaining, _ := s.Timer().State()
	if state != TimerRunning || remaining != 90 {
		t.Errorf("timer = %s/%d, want running/90", state, remaining)
	}

	// Un-completing must not restart the timer.
	s.Timer().Close()
	started, err = s.ToggleSet(benchID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if started {
		t.Error("rest started when un-completing")
	}
	if s.Sets(benchID)[0].Completed {
		t.Error("set still completed after un-toggle")
	}

	// Plank has no rest interval: completing starts nothing.
	s.UpdateInput(plankID, 0, FieldTime, "60")
	started, err = s.ToggleSet(plankID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if started {
		t.Error("rest started for exercise without rest_seconds")
	}
}

// TestSkipSet verifies skipping always completes the set with zero-filled
// relevant fields, regardless of what was typed, and skips the rest timer
// after the last set.
func TestSkipSet(t *testing.T) {
	s := NewSession(testProgram())
	s.UpdateInput(benchID, 0, FieldWeight, "60")

	started, err := s.SkipSet(benchID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !started {
		t.Error("rest not started for non-final set")
	}
	set := s.Sets(benchID)[0]
	if !set.Completed {
		t.Error("skipped set not completed")
	}
	if set.Weight != "0" || set.Reps != "0" {
		t.Errorf("skipped set fields = %q/%q, want 0/0", set.Weight, set.Reps)
	}
	if set.Time != "" {
		t.Errorf("time = %q for weight_reps, want blank", set.Time)
	}

	// Last set: completed but no rest.
	started, err = s.SkipSet(benchID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if started {
		t.Error("rest started after final set")
	}
	if !s.Sets(benchID)[2].Completed {
		t.Error("final skipped set not completed")
	}
}

// TestCompleteRemaining verifies the bulk finish zero-fills only the
// incomplete sets and never starts the rest timer.
func TestCompleteRemaining(t *testing.T) {
	s := NewSession(testProgram())
	s.UpdateInput(benchID, 0, FieldWeight, "60")
	s.UpdateInput(benchID, 0, FieldReps, "10")
	if _, err := s.ToggleSet(benchID, 0); err != nil {
		t.Fatal(err)
	}
	s.Timer().Close()

	if err := s.CompleteRemaining(benchID); err != nil {
		t.Fatal(err)
	}

	sets := s.Sets(benchID)
	if sets[0].Weight != "60" || sets[0].Reps != "10" {
		t.Errorf("filled set overwritten: %q/%q", sets[0].Weight, sets[0].Reps)
	}
	for i := 1; i < 3; i++ {
		if !sets[i].Completed || sets[i].Weight != "0" || sets[i].Reps != "0" {
			t.Errorf("set %d = %+v, want zero-filled completed", i, sets[i])
		}
	}
	if state, _, _ := s.Timer().State(); state != TimerIdle {
		t.Errorf("timer = %s, want idle", state)
	}
}

// TestProgressChecks verifies IsCurrentValid and HasIncompleteSets.
func TestProgressChecks(t *testing.T) {
	s := NewSession(testProgram())

	if s.IsCurrentValid(benchID) {
		t.Error("IsCurrentValid true with no completed sets")
	}
	if !s.HasIncompleteSets(benchID) {
		t.Error("HasIncompleteSets false with all incomplete")
	}

	if _, err := s.SkipSet(benchID, 0); err != nil {
		t.Fatal(err)
	}
	if !s.IsCurrentValid(benchID) {
		t.Error("IsCurrentValid false with one completed set")
	}
	if !s.HasIncompleteSets(benchID) {
		t.Error("HasIncompleteSets false with two sets left")
	}

	if err := s.CompleteRemaining(benchID); err != nil {
		t.Fatal(err)
	}
	if s.HasIncompleteSets(benchID) {
		t.Error("HasIncompleteSets true after completing all")
	}
}
