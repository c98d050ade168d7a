package workout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// IncompleteError reports an attempt to complete a set whose required fields
// are missing or invalid. It blocks the toggle; the set's state is unchanged.
type IncompleteError struct {
	ExerciseName string
	SetNumber    int // 1-based
	Field        Field
	Message      string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s set %d: %s", e.ExerciseName, e.SetNumber, e.Message)
}

// requiredFields lists the fields a record type mandates before a set may be
// marked completed.
func requiredFields(rt models.RecordType) []Field {
	switch rt {
	case models.RecordWeightReps:
		return []Field{FieldWeight, FieldReps}
	case models.RecordRepsOnly:
		return []Field{FieldReps}
	case models.RecordTime:
		return []Field{FieldTime}
	}
	return nil
}

// ToggleSet flips the completion flag of one set. Completing requires every
// field mandated by the exercise's record type to be non-empty and valid;
// otherwise an *IncompleteError is returned and nothing changes. On the
// false→true transition the rest timer is started with the exercise's rest
// interval (never on un-completing). Returns whether a rest period started.
func (s *Session) ToggleSet(exerciseID uuid.UUID, setIndex int) (restStarted bool, err error) {
	ex, err := s.exercise(exerciseID)
	if err != nil {
		return false, err
	}
	set, err := s.setAt(exerciseID, setIndex)
	if err != nil {
		return false, err
	}

	if !set.Completed {
		for _, f := range requiredFields(ex.RecordType) {
			text := set.field(f)
			if text == "" {
				return false, &IncompleteError{
					ExerciseName: ex.ExerciseName, SetNumber: setIndex + 1,
					Field: f, Message: validationMessage(f),
				}
			}
			if _, msg := Validate(f, text); msg != "" {
				return false, &IncompleteError{
					ExerciseName: ex.ExerciseName, SetNumber: setIndex + 1,
					Field: f, Message: msg,
				}
			}
		}
	}

	set.Completed = !set.Completed
	if set.Completed && ex.RestSeconds > 0 {
		s.timer.Start(ex.RestSeconds)
		return true, nil
	}
	return false, nil
}

// SkipSet forces a set to the completed state, zero-filling every field the
// exercise's record type cares about regardless of what was typed. The rest
// timer starts as with a normal completion, except after the exercise's last
// set — no rest is needed when there is no next set.
func (s *Session) SkipSet(exerciseID uuid.UUID, setIndex int) (restStarted bool, err error) {
	ex, err := s.exercise(exerciseID)
	if err != nil {
		return false, err
	}
	set, err := s.setAt(exerciseID, setIndex)
	if err != nil {
		return false, err
	}

	zeroFill(set, ex.RecordType)

	lastSet := setIndex == ex.TargetSets-1
	if !lastSet && ex.RestSeconds > 0 {
		s.timer.Start(ex.RestSeconds)
		return true, nil
	}
	return false, nil
}

// CompleteRemaining forces every still-incomplete set of an exercise to the
// zero-filled completed state. Unlike SkipSet it never starts the rest
// timer — it backs the bulk "finish exercise early" action.
func (s *Session) CompleteRemaining(exerciseID uuid.UUID) error {
	ex, err := s.exercise(exerciseID)
	if err != nil {
		return err
	}
	sets := s.sets[exerciseID]
	for i := range sets {
		if !sets[i].Completed {
			zeroFill(&sets[i], ex.RecordType)
		}
	}
	return nil
}

// IsCurrentValid reports whether at least one set of the exercise is
// completed — the minimum for the exercise to count toward the session.
func (s *Session) IsCurrentValid(exerciseID uuid.UUID) bool {
	for _, set := range s.sets[exerciseID] {
		if set.Completed {
			return true
		}
	}
	return false
}

// HasIncompleteSets reports whether at least one set of the exercise is not
// yet completed.
func (s *Session) HasIncompleteSets(exerciseID uuid.UUID) bool {
	for _, set := range s.sets[exerciseID] {
		if !set.Completed {
			return true
		}
	}
	return false
}

// zeroFill writes "0" into the record type's relevant fields, leaves the
// rest blank, clears field errors, and marks the set completed.
func zeroFill(set *SetInput, rt models.RecordType) {
	if rt.NeedsWeight() {
		set.Weight = "0"
	}
	if rt.NeedsReps() {
		set.Reps = "0"
	}
	if rt.NeedsTime() {
		set.Time = "0"
	}
	set.Errors = nil
	set.Completed = true
}
