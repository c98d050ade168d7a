package workout

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

var (
	ErrNoSuchExercise = errors.New("exercise not in session")
	ErrNoSuchSet      = errors.New("set index out of range")
)

// SetInput is the in-progress record of one set: raw text for each field,
// the completion flag, and any field-level validation errors. Raw text is
// kept as typed so partially entered values ("12.") survive re-renders.
type SetInput struct {
	Weight    string           `json:"weight"`
	Reps      string           `json:"reps"`
	Time      string           `json:"time"`
	Completed bool             `json:"completed"`
	Errors    map[Field]string `json:"errors,omitempty"`
}

func (si SetInput) field(f Field) string {
	switch f {
	case FieldWeight:
		return si.Weight
	case FieldReps:
		return si.Reps
	case FieldTime:
		return si.Time
	}
	return ""
}

// Session holds the mutable, in-progress state of a single workout
// execution: per-exercise set inputs and notes, the program being executed,
// and the rest timer between sets. Nothing here touches the database; the
// finish adapter persists the final state in one pass.
//
// A Session is not safe for concurrent use; the live-session registry
// serializes access to it.
type Session struct {
	program *models.Program
	sets    map[uuid.UUID][]SetInput
	notes   map[uuid.UUID]string
	timer   *RestTimer
}

// NewSession allocates session state for the given program: target_sets
// blank inputs per exercise, in program order, all incomplete.
func NewSession(program *models.Program) *Session {
	s := &Session{timer: NewRestTimer()}
	s.Reset(program)
	return s
}

// Reset re-initializes all state against a (possibly different) program.
// Calling it twice with the same program yields identical state.
func (s *Session) Reset(program *models.Program) {
	s.program = program
	s.sets = make(map[uuid.UUID][]SetInput, len(program.Exercises))
	s.notes = make(map[uuid.UUID]string, len(program.Exercises))
	for _, ex := range program.Exercises {
		s.sets[ex.ExerciseID] = make([]SetInput, ex.TargetSets)
		s.notes[ex.ExerciseID] = ""
	}
}

// Program returns the program this session executes.
func (s *Session) Program() *models.Program { return s.program }

// Timer returns the session's rest timer.
func (s *Session) Timer() *RestTimer { return s.timer }

// UpdateInput stores new text for one field of one set. Text that is not
// partial numeric (digits, at most one decimal point) is silently dropped —
// the previous value stays. The field is re-validated and its error message
// stored or cleared; the completion flag is never touched here.
func (s *Session) UpdateInput(exerciseID uuid.UUID, setIndex int, field Field, value string) error {
	set, err := s.setAt(exerciseID, setIndex)
	if err != nil {
		return err
	}
	if !IsPartialNumber(value) {
		return nil
	}

	switch field {
	case FieldWeight:
		set.Weight = value
	case FieldReps:
		set.Reps = value
	case FieldTime:
		set.Time = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	if _, msg := Validate(field, value); msg != "" {
		if set.Errors == nil {
			set.Errors = make(map[Field]string)
		}
		set.Errors[field] = msg
	} else {
		delete(set.Errors, field)
	}
	return nil
}

// UpdateNote stores free text against an exercise.
func (s *Session) UpdateNote(exerciseID uuid.UUID, text string) error {
	if _, ok := s.notes[exerciseID]; !ok {
		return ErrNoSuchExercise
	}
	s.notes[exerciseID] = text
	return nil
}

// Note returns the note text for an exercise.
func (s *Session) Note(exerciseID uuid.UUID) string { return s.notes[exerciseID] }

// Sets returns a copy of the set inputs for an exercise.
func (s *Session) Sets(exerciseID uuid.UUID) []SetInput {
	sets, ok := s.sets[exerciseID]
	if !ok {
		return nil
	}
	out := make([]SetInput, len(sets))
	copy(out, sets)
	return out
}

func (s *Session) setAt(exerciseID uuid.UUID, setIndex int) (*SetInput, error) {
	sets, ok := s.sets[exerciseID]
	if !ok {
		return nil, ErrNoSuchExercise
	}
	if setIndex < 0 || setIndex >= len(sets) {
		return nil, ErrNoSuchSet
	}
	return &sets[setIndex], nil
}

func (s *Session) exercise(exerciseID uuid.UUID) (*models.ProgramExercise, error) {
	for i := range s.program.Exercises {
		if s.program.Exercises[i].ExerciseID == exerciseID {
			return &s.program.Exercises[i], nil
		}
	}
	return nil, ErrNoSuchExercise
}
