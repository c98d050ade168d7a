package models

import (
	"time"

	"github.com/google/uuid"
)

// RecordType classifies which performance dimensions (weight, reps, time)
// are meaningful for an exercise.
type RecordType string

const (
	RecordWeightReps RecordType = "weight_reps"
	RecordRepsOnly   RecordType = "reps_only"
	RecordTime       RecordType = "time"
)

// Valid reports whether rt is a known record type.
func (rt RecordType) Valid() bool {
	switch rt {
	case RecordWeightReps, RecordRepsOnly, RecordTime:
		return true
	}
	return false
}

// NeedsWeight reports whether sets of this record type require a weight value.
func (rt RecordType) NeedsWeight() bool { return rt == RecordWeightReps }

// NeedsReps reports whether sets of this record type require a reps value.
func (rt RecordType) NeedsReps() bool { return rt == RecordWeightReps || rt == RecordRepsOnly }

// NeedsTime reports whether sets of this record type require a time value.
func (rt RecordType) NeedsTime() bool { return rt == RecordTime }

// Profile is a registered user.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Login        string    `json:"login"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSeen     time.Time `json:"lastSeen"`
}

// Exercise is a catalog entry users pick from when authoring programs.
type Exercise struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	BodyPart   string     `json:"bodyPart"`
	RecordType RecordType `json:"recordType"`
	Aliases    []string   `json:"aliases,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Program is a named, reusable template of exercises with targets.
// Archived programs are soft-deleted: hidden from listings but kept so past
// sessions retain their reference.
type Program struct {
	ID          uuid.UUID         `json:"id"`
	ProfileID   uuid.UUID         `json:"profileId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	TargetRPE   *float64          `json:"targetRpe,omitempty"`
	ArchivedAt  *time.Time        `json:"archivedAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	Exercises   []ProgramExercise `json:"exercises,omitempty"`
}

// ProgramExercise is one slot of a program: an exercise reference plus
// denormalized display metadata and per-set targets. DisplayOrder is unique
// within a program and defines execution sequence.
type ProgramExercise struct {
	ID           uuid.UUID  `json:"id"`
	ProgramID    uuid.UUID  `json:"programId"`
	ExerciseID   uuid.UUID  `json:"exerciseId"`
	ExerciseName string     `json:"exerciseName"`
	BodyPart     string     `json:"bodyPart"`
	RecordType   RecordType `json:"recordType"`
	TargetSets   int        `json:"targetSets"`
	TargetReps   *int       `json:"targetReps,omitempty"`
	TargetWeight *float64   `json:"targetWeight,omitempty"`
	TargetTime   *float64   `json:"targetTime,omitempty"`
	RestSeconds  int        `json:"restSeconds"`
	DisplayOrder int        `json:"displayOrder"`
	Intention    string     `json:"intention"`
}

// WorkoutSession is one concrete execution of a program (or an ad hoc
// workout). A nil EndedAt means the session is still in progress. ProgramID
// is nullable: a session outlives its program.
type WorkoutSession struct {
	ID        uuid.UUID  `json:"id"`
	ProfileID uuid.UUID  `json:"profileId"`
	ProgramID *uuid.UUID `json:"programId,omitempty"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Note      string     `json:"note"`
}

// WorkoutSet is one recorded attempt at an exercise within a session.
// SetNumber is 1-based and contiguous per (session, exercise). Only the
// fields relevant to the exercise's record type are non-nil.
type WorkoutSet struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"sessionId"`
	ExerciseID   uuid.UUID `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	SetNumber    int       `json:"setNumber"`
	Weight       *float64  `json:"weight,omitempty"`
	Reps         *int      `json:"reps,omitempty"`
	TimeSeconds  *float64  `json:"timeSeconds,omitempty"`
	Note         string    `json:"note"`
}
