package workout

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// SessionStore is the backend surface the finish adapter writes through.
// *storage.DB satisfies it; tests substitute a fake.
type SessionStore interface {
	DeleteSessionSets(ctx context.Context, sessionID uuid.UUID) error
	CreateSet(ctx context.Context, set models.WorkoutSet) (models.WorkoutSet, error)
	CompleteSession(ctx context.Context, sessionID uuid.UUID, endedAt time.Time, note string) (models.WorkoutSession, error)
}

// SetWriteError is a failed set insert. The exercise name and 1-based set
// number identify which write failed; earlier writes stay committed.
type SetWriteError struct {
	ExerciseName string
	SetNumber    int
	Err          error
}

func (e *SetWriteError) Error() string {
	return fmt.Sprintf("saving %s set %d: %v", e.ExerciseName, e.SetNumber, e.Err)
}

func (e *SetWriteError) Unwrap() error { return e.Err }

// CompleteError is a failed session-completion write, after every set write
// already succeeded.
type CompleteError struct {
	Err error
}

func (e *CompleteError) Error() string { return fmt.Sprintf("completing session: %v", e.Err) }

func (e *CompleteError) Unwrap() error { return e.Err }

// FinishResult summarizes a successful session finish.
type FinishResult struct {
	SetsWritten int                   `json:"setsWritten"`
	Session     models.WorkoutSession `json:"session"`
}

// Finish persists a finished workout: for every exercise in program order,
// every completed set becomes one insert with a contiguous 1-based set
// number; incomplete sets are never written. Field values are resolved per
// record type — irrelevant dimensions go as null, not zero. After all sets
// are in, one completion write stamps ended_at and the session note.
//
// Writes are sequential and stop at the first failure. There is no internal
// retry; the caller surfaces the error and the user retries the whole
// action. Each attempt rewrites the session's sets from scratch, so sets
// committed by an earlier partial attempt never collide with the retry.
func Finish(ctx context.Context, store SessionStore, sessionID uuid.UUID, sess *Session, note string, endedAt time.Time) (*FinishResult, error) {
	if err := store.DeleteSessionSets(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("clearing session sets: %w", err)
	}

	result := &FinishResult{}

	for _, ex := range sess.Program().Exercises {
		exerciseNote := sess.Note(ex.ExerciseID)
		setNumber := 0
		for _, set := range sess.Sets(ex.ExerciseID) {
			if !set.Completed {
				continue
			}
			setNumber++

			row := models.WorkoutSet{
				SessionID:    sessionID,
				ExerciseID:   ex.ExerciseID,
				ExerciseName: ex.ExerciseName,
				SetNumber:    setNumber,
				Weight:       resolveField(ex.RecordType, FieldWeight, set.Weight).ptr(),
				TimeSeconds:  resolveField(ex.RecordType, FieldTime, set.Time).ptr(),
			}
			if reps := resolveField(ex.RecordType, FieldReps, set.Reps).ptr(); reps != nil {
				n := int(*reps)
				row.Reps = &n
			}
			// The exercise note rides on its first written set.
			if setNumber == 1 {
				row.Note = exerciseNote
			}

			if _, err := store.CreateSet(ctx, row); err != nil {
				return nil, &SetWriteError{ExerciseName: ex.ExerciseName, SetNumber: setNumber, Err: err}
			}
			result.SetsWritten++
		}
	}

	updated, err := store.CompleteSession(ctx, sessionID, endedAt, note)
	if err != nil {
		return nil, &CompleteError{Err: err}
	}
	result.Session = updated
	return result, nil
}

// fieldValue distinguishes "this dimension does not apply to the record
// type" from "applies but was never typed" from "has a value". The split
// only collapses to number-or-null at the write boundary, which keeps the
// null/zero decision in one place.
type fieldValue struct {
	kind fieldValueKind
	num  float64
}

type fieldValueKind int

const (
	fieldNotApplicable fieldValueKind = iota
	fieldNotEntered
	fieldHasValue
)

// resolveField maps one set field's raw text to a fieldValue under the
// zero-fill policy: a relevant field left blank or unparsable on a completed
// set counts as an explicit zero.
func resolveField(rt models.RecordType, f Field, text string) fieldValue {
	relevant := false
	switch f {
	case FieldWeight:
		relevant = rt.NeedsWeight()
	case FieldReps:
		relevant = rt.NeedsReps()
	case FieldTime:
		relevant = rt.NeedsTime()
	}
	if !relevant {
		return fieldValue{kind: fieldNotApplicable}
	}
	if text == "" {
		return fieldValue{kind: fieldNotEntered}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fieldValue{kind: fieldNotEntered}
	}
	return fieldValue{kind: fieldHasValue, num: v}
}

// ptr resolves to the number-or-null wire form: not-applicable is null,
// not-entered is zero (the set was completed, so blank means skipped).
func (v fieldValue) ptr() *float64 {
	switch v.kind {
	case fieldNotApplicable:
		return nil
	case fieldNotEntered:
		zero := 0.0
		return &zero
	}
	n := v.num
	return &n
}
