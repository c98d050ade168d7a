package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// CreateSession opens a workout session against a program (nil for an ad
// hoc workout). started_at is stamped here.
func (db *DB) CreateSession(ctx context.Context, profileID uuid.UUID, programID *uuid.UUID) (models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO workout_sessions (id, profile_id, program_id, started_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, profile_id, program_id, started_at, ended_at, note
	`, uuid.New(), profileID, programID).Scan(
		&s.ID, &s.ProfileID, &s.ProgramID, &s.StartedAt, &s.EndedAt, &s.Note)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("inserting session: %w", err)
	}
	return s, nil
}

// CreateSessionAt opens a session with an explicit start time. Used for
// imported history, where started_at is in the past.
func (db *DB) CreateSessionAt(ctx context.Context, profileID uuid.UUID, programID *uuid.UUID, startedAt time.Time) (models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO workout_sessions (id, profile_id, program_id, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, profile_id, program_id, started_at, ended_at, note
	`, uuid.New(), profileID, programID, startedAt).Scan(
		&s.ID, &s.ProfileID, &s.ProgramID, &s.StartedAt, &s.EndedAt, &s.Note)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("inserting session: %w", err)
	}
	return s, nil
}

// GetSession retrieves one session.
func (db *DB) GetSession(ctx context.Context, sessionID, profileID uuid.UUID) (models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := db.Pool.QueryRow(ctx, `
		SELECT id, profile_id, program_id, started_at, ended_at, note
		FROM workout_sessions WHERE id = $1 AND profile_id = $2
	`, sessionID, profileID).Scan(
		&s.ID, &s.ProfileID, &s.ProgramID, &s.StartedAt, &s.EndedAt, &s.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.WorkoutSession{}, ErrSessionNotFound
	}
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("querying session: %w", err)
	}
	return s, nil
}

// QuerySessions retrieves finished and in-progress sessions in a time
// range, newest first.
func (db *DB) QuerySessions(ctx context.Context, profileID uuid.UUID, start, end time.Time) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, profile_id, program_id, started_at, ended_at, note
		FROM workout_sessions
		WHERE profile_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at DESC
	`, profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.ProgramID, &s.StartedAt, &s.EndedAt, &s.Note); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// DeleteSession hard-deletes a session; its sets go with it (FK cascade).
// Returns whether a row was deleted.
func (db *DB) DeleteSession(ctx context.Context, sessionID, profileID uuid.UUID) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM workout_sessions WHERE id = $1 AND profile_id = $2
	`, sessionID, profileID)
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CompleteSession stamps ended_at and the session note. Satisfies
// workout.SessionStore.
func (db *DB) CompleteSession(ctx context.Context, sessionID uuid.UUID, endedAt time.Time, note string) (models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := db.Pool.QueryRow(ctx, `
		UPDATE workout_sessions SET ended_at = $1, note = $2
		WHERE id = $3
		RETURNING id, profile_id, program_id, started_at, ended_at, note
	`, endedAt, note, sessionID).Scan(
		&s.ID, &s.ProfileID, &s.ProgramID, &s.StartedAt, &s.EndedAt, &s.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.WorkoutSession{}, ErrSessionNotFound
	}
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("completing session: %w", err)
	}
	return s, nil
}

// DeleteSessionSets removes all of a session's sets. A finish retry calls
// this before rewriting, so a partially-persisted earlier attempt never
// trips the (session, exercise, set_number) unique constraint. Satisfies
// workout.SessionStore.
func (db *DB) DeleteSessionSets(ctx context.Context, sessionID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM workout_sets WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting session sets: %w", err)
	}
	return nil
}

// CreateSet inserts one recorded set. Satisfies workout.SessionStore.
func (db *DB) CreateSet(ctx context.Context, set models.WorkoutSet) (models.WorkoutSet, error) {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO workout_sets
			(id, session_id, exercise_id, exercise_name, set_number,
			 weight, reps, time_seconds, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, uuid.New(), set.SessionID, set.ExerciseID, set.ExerciseName, set.SetNumber,
		set.Weight, set.Reps, set.TimeSeconds, set.Note).Scan(&set.ID)
	if err != nil {
		return models.WorkoutSet{}, fmt.Errorf("inserting set: %w", err)
	}
	return set, nil
}

// UpdateSet rewrites a set's performance values. Satisfies
// workout.SetUpdater.
func (db *DB) UpdateSet(ctx context.Context, setID uuid.UUID, weight *float64, reps *int, timeSeconds *float64) (models.WorkoutSet, error) {
	var set models.WorkoutSet
	err := db.Pool.QueryRow(ctx, `
		UPDATE workout_sets SET weight = $1, reps = $2, time_seconds = $3
		WHERE id = $4
		RETURNING id, session_id, exercise_id, exercise_name, set_number,
		          weight, reps, time_seconds, note
	`, weight, reps, timeSeconds, setID).Scan(
		&set.ID, &set.SessionID, &set.ExerciseID, &set.ExerciseName, &set.SetNumber,
		&set.Weight, &set.Reps, &set.TimeSeconds, &set.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.WorkoutSet{}, ErrSetNotFound
	}
	if err != nil {
		return models.WorkoutSet{}, fmt.Errorf("updating set: %w", err)
	}
	return set, nil
}

// QuerySessionSets retrieves a session's sets in execution order.
func (db *DB) QuerySessionSets(ctx context.Context, sessionID uuid.UUID) ([]models.WorkoutSet, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, session_id, exercise_id, exercise_name, set_number,
		       weight, reps, time_seconds, note
		FROM workout_sets
		WHERE session_id = $1
		ORDER BY exercise_name ASC, set_number ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSet
	for rows.Next() {
		var s models.WorkoutSet
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.ExerciseName,
			&s.SetNumber, &s.Weight, &s.Reps, &s.TimeSeconds, &s.Note); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
