package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// ProgramExerciseInput is the authoring form of one program slot. Display
// metadata (name, body part, record type) is not accepted here — it is
// projected from the exercise catalog at read time, so catalog fixes
// propagate without touching programs.
type ProgramExerciseInput struct {
	ExerciseID   uuid.UUID `json:"exerciseId"`
	TargetSets   int       `json:"targetSets"`
	TargetReps   *int      `json:"targetReps,omitempty"`
	TargetWeight *float64  `json:"targetWeight,omitempty"`
	TargetTime   *float64  `json:"targetTime,omitempty"`
	RestSeconds  int       `json:"restSeconds"`
	Intention    string    `json:"intention"`
}

const programExerciseProjection = `
	SELECT pe.id, pe.program_id, pe.exercise_id, e.name, e.body_part, e.record_type,
	       pe.target_sets, pe.target_reps, pe.target_weight, pe.target_time,
	       pe.rest_seconds, pe.display_order, pe.intention
	FROM program_exercises pe
	JOIN exercises e ON e.id = pe.exercise_id`

// CreateProgram inserts a program and its exercise slots in one
// transaction. Display order follows the input slice, starting at 1.
func (db *DB) CreateProgram(ctx context.Context, profileID uuid.UUID, title, description string, targetRPE *float64, exercises []ProgramExerciseInput) (models.Program, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.Program{}, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var p models.Program
	err = tx.QueryRow(ctx, `
		INSERT INTO programs (id, profile_id, title, description, target_rpe)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, profile_id, title, description, target_rpe, archived_at, created_at
	`, uuid.New(), profileID, title, description, targetRPE).Scan(
		&p.ID, &p.ProfileID, &p.Title, &p.Description, &p.TargetRPE, &p.ArchivedAt, &p.CreatedAt)
	if err != nil {
		return models.Program{}, fmt.Errorf("inserting program: %w", err)
	}

	if err := insertProgramExercises(ctx, tx, p.ID, exercises); err != nil {
		return models.Program{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Program{}, fmt.Errorf("committing program: %w", err)
	}
	return db.GetProgram(ctx, p.ID, profileID)
}

// UpdateProgram rewrites a program's metadata and replaces its exercise
// slots wholesale, in one transaction. Past sessions are unaffected: their
// sets carry denormalized exercise names.
func (db *DB) UpdateProgram(ctx context.Context, programID, profileID uuid.UUID, title, description string, targetRPE *float64, exercises []ProgramExerciseInput) (models.Program, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.Program{}, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE programs SET title = $1, description = $2, target_rpe = $3
		WHERE id = $4 AND profile_id = $5 AND archived_at IS NULL
	`, title, description, targetRPE, programID, profileID)
	if err != nil {
		return models.Program{}, fmt.Errorf("updating program: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Program{}, ErrProgramNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM program_exercises WHERE program_id = $1`, programID); err != nil {
		return models.Program{}, fmt.Errorf("clearing program exercises: %w", err)
	}
	if err := insertProgramExercises(ctx, tx, programID, exercises); err != nil {
		return models.Program{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Program{}, fmt.Errorf("committing program update: %w", err)
	}
	return db.GetProgram(ctx, programID, profileID)
}

func insertProgramExercises(ctx context.Context, tx pgx.Tx, programID uuid.UUID, exercises []ProgramExerciseInput) error {
	for i, ex := range exercises {
		_, err := tx.Exec(ctx, `
			INSERT INTO program_exercises
				(id, program_id, exercise_id, target_sets, target_reps,
				 target_weight, target_time, rest_seconds, display_order, intention)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, uuid.New(), programID, ex.ExerciseID, ex.TargetSets, ex.TargetReps,
			ex.TargetWeight, ex.TargetTime, ex.RestSeconds, i+1, ex.Intention)
		if err != nil {
			return fmt.Errorf("inserting program exercise %d: %w", i+1, err)
		}
	}
	return nil
}

// GetProgram retrieves a program with its exercises in display order. The
// denormalized display metadata on each slot is a read-time projection from
// the exercise catalog. Archived programs are still readable — sessions
// reference them.
func (db *DB) GetProgram(ctx context.Context, programID, profileID uuid.UUID) (models.Program, error) {
	var p models.Program
	err := db.Pool.QueryRow(ctx, `
		SELECT id, profile_id, title, description, target_rpe, archived_at, created_at
		FROM programs WHERE id = $1 AND profile_id = $2
	`, programID, profileID).Scan(
		&p.ID, &p.ProfileID, &p.Title, &p.Description, &p.TargetRPE, &p.ArchivedAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Program{}, ErrProgramNotFound
	}
	if err != nil {
		return models.Program{}, fmt.Errorf("querying program: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		programExerciseProjection+` WHERE pe.program_id = $1 ORDER BY pe.display_order ASC`,
		programID)
	if err != nil {
		return models.Program{}, fmt.Errorf("querying program exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ex models.ProgramExercise
		if err := rows.Scan(&ex.ID, &ex.ProgramID, &ex.ExerciseID, &ex.ExerciseName,
			&ex.BodyPart, &ex.RecordType, &ex.TargetSets, &ex.TargetReps,
			&ex.TargetWeight, &ex.TargetTime, &ex.RestSeconds, &ex.DisplayOrder,
			&ex.Intention); err != nil {
			return models.Program{}, fmt.Errorf("scanning program exercise: %w", err)
		}
		p.Exercises = append(p.Exercises, ex)
	}
	return p, rows.Err()
}

// ListPrograms returns the profile's non-archived programs, newest first,
// without exercise details.
func (db *DB) ListPrograms(ctx context.Context, profileID uuid.UUID) ([]models.Program, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, profile_id, title, description, target_rpe, archived_at, created_at
		FROM programs
		WHERE profile_id = $1 AND archived_at IS NULL
		ORDER BY created_at DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var result []models.Program
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.ProfileID, &p.Title, &p.Description,
			&p.TargetRPE, &p.ArchivedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ArchiveProgram soft-deletes a program. Past sessions keep their
// reference; the program just disappears from listings.
func (db *DB) ArchiveProgram(ctx context.Context, programID, profileID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE programs SET archived_at = NOW()
		WHERE id = $1 AND profile_id = $2 AND archived_at IS NULL
	`, programID, profileID)
	if err != nil {
		return fmt.Errorf("archiving program: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}
