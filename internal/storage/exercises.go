package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// ListExercises returns the full catalog with aliases, ordered by name.
// Filtering happens in memory (workout.FilterExercises) — the catalog is
// small and the match rules are not expressible as a simple LIKE.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT e.id, e.name, e.body_part, e.record_type, e.created_at,
		       COALESCE(array_agg(a.alias) FILTER (WHERE a.alias IS NOT NULL), '{}')
		FROM exercises e
		LEFT JOIN exercise_aliases a ON a.exercise_id = e.id
		GROUP BY e.id
		ORDER BY e.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.BodyPart, &e.RecordType, &e.CreatedAt, &e.Aliases); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExercise retrieves one catalog entry with its aliases.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID) (models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx, `
		SELECT e.id, e.name, e.body_part, e.record_type, e.created_at,
		       COALESCE(array_agg(a.alias) FILTER (WHERE a.alias IS NOT NULL), '{}')
		FROM exercises e
		LEFT JOIN exercise_aliases a ON a.exercise_id = e.id
		WHERE e.id = $1
		GROUP BY e.id
	`, id).Scan(&e.ID, &e.Name, &e.BodyPart, &e.RecordType, &e.CreatedAt, &e.Aliases)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Exercise{}, ErrExerciseNotFound
	}
	if err != nil {
		return models.Exercise{}, fmt.Errorf("querying exercise: %w", err)
	}
	return e, nil
}

// CreateExercise adds a catalog entry with optional aliases.
func (db *DB) CreateExercise(ctx context.Context, name, bodyPart string, recordType models.RecordType, aliases []string) (models.Exercise, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var e models.Exercise
	err = tx.QueryRow(ctx, `
		INSERT INTO exercises (id, name, body_part, record_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, body_part, record_type, created_at
	`, uuid.New(), name, bodyPart, recordType).Scan(&e.ID, &e.Name, &e.BodyPart, &e.RecordType, &e.CreatedAt)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("inserting exercise: %w", err)
	}

	for _, alias := range aliases {
		if _, err := tx.Exec(ctx, `
			INSERT INTO exercise_aliases (exercise_id, alias) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, e.ID, alias); err != nil {
			return models.Exercise{}, fmt.Errorf("inserting alias: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Exercise{}, fmt.Errorf("committing exercise: %w", err)
	}
	e.Aliases = aliases
	return e, nil
}
