package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CalendarDay is one day of the monthly training calendar.
type CalendarDay struct {
	Date         string      `json:"date"` // YYYY-MM-DD
	SessionCount int         `json:"sessionCount"`
	SessionIDs   []uuid.UUID `json:"sessionIds"`
}

// VolumeStats aggregates completed training over a time range. Volume is
// Σ weight×reps over weight_reps sets; reps and time sum over every set
// that recorded them.
type VolumeStats struct {
	SessionCount     int     `json:"sessionCount"`
	SetCount         int     `json:"setCount"`
	TotalVolume      float64 `json:"totalVolume"`
	TotalReps        int     `json:"totalReps"`
	TotalTimeSeconds float64 `json:"totalTimeSeconds"`
}

// PersonalBest is the heaviest recorded set per exercise.
type PersonalBest struct {
	ExerciseID   uuid.UUID `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	AchievedAt   time.Time `json:"achievedAt"`
}

// MonthlyCalendar returns one entry per day of the month that has at least
// one finished session.
func (db *DB) MonthlyCalendar(ctx context.Context, profileID uuid.UUID, year int, month time.Month) ([]CalendarDay, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	rows, err := db.Pool.Query(ctx, `
		SELECT to_char(started_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COUNT(*), array_agg(id ORDER BY started_at ASC)
		FROM workout_sessions
		WHERE profile_id = $1 AND ended_at IS NOT NULL
		  AND started_at >= $2 AND started_at < $3
		GROUP BY day
		ORDER BY day ASC
	`, profileID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("querying calendar: %w", err)
	}
	defer rows.Close()

	var result []CalendarDay
	for rows.Next() {
		var d CalendarDay
		if err := rows.Scan(&d.Date, &d.SessionCount, &d.SessionIDs); err != nil {
			return nil, fmt.Errorf("scanning calendar day: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// GetVolumeStats aggregates sets of finished sessions in a time range.
func (db *DB) GetVolumeStats(ctx context.Context, profileID uuid.UUID, start, end time.Time) (*VolumeStats, error) {
	var stats VolumeStats
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT s.id),
		       COUNT(ws.id),
		       COALESCE(SUM(COALESCE(ws.weight, 0) * COALESCE(ws.reps, 0)), 0),
		       COALESCE(SUM(COALESCE(ws.reps, 0)), 0),
		       COALESCE(SUM(COALESCE(ws.time_seconds, 0)), 0)
		FROM workout_sessions s
		LEFT JOIN workout_sets ws ON ws.session_id = s.id
		WHERE s.profile_id = $1 AND s.ended_at IS NOT NULL
		  AND s.started_at >= $2 AND s.started_at < $3
	`, profileID, start, end).Scan(
		&stats.SessionCount, &stats.SetCount, &stats.TotalVolume,
		&stats.TotalReps, &stats.TotalTimeSeconds)
	if err != nil {
		return nil, fmt.Errorf("querying volume stats: %w", err)
	}
	return &stats, nil
}

// GetPersonalBests returns, per exercise, the heaviest set ever recorded
// (ties broken by reps, then recency).
func (db *DB) GetPersonalBests(ctx context.Context, profileID uuid.UUID) ([]PersonalBest, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT ON (ws.exercise_id)
		       ws.exercise_id, ws.exercise_name, ws.weight, COALESCE(ws.reps, 0), s.started_at
		FROM workout_sets ws
		JOIN workout_sessions s ON s.id = ws.session_id
		WHERE s.profile_id = $1 AND s.ended_at IS NOT NULL
		  AND ws.weight IS NOT NULL AND ws.weight > 0
		ORDER BY ws.exercise_id, ws.weight DESC, ws.reps DESC NULLS LAST, s.started_at DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("querying personal bests: %w", err)
	}
	defer rows.Close()

	var result []PersonalBest
	for rows.Next() {
		var pb PersonalBest
		if err := rows.Scan(&pb.ExerciseID, &pb.ExerciseName, &pb.Weight, &pb.Reps, &pb.AchievedAt); err != nil {
			return nil, fmt.Errorf("scanning personal best: %w", err)
		}
		result = append(result, pb)
	}
	return result, rows.Err()
}
