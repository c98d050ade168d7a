package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/models"
	"github.com/heraheo/JuniFit-sub000/internal/storage"
)

// DataSource abstracts the data layer for MCP tools, so tests can
// substitute a fake for *storage.DB.
type DataSource interface {
	ListPrograms(ctx context.Context, profileID uuid.UUID) ([]models.Program, error)
	GetProgram(ctx context.Context, programID, profileID uuid.UUID) (models.Program, error)
	QuerySessions(ctx context.Context, profileID uuid.UUID, start, end time.Time) ([]models.WorkoutSession, error)
	GetSession(ctx context.Context, sessionID, profileID uuid.UUID) (models.WorkoutSession, error)
	QuerySessionSets(ctx context.Context, sessionID uuid.UUID) ([]models.WorkoutSet, error)
	GetVolumeStats(ctx context.Context, profileID uuid.UUID, start, end time.Time) (*storage.VolumeStats, error)
	MonthlyCalendar(ctx context.Context, profileID uuid.UUID, year int, month time.Month) ([]storage.CalendarDay, error)
	GetPersonalBests(ctx context.Context, profileID uuid.UUID) ([]storage.PersonalBest, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
