package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// Store is the storage surface the importer writes through.
// *storage.DB satisfies it.
type Store interface {
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	CreateExercise(ctx context.Context, name, bodyPart string, recordType models.RecordType, aliases []string) (models.Exercise, error)
	CreateSessionAt(ctx context.Context, profileID uuid.UUID, programID *uuid.UUID, startedAt time.Time) (models.WorkoutSession, error)
	CreateSet(ctx context.Context, set models.WorkoutSet) (models.WorkoutSet, error)
	CompleteSession(ctx context.Context, sessionID uuid.UUID, endedAt time.Time, note string) (models.WorkoutSession, error)
}

// Result summarizes one import run.
type Result struct {
	SessionsImported int
	SetsImported     int
	ExercisesCreated int
}

// Importer brings exported workout history into the live catalog and
// history tables.
type Importer struct {
	store Store
	log   *slog.Logger
}

// New creates an Importer writing through the given store.
func New(store Store, log *slog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Import parses an export and writes its sessions as completed history
// for the profile. Exercises not yet in the catalog are created with the
// record type the export declares. Sessions import atomically enough for
// a CLI: a failed session aborts the run, leaving earlier sessions in.
func (imp *Importer) Import(ctx context.Context, r io.Reader, profileID uuid.UUID) (*Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	catalog, err := imp.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, s := range sessions {
		sets, err := imp.importSession(ctx, s, profileID, catalog, result)
		if err != nil {
			return result, fmt.Errorf("importing session %q (%s): %w", s.Name, s.Date.Format("2006-01-02"), err)
		}
		result.SessionsImported++
		result.SetsImported += sets
	}
	return result, nil
}

// loadCatalog maps lowercased exercise names (and aliases) to catalog entries.
func (imp *Importer) loadCatalog(ctx context.Context) (map[string]models.Exercise, error) {
	exercises, err := imp.store.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading exercise catalog: %w", err)
	}
	catalog := make(map[string]models.Exercise, len(exercises))
	for _, ex := range exercises {
		catalog[strings.ToLower(ex.Name)] = ex
		for _, alias := range ex.Aliases {
			catalog[strings.ToLower(alias)] = ex
		}
	}
	return catalog, nil
}

func (imp *Importer) importSession(ctx context.Context, s ImportSession, profileID uuid.UUID, catalog map[string]models.Exercise, result *Result) (int, error) {
	session, err := imp.store.CreateSessionAt(ctx, profileID, nil, s.Date)
	if err != nil {
		return 0, fmt.Errorf("creating session: %w", err)
	}

	setsWritten := 0
	for _, ex := range s.Exercises {
		entry, ok := catalog[strings.ToLower(ex.Name)]
		if !ok {
			entry, err = imp.store.CreateExercise(ctx, ex.Name, "", ex.RecordType, nil)
			if err != nil {
				return setsWritten, fmt.Errorf("creating exercise %q: %w", ex.Name, err)
			}
			catalog[strings.ToLower(ex.Name)] = entry
			result.ExercisesCreated++
			imp.log.Info("exercise created from import", "name", ex.Name, "recordType", ex.RecordType)
		}

		for _, set := range ex.Sets {
			_, err := imp.store.CreateSet(ctx, models.WorkoutSet{
				SessionID:    session.ID,
				ExerciseID:   entry.ID,
				ExerciseName: entry.Name,
				SetNumber:    set.Number,
				Weight:       set.Weight,
				Reps:         set.Reps,
				TimeSeconds:  set.TimeSeconds,
			})
			if err != nil {
				return setsWritten, fmt.Errorf("writing %s set %d: %w", ex.Name, set.Number, err)
			}
			setsWritten++
		}
	}

	endedAt := s.Date.Add(s.Duration)
	note := s.Note
	if note == "" {
		note = fmt.Sprintf("Imported: %s", s.Name)
	}
	if _, err := imp.store.CompleteSession(ctx, session.ID, endedAt, note); err != nil {
		return setsWritten, fmt.Errorf("completing session: %w", err)
	}
	return setsWritten, nil
}
