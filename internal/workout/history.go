package workout

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// SetUpdater is the backend surface for editing historical sets.
type SetUpdater interface {
	UpdateSet(ctx context.Context, setID uuid.UUID, weight *float64, reps *int, timeSeconds *float64) (models.WorkoutSet, error)
}

// SetEdit carries the edited text for one historical set. Empty or
// unparsable text counts as zero.
type SetEdit struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
	Time   string `json:"time"`
}

// ApplyEdits reconciles user-edited values against the originally stored
// sets. Each original with a matching edit entry is compared numerically;
// only sets whose weight, reps, or time actually changed get an update
// write. Originals without an edit entry are untouched. Fields stored as
// null stay null — the record type never gains a dimension through editing,
// so null dimensions are excluded from the comparison too.
//
// Returns whether anything was persisted, so the caller knows to refetch.
// The first write failure aborts the remaining writes.
func ApplyEdits(ctx context.Context, store SetUpdater, originals []models.WorkoutSet, edits map[uuid.UUID]SetEdit) (changed bool, err error) {
	for _, orig := range originals {
		edit, ok := edits[orig.ID]
		if !ok {
			continue
		}

		weight := parseOrZero(edit.Weight)
		reps := parseOrZero(edit.Reps)
		timeSec := parseOrZero(edit.Time)

		if (orig.Weight == nil || weight == *orig.Weight) &&
			(orig.Reps == nil || reps == float64(*orig.Reps)) &&
			(orig.TimeSeconds == nil || timeSec == *orig.TimeSeconds) {
			continue
		}

		var newWeight, newTime *float64
		var newReps *int
		if orig.Weight != nil {
			newWeight = &weight
		}
		if orig.Reps != nil {
			n := int(reps)
			newReps = &n
		}
		if orig.TimeSeconds != nil {
			newTime = &timeSec
		}

		if _, err := store.UpdateSet(ctx, orig.ID, newWeight, newReps, newTime); err != nil {
			return changed, fmt.Errorf("updating %s set %d: %w", orig.ExerciseName, orig.SetNumber, err)
		}
		changed = true
	}
	return changed, nil
}

func parseOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
