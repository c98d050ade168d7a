package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/models"
	"github.com/heraheo/JuniFit-sub000/internal/workout"
)

var (
	// ErrWorkoutActive means the profile already has a workout in progress.
	ErrWorkoutActive = errors.New("a workout is already active")
	// ErrNoActiveWorkout means no workout is in progress for the profile.
	ErrNoActiveWorkout = errors.New("no active workout")
)

// liveWorkout is one in-progress workout. Storage sees nothing until
// the workout is finished; everything here lives in memory.
type liveWorkout struct {
	SessionID uuid.UUID
	Program   models.Program
	StartedAt time.Time
	Session   *workout.Session

	cancel    context.CancelFunc
	restsDone atomic.Int64
}

// liveRegistry tracks the single active workout per profile.
type liveRegistry struct {
	mu        sync.Mutex
	byProfile map[uuid.UUID]*liveWorkout
	log       *slog.Logger
}

func newLiveRegistry(log *slog.Logger) *liveRegistry {
	return &liveRegistry{
		byProfile: make(map[uuid.UUID]*liveWorkout),
		log:       log,
	}
}

// Start registers a new live workout for the profile and begins driving
// its rest timer. Fails if one is already active.
func (lr *liveRegistry) Start(profileID, sessionID uuid.UUID, program models.Program) (*liveWorkout, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if _, ok := lr.byProfile[profileID]; ok {
		return nil, ErrWorkoutActive
	}

	sess := workout.NewSession(&program)
	ctx, cancel := context.WithCancel(context.Background())
	lw := &liveWorkout{
		SessionID: sessionID,
		Program:   program,
		StartedAt: time.Now(),
		Session:   sess,
		cancel:    cancel,
	}
	lr.byProfile[profileID] = lw

	go sess.Timer().Run(ctx)
	go lr.consumeTimerEvents(ctx, profileID, lw)

	return lw, nil
}

// With runs fn against the profile's active workout while holding the
// registry lock, so handler mutations of the session never race.
func (lr *liveRegistry) With(profileID uuid.UUID, fn func(*liveWorkout) error) error {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	lw, ok := lr.byProfile[profileID]
	if !ok {
		return ErrNoActiveWorkout
	}
	return fn(lw)
}

// Discard removes the profile's active workout and stops its timer.
// Returns the discarded workout so the caller can clean up storage.
func (lr *liveRegistry) Discard(profileID uuid.UUID) (*liveWorkout, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	lw, ok := lr.byProfile[profileID]
	if !ok {
		return nil, ErrNoActiveWorkout
	}
	delete(lr.byProfile, profileID)
	lw.Session.Timer().Close()
	lw.cancel()
	return lw, nil
}

// consumeTimerEvents drains rest-timer completions for the lifetime of
// the workout. Discarding the workout cancels ctx and ends the loop.
func (lr *liveRegistry) consumeTimerEvents(ctx context.Context, profileID uuid.UUID, lw *liveWorkout) {
	events := lw.Session.Timer().Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			lw.restsDone.Add(1)
			lr.log.Info("rest finished",
				"profile", profileID,
				"session", lw.SessionID,
				"seconds", ev.TotalSeconds,
				"skipped", ev.Skipped,
			)
		}
	}
}
