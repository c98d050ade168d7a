package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/heraheo/JuniFit-sub000/internal/workout"
)

// TestRegistrySingleActive verifies that one profile cannot start a
// second workout while one is in progress, and that another profile can.
func TestRegistrySingleActive(t *testing.T) {
	lr := newLiveRegistry(slog.Default())
	t.Cleanup(func() { _, _ = lr.Discard(testProfileID) })

	if _, err := lr.Start(testProfileID, uuid.New(), liveTestProgram()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := lr.Start(testProfileID, uuid.New(), liveTestProgram()); !errors.Is(err, ErrWorkoutActive) {
		t.Errorf("second start err = %v, want ErrWorkoutActive", err)
	}

	otherProfile := uuid.New()
	if _, err := lr.Start(otherProfile, uuid.New(), liveTestProgram()); err != nil {
		t.Errorf("other profile start: %v", err)
	}
	_, _ = lr.Discard(otherProfile)
}

// TestRegistryDiscard verifies that discarding stops the timer and frees
// the slot for a new workout.
func TestRegistryDiscard(t *testing.T) {
	lr := newLiveRegistry(slog.Default())

	lw, err := lr.Start(testProfileID, uuid.New(), liveTestProgram())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	lw.Session.Timer().Start(90)

	if _, err := lr.Discard(testProfileID); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if state, _, _ := lw.Session.Timer().State(); state != workout.TimerIdle {
		t.Errorf("timer state after discard = %s, want idle", state)
	}
	if _, err := lr.Discard(testProfileID); !errors.Is(err, ErrNoActiveWorkout) {
		t.Errorf("second discard err = %v, want ErrNoActiveWorkout", err)
	}

	if _, err := lr.Start(testProfileID, uuid.New(), liveTestProgram()); err != nil {
		t.Errorf("restart after discard: %v", err)
	}
	_, _ = lr.Discard(testProfileID)
}

// TestRegistryWithNoActive verifies the error for operating on a profile
// with nothing in progress.
func TestRegistryWithNoActive(t *testing.T) {
	lr := newLiveRegistry(slog.Default())

	err := lr.With(uuid.New(), func(lw *liveWorkout) error { return nil })
	if !errors.Is(err, ErrNoActiveWorkout) {
		t.Errorf("With err = %v, want ErrNoActiveWorkout", err)
	}
}

// TestParseTimeRange verifies default and explicit time windows.
func TestParseTimeRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("default range: %v", err)
	}
	if days := end.Sub(start).Hours() / 24; days < 29 || days > 31 {
		t.Errorf("default window = %.1f days, want ~30", days)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions?start=2026-01-01&end=2026-02-01", nil)
	start, end, err = parseTimeRange(req)
	if err != nil {
		t.Fatalf("explicit range: %v", err)
	}
	if start.Month() != 1 || end.Month() != 2 {
		t.Errorf("range = %s..%s, want Jan..Feb", start, end)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions?start=yesterday", nil)
	if _, _, err := parseTimeRange(req); err == nil {
		t.Error("expected error for unparsable start")
	}
}
