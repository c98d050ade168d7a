package workout

import (
	"context"
	"sync"
	"time"
)

// TimerState is the rest timer's state: idle or running.
type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
)

// TimerEvent is emitted on the timer's event channel when a rest period
// completes — either by counting down to zero or by an explicit skip.
// Dismissing the timer (Close) emits nothing.
type TimerEvent struct {
	// TotalSeconds is the length the rest period was started with.
	TotalSeconds int `json:"totalSeconds"`
	// Skipped is true when the user skipped instead of waiting out the countdown.
	Skipped bool `json:"skipped"`
}

// RestTimer is a single-countdown state machine. At most one rest period is
// active: starting a new one discards the previous countdown (last start
// wins, no queueing). Completion is published as an event on a channel
// rather than through a stored callback, so the consumer decides on its own
// goroutine what "rest finished" means.
//
// Tick advances the countdown by one second; Run drives Tick from a wall
// clock ticker. Tests call Tick directly.
type RestTimer struct {
	mu        sync.Mutex
	state     TimerState
	total     int
	remaining int
	events    chan TimerEvent
}

// NewRestTimer returns an idle timer.
func NewRestTimer() *RestTimer {
	return &RestTimer{
		state:  TimerIdle,
		events: make(chan TimerEvent, 4),
	}
}

// Events is the completion event stream. The channel is buffered and never
// closed; events are dropped rather than blocking if nobody is listening.
func (t *RestTimer) Events() <-chan TimerEvent { return t.events }

// Start begins a rest period of the given length, replacing any countdown
// already in progress. Non-positive durations are ignored.
func (t *RestTimer) Start(seconds int) {
	if seconds <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = TimerRunning
	t.total = seconds
	t.remaining = seconds
}

// Tick advances the countdown by one second. When the countdown reaches
// zero the timer goes idle and exactly one completion event is emitted.
// Ticks while idle do nothing.
func (t *RestTimer) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning {
		return
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = TimerIdle
		t.emit(TimerEvent{TotalSeconds: t.total})
	}
}

// Skip ends the active rest period immediately and emits the same
// completion event natural expiry would. Skipping an idle timer does
// nothing.
func (t *RestTimer) Skip() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning {
		return
	}
	t.remaining = 0
	t.state = TimerIdle
	t.emit(TimerEvent{TotalSeconds: t.total, Skipped: true})
}

// Close dismisses the timer without emitting a completion event — the user
// closed the countdown display without wanting the follow-on action.
// Closing an idle timer is a no-op.
func (t *RestTimer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning {
		return
	}
	t.remaining = 0
	t.state = TimerIdle
}

// State returns the current state and countdown position.
func (t *RestTimer) State() (state TimerState, remaining, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.remaining, t.total
}

// Run drives the countdown from a wall clock until ctx is cancelled.
func (t *RestTimer) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// emit publishes without blocking; the buffer absorbs bursts and a full
// buffer drops the event instead of stalling a tick. Callers hold t.mu.
func (t *RestTimer) emit(ev TimerEvent) {
	select {
	case t.events <- ev:
	default:
	}
}
