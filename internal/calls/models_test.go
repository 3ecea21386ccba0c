package calls

import (
	"testing"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/tasks"
)

func TestTransition_TerminalOutcomesCompleteWithoutTouchingSchedule(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, outcome := range []Outcome{OutcomeConnected, OutcomeWrongNumber} {
		u := Transition("t1", outcome, now, nil)
		if u.Status != tasks.StatusCompleted {
			t.Fatalf("%s: expected completed, got %s", outcome, u.Status)
		}
		if u.SetScheduledAt {
			t.Fatalf("%s: expected scheduled_at left untouched", outcome)
		}
	}
}

func TestTransition_RetryOutcomesPushThirtyMinutes(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, outcome := range []Outcome{OutcomeBusy, OutcomeNotPicking} {
		u := Transition("t1", outcome, now, nil)
		if u.Status != tasks.StatusPending {
			t.Fatalf("%s: expected pending, got %s", outcome, u.Status)
		}
		if !u.SetScheduledAt || u.ScheduledAt == nil {
			t.Fatalf("%s: expected a new scheduled_at", outcome)
		}
		if got, want := *u.ScheduledAt, now.Add(30*time.Minute); !got.Equal(want) {
			t.Fatalf("%s: expected %v, got %v", outcome, want, got)
		}
	}
}

func TestTransition_ScheduledCallbackUsesCallerTime(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	callback := now.Add(26 * time.Hour)

	u := Transition("t1", OutcomeScheduledCallback, now, &callback)
	if u.Status != tasks.StatusPending {
		t.Fatalf("expected pending, got %s", u.Status)
	}
	if !u.SetScheduledAt || u.ScheduledAt == nil || !u.ScheduledAt.Equal(callback) {
		t.Fatalf("expected scheduled_at %v, got %+v", callback, u)
	}
}

func TestTransition_ScheduledCallbackWithoutTimeClearsSchedule(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	u := Transition("t1", OutcomeScheduledCallback, now, nil)
	if u.Status != tasks.StatusPending {
		t.Fatalf("expected pending, got %s", u.Status)
	}
	if !u.SetScheduledAt || u.ScheduledAt != nil {
		t.Fatalf("expected scheduled_at cleared, got %+v", u)
	}
}

func TestIsKnownOutcome(t *testing.T) {
	known := []Outcome{OutcomeConnected, OutcomeBusy, OutcomeNotPicking, OutcomeScheduledCallback, OutcomeWrongNumber}
	for _, o := range known {
		if !IsKnownOutcome(o) {
			t.Fatalf("expected %q to be known", o)
		}
	}
	if IsKnownOutcome("voicemail") {
		t.Fatalf("expected unknown outcome to be rejected")
	}
}
