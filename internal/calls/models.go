package calls

import (
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/tasks"
)

// Outcome is the caller-reported result of one call attempt. It drives the
// task's next-state transition.
type Outcome string

const (
	OutcomeConnected         Outcome = "connected"
	OutcomeBusy              Outcome = "busy"
	OutcomeNotPicking        Outcome = "not_picking"
	OutcomeScheduledCallback Outcome = "scheduled_callback"
	OutcomeWrongNumber       Outcome = "wrong_number"
)

func IsKnownOutcome(o Outcome) bool {
	switch o {
	case OutcomeConnected, OutcomeBusy, OutcomeNotPicking, OutcomeScheduledCallback, OutcomeWrongNumber:
		return true
	}
	return false
}

// Result qualifies a connected call. It is meaningful only when the outcome
// is connected and is dropped otherwise.
type Result string

const (
	ResultPositive      Result = "positive"
	ResultNeutral       Result = "neutral"
	ResultNotInterested Result = "not_interested"
	ResultComplaint     Result = "complaint"
)

func IsKnownResult(r Result) bool {
	switch r {
	case ResultPositive, ResultNeutral, ResultNotInterested, ResultComplaint:
		return true
	}
	return false
}

// CallLog is one append-only record per call attempt.
//
// task_id is a reference, not ownership: logs outlive task reassignment and
// are never mutated or deleted.
type CallLog struct {
	ID       string `json:"id" db:"id"`
	TaskID   string `json:"task_id" db:"task_id"`
	CallerID string `json:"caller_id" db:"caller_id"`

	PhoneNumber string `json:"phone_number" db:"phone_number"`

	// CallStatus is the outcome value at the time of the call.
	CallStatus Outcome `json:"call_status" db:"call_status"`

	// CallOutcome is set only for connected calls.
	CallOutcome *Result `json:"call_outcome,omitempty" db:"call_outcome"`

	CallDurationMins int    `json:"call_duration_mins" db:"call_duration_mins"`
	Comments         string `json:"comments,omitempty" db:"comments"`

	// ScheduledCallbackAt is the next attempt time computed at submit time,
	// for any outcome that rescheduled the task.
	ScheduledCallbackAt *time.Time `json:"scheduled_callback_at,omitempty" db:"scheduled_callback_at"`

	WhatsappSent bool `json:"whatsapp_sent" db:"whatsapp_sent"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Transition computes the task-side effect of an outcome.
//
// Reschedule outcomes (busy, not_picking) push the task 30 minutes out and
// keep it pending. A scheduled callback uses the caller-supplied time, or
// clears scheduled_at when none was given. Terminal outcomes (connected,
// wrong_number) complete the task and leave scheduled_at untouched.
func Transition(taskID string, outcome Outcome, now time.Time, callbackAt *time.Time) tasks.OutcomeUpdate {
	u := tasks.OutcomeUpdate{TaskID: taskID, Now: now}
	switch outcome {
	case OutcomeConnected, OutcomeWrongNumber:
		u.Status = tasks.StatusCompleted
	case OutcomeBusy, OutcomeNotPicking:
		retry := now.Add(30 * time.Minute)
		u.Status = tasks.StatusPending
		u.ScheduledAt = &retry
		u.SetScheduledAt = true
	case OutcomeScheduledCallback:
		u.Status = tasks.StatusPending
		u.ScheduledAt = callbackAt
		u.SetScheduledAt = true
	}
	return u
}
