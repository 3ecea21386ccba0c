package tasks

import "time"

// CallTask is one unit of outbound-call work: a phone number owned by one
// caller, with a lifecycle state.
//
// Invariants:
// - assigned_to always references a profile that was selected at import time.
// - attempt_count is incremented exactly once per outcome submission and
//   never decremented.
// - status is pending until a terminal outcome (connected or wrong_number)
//   is recorded; reschedule outcomes keep it pending with a future
//   scheduled_at.
// - tasks are never deleted; call_logs reference them across reassignment.
type CallTask struct {
	ID          string `json:"id" db:"id"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`
	Name        string `json:"name,omitempty" db:"name"`

	Status Status `json:"status" db:"status"`

	AssignedTo string `json:"assigned_to" db:"assigned_to"`

	// ScheduledAt nil means immediately actionable.
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`

	AttemptCount int `json:"attempt_count" db:"attempt_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// OutcomeUpdate captures the task-side effect of one outcome submission.
// SetScheduledAt distinguishes "write a new scheduled_at (possibly nil)"
// from "leave the existing value untouched".
type OutcomeUpdate struct {
	TaskID         string
	Status         Status
	ScheduledAt    *time.Time
	SetScheduledAt bool
	Now            time.Time
}
