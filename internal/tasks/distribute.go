package tasks

import (
	"errors"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/leads"

	"github.com/google/uuid"
)

var ErrNoAssignees = errors.New("no assignment targets selected")

// Distribute round-robins contact rows across the selected assignees and
// materializes task rows.
//
// Row i (0-indexed, after dropping rows without a phone number) goes to
// assignees[i mod K]. The assignment is fully deterministic for a fixed row
// order and selection order, and per-assignee counts differ by at most one.
//
// Tasks start pending with attempt_count 0 and no scheduled_at, so they are
// immediately actionable.
func Distribute(rows []leads.ContactRow, assigneeIDs []string, now time.Time) ([]CallTask, error) {
	if len(assigneeIDs) == 0 {
		return nil, ErrNoAssignees
	}

	out := make([]CallTask, 0, len(rows))
	i := 0
	for _, row := range rows {
		if row.PhoneNumber == "" {
			continue
		}
		out = append(out, CallTask{
			ID:           uuid.NewString(),
			PhoneNumber:  row.PhoneNumber,
			Name:         row.Name,
			Status:       StatusPending,
			AssignedTo:   assigneeIDs[i%len(assigneeIDs)],
			AttemptCount: 0,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		i++
	}
	return out, nil
}
