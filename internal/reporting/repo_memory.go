package reporting

import (
	"context"
	"sync"

	"github.com/anujdalvisuperk/calling-assistant/internal/calls"
	"github.com/anujdalvisuperk/calling-assistant/internal/tasks"
)

// MemoryRepo aggregates over in-memory rows for tests.
type MemoryRepo struct {
	mu sync.Mutex

	Tasks []tasks.CallTask
	Logs  []calls.CallLog

	// Emails maps profile IDs to emails for the per-agent breakdown.
	Emails map[string]string
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{Emails: map[string]string{}} }

func (r *MemoryRepo) TaskCounts(ctx context.Context) (TasksSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out TasksSummary
	for _, t := range r.Tasks {
		out.Total++
		switch t.Status {
		case tasks.StatusPending:
			out.Pending++
		case tasks.StatusCompleted:
			out.Completed++
		}
	}
	return out, nil
}

func (r *MemoryRepo) TaskCountsByAssignee(ctx context.Context) ([]AgentSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser := map[string]*AgentSummary{}
	for _, t := range r.Tasks {
		a, ok := byUser[t.AssignedTo]
		if !ok {
			a = &AgentSummary{UserID: t.AssignedTo, Email: r.Emails[t.AssignedTo]}
			byUser[t.AssignedTo] = a
		}
		switch t.Status {
		case tasks.StatusPending:
			a.Pending++
		case tasks.StatusCompleted:
			a.Completed++
		}
		a.Attempts += t.AttemptCount
	}
	out := make([]AgentSummary, 0, len(byUser))
	for _, a := range byUser {
		out = append(out, *a)
	}
	return out, nil
}

func (r *MemoryRepo) CallActivity(ctx context.Context, rng TimeRange) (CallActivitySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := CallActivitySummary{Range: rng}
	for _, l := range r.Logs {
		if l.CreatedAt.Before(rng.From) || !l.CreatedAt.Before(rng.To) {
			continue
		}
		out.TotalCalls++
		out.TotalDurationMins += l.CallDurationMins
		switch l.CallStatus {
		case calls.OutcomeConnected:
			out.ConnectedCalls++
		case calls.OutcomeBusy:
			out.BusyCalls++
		case calls.OutcomeNotPicking:
			out.NotPickingCalls++
		case calls.OutcomeScheduledCallback:
			out.CallbackCalls++
		case calls.OutcomeWrongNumber:
			out.WrongNumberCalls++
		}
		if l.WhatsappSent {
			out.WhatsappSent++
		}
	}
	if out.TotalCalls > 0 {
		out.AverageDurationMins = out.TotalDurationMins / out.TotalCalls
	}
	return out, nil
}
