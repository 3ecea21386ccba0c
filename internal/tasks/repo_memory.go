package tasks

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory task repository for tests. It mirrors the SQL
// repository's ordering semantics (NULLS FIRST, then scheduled_at, then
// created_at).
type MemoryRepo struct {
	mu    sync.Mutex
	tasks map[string]CallTask
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tasks: map[string]CallTask{}}
}

func (r *MemoryRepo) BulkInsert(ctx context.Context, batch []CallTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range batch {
		r.tasks[t.ID] = t
	}
	return nil
}

func (r *MemoryRepo) NextPending(ctx context.Context, userID string, now time.Time, limit int) ([]CallTask, error) {
	if limit <= 0 {
		limit = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []CallTask
	for _, t := range r.tasks {
		if t.AssignedTo != userID || t.Status != StatusPending {
			continue
		}
		if t.ScheduledAt != nil && t.ScheduledAt.After(now) {
			continue
		}
		due = append(due, t)
	}
	sort.Slice(due, func(i, j int) bool {
		a, b := due[i], due[j]
		switch {
		case a.ScheduledAt == nil && b.ScheduledAt != nil:
			return true
		case a.ScheduledAt != nil && b.ScheduledAt == nil:
			return false
		case a.ScheduledAt != nil && b.ScheduledAt != nil && !a.ScheduledAt.Equal(*b.ScheduledAt):
			return a.ScheduledAt.Before(*b.ScheduledAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (CallTask, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	return t, ok, nil
}

// ApplyOutcome mirrors ApplyOutcomeTx for in-memory tests.
func (r *MemoryRepo) ApplyOutcome(ctx context.Context, u OutcomeUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[u.TaskID]
	if !ok {
		return ErrNotFound
	}
	t.Status = u.Status
	if u.SetScheduledAt {
		t.ScheduledAt = u.ScheduledAt
	}
	t.AttemptCount++
	t.UpdatedAt = u.Now
	r.tasks[u.TaskID] = t
	return nil
}

// All returns a snapshot of every task, for test assertions.
func (r *MemoryRepo) All() []CallTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CallTask, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
