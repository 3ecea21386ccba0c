package calls

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/tasks"
	"github.com/anujdalvisuperk/calling-assistant/internal/whatsapp"

	"github.com/google/uuid"
)

var (
	ErrInvalidOutcome = errors.New("unknown call outcome")
	ErrNotPending     = errors.New("task is not pending")
	ErrNotAssignee    = errors.New("task is assigned to a different caller")
)

// Submission is one caller-reported call attempt against an assigned task.
type Submission struct {
	TaskID   string
	CallerID string

	// SessionOwner identifies the session whose advisory lease should be
	// released after the submission lands.
	SessionOwner string

	Outcome      Outcome
	Result       Result
	Notes        string
	DurationMins int
	CallbackAt   *time.Time
}

// Ack is what the caller's view needs to reset and re-fetch.
type Ack struct {
	TaskStatus      tasks.Status `json:"task_status"`
	WhatsappSent    bool         `json:"whatsapp_sent"`
	WhatsappDetail  string       `json:"whatsapp_detail,omitempty"`
	NextScheduledAt *time.Time   `json:"next_scheduled_at,omitempty"`
}

// Service is the call outcome processor.
type Service struct {
	repo       tasks.Repository
	store      Store
	dispatcher whatsapp.Dispatcher
	lease      tasks.Lease
	clock      func() time.Time
}

func NewService(repo tasks.Repository, store Store, dispatcher whatsapp.Dispatcher, lease tasks.Lease) *Service {
	return &Service{
		repo:       repo,
		store:      store,
		dispatcher: dispatcher,
		lease:      lease,
		clock:      time.Now,
	}
}

// Submit records one call attempt. Effects, in order: dispatch the follow-up
// message if and only if the outcome is connected, then append the log row
// and apply the task transition in one transaction, then release the
// session's advisory lease.
//
// The dispatcher is fired before the transaction, so its boolean result can
// land on the log row. A dispatcher failure never aborts the submission; its
// detail is surfaced in the ack for display.
func (s *Service) Submit(ctx context.Context, sub Submission) (Ack, error) {
	if !IsKnownOutcome(sub.Outcome) {
		return Ack{}, ErrInvalidOutcome
	}
	if sub.Outcome == OutcomeConnected && sub.Result != "" && !IsKnownResult(sub.Result) {
		return Ack{}, ErrInvalidOutcome
	}

	task, found, err := s.repo.FindByID(ctx, sub.TaskID)
	if err != nil {
		return Ack{}, err
	}
	if !found {
		return Ack{}, tasks.ErrNotFound
	}
	if task.Status != tasks.StatusPending {
		return Ack{}, ErrNotPending
	}
	if task.AssignedTo != sub.CallerID {
		return Ack{}, ErrNotAssignee
	}

	now := s.clock().UTC()

	var dispatch whatsapp.Result
	if sub.Outcome == OutcomeConnected {
		dispatch = s.dispatcher.Notify(ctx, task.PhoneNumber)
	}

	update := Transition(task.ID, sub.Outcome, now, sub.CallbackAt)

	log := CallLog{
		ID:               uuid.NewString(),
		TaskID:           task.ID,
		CallerID:         sub.CallerID,
		PhoneNumber:      task.PhoneNumber,
		CallStatus:       sub.Outcome,
		CallDurationMins: sub.DurationMins,
		Comments:         strings.TrimSpace(sub.Notes),
		WhatsappSent:     dispatch.Success,
		CreatedAt:        now,
	}
	if sub.Outcome == OutcomeConnected && sub.Result != "" {
		r := sub.Result
		log.CallOutcome = &r
	}
	if update.SetScheduledAt {
		log.ScheduledCallbackAt = update.ScheduledAt
	}

	if err := s.store.Record(ctx, log, update); err != nil {
		return Ack{}, err
	}

	if sub.SessionOwner != "" {
		// Best-effort: an expired lease is fine, the submission already landed.
		_ = s.lease.Release(ctx, task.ID, sub.SessionOwner)
	}

	ack := Ack{
		TaskStatus:     update.Status,
		WhatsappSent:   dispatch.Success,
		WhatsappDetail: dispatch.Detail,
	}
	if update.SetScheduledAt {
		ack.NextScheduledAt = update.ScheduledAt
	}
	return ack, nil
}

// History returns the append-only log rows for one task, oldest first.
func (s *Service) History(ctx context.Context, taskID string) ([]CallLog, error) {
	return s.store.LogsForTask(ctx, taskID)
}
