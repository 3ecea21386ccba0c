package calls

import (
	"context"
	"database/sql"
	"sync"

	"github.com/anujdalvisuperk/calling-assistant/internal/tasks"
	"github.com/anujdalvisuperk/calling-assistant/pkg/utils"
)

// Store commits one outcome submission: the log append and the task update
// land together or not at all. A crash mid-submission must never leave a log
// row without its task update, or the reverse.
type Store interface {
	Record(ctx context.Context, log CallLog, update tasks.OutcomeUpdate) error

	// LogsForTask returns the append-only history for one task, oldest first.
	LogsForTask(ctx context.Context, taskID string) ([]CallLog, error)
}

// SQLStore assumes `call_logs` alongside the `call_tasks` table.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Record(ctx context.Context, log CallLog, update tasks.OutcomeUpdate) error {
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		const q = `
INSERT INTO call_logs (id, task_id, caller_id, phone_number, call_status, call_outcome, call_duration_mins, comments, scheduled_callback_at, whatsapp_sent, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`
		var outcome *string
		if log.CallOutcome != nil {
			v := string(*log.CallOutcome)
			outcome = &v
		}
		if _, err := tx.ExecContext(ctx, q,
			log.ID,
			log.TaskID,
			log.CallerID,
			log.PhoneNumber,
			log.CallStatus,
			outcome,
			log.CallDurationMins,
			log.Comments,
			log.ScheduledCallbackAt,
			log.WhatsappSent,
			log.CreatedAt,
		); err != nil {
			return err
		}
		return tasks.ApplyOutcomeTx(ctx, tx, update)
	})
}

func (s *SQLStore) LogsForTask(ctx context.Context, taskID string) ([]CallLog, error) {
	const q = `
SELECT id, task_id, caller_id, phone_number, call_status, call_outcome, call_duration_mins, comments, scheduled_callback_at, whatsapp_sent, created_at
FROM call_logs
WHERE task_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := s.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CallLog
	for rows.Next() {
		var l CallLog
		var outcome sql.NullString
		var callback sql.NullTime
		if err := rows.Scan(
			&l.ID,
			&l.TaskID,
			&l.CallerID,
			&l.PhoneNumber,
			&l.CallStatus,
			&outcome,
			&l.CallDurationMins,
			&l.Comments,
			&callback,
			&l.WhatsappSent,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		if outcome.Valid {
			r := Result(outcome.String)
			l.CallOutcome = &r
		}
		if callback.Valid {
			ts := callback.Time
			l.ScheduledCallbackAt = &ts
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// MemoryStore pairs an in-memory task repo with an in-memory log for tests.
type MemoryStore struct {
	Tasks *tasks.MemoryRepo

	mu   sync.Mutex
	logs []CallLog
}

func NewMemoryStore(repo *tasks.MemoryRepo) *MemoryStore {
	return &MemoryStore{Tasks: repo}
}

func (s *MemoryStore) Record(ctx context.Context, log CallLog, update tasks.OutcomeUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Tasks.ApplyOutcome(ctx, update); err != nil {
		return err
	}
	s.logs = append(s.logs, log)
	return nil
}

func (s *MemoryStore) LogsForTask(ctx context.Context, taskID string) ([]CallLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []CallLog
	for _, l := range s.logs {
		if l.TaskID == taskID {
			out = append(out, l)
		}
	}
	return out, nil
}

// Logs returns a snapshot of every recorded log row.
func (s *MemoryStore) Logs() []CallLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CallLog, len(s.logs))
	copy(out, s.logs)
	return out
}
