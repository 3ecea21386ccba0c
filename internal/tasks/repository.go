package tasks

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/pkg/utils"
)

var ErrNotFound = errors.New("task not found")

// Repository is the persistence contract for call tasks.
//
// NextPending ordering is part of the contract: tasks with no scheduled_at
// sort first (immediately due), then scheduled_at ascending, then created_at
// ascending as a stable tiebreak.
type Repository interface {
	// BulkInsert writes a batch atomically: if the store rejects any row,
	// zero tasks are created.
	BulkInsert(ctx context.Context, batch []CallTask) error

	// NextPending returns up to limit actionable tasks for one caller:
	// status pending and due now or earlier.
	NextPending(ctx context.Context, userID string, now time.Time, limit int) ([]CallTask, error)

	FindByID(ctx context.Context, id string) (CallTask, bool, error)
}

// SQLRepo assumes a `call_tasks` table.
type SQLRepo struct {
	db *sql.DB
}

func NewSQLRepo(db *sql.DB) *SQLRepo { return &SQLRepo{db: db} }

func (r *SQLRepo) BulkInsert(ctx context.Context, batch []CallTask) error {
	if len(batch) == 0 {
		return nil
	}
	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		const q = `
INSERT INTO call_tasks (id, phone_number, name, status, assigned_to, scheduled_at, attempt_count, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
		for _, t := range batch {
			if _, err := tx.ExecContext(ctx, q,
				t.ID,
				t.PhoneNumber,
				t.Name,
				t.Status,
				t.AssignedTo,
				t.ScheduledAt,
				t.AttemptCount,
				t.CreatedAt,
				t.UpdatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLRepo) NextPending(ctx context.Context, userID string, now time.Time, limit int) ([]CallTask, error) {
	if limit <= 0 {
		limit = 1
	}
	const q = `
SELECT id, phone_number, name, status, assigned_to, scheduled_at, attempt_count, created_at, updated_at
FROM call_tasks
WHERE assigned_to = $1
  AND status = $2
  AND (scheduled_at IS NULL OR scheduled_at <= $3)
ORDER BY scheduled_at ASC NULLS FIRST, created_at ASC, id ASC
LIMIT $4
`
	rows, err := r.db.QueryContext(ctx, q, userID, StatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CallTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLRepo) FindByID(ctx context.Context, id string) (CallTask, bool, error) {
	const q = `
SELECT id, phone_number, name, status, assigned_to, scheduled_at, attempt_count, created_at, updated_at
FROM call_tasks
WHERE id = $1
`
	row := r.db.QueryRowContext(ctx, q, id)
	var t CallTask
	var sched sql.NullTime
	err := row.Scan(&t.ID, &t.PhoneNumber, &t.Name, &t.Status, &t.AssignedTo, &sched, &t.AttemptCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallTask{}, false, nil
		}
		return CallTask{}, false, err
	}
	if sched.Valid {
		ts := sched.Time
		t.ScheduledAt = &ts
	}
	return t, true, nil
}

// ApplyOutcomeTx updates a task inside an existing transaction. It is used by
// the outcome processor so the task update and the log append commit together.
func ApplyOutcomeTx(ctx context.Context, tx *sql.Tx, u OutcomeUpdate) error {
	if u.SetScheduledAt {
		const q = `
UPDATE call_tasks
SET status = $1, scheduled_at = $2, attempt_count = attempt_count + 1, updated_at = $3
WHERE id = $4
`
		res, err := tx.ExecContext(ctx, q, u.Status, u.ScheduledAt, u.Now, u.TaskID)
		if err != nil {
			return err
		}
		return requireOneRow(res)
	}
	const q = `
UPDATE call_tasks
SET status = $1, attempt_count = attempt_count + 1, updated_at = $2
WHERE id = $3
`
	res, err := tx.ExecContext(ctx, q, u.Status, u.Now, u.TaskID)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (CallTask, error) {
	var t CallTask
	var sched sql.NullTime
	if err := row.Scan(&t.ID, &t.PhoneNumber, &t.Name, &t.Status, &t.AssignedTo, &sched, &t.AttemptCount, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return CallTask{}, err
	}
	if sched.Valid {
		ts := sched.Time
		t.ScheduledAt = &ts
	}
	return t, nil
}
