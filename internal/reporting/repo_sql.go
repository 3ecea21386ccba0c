package reporting

import (
	"context"
	"database/sql"

	"github.com/anujdalvisuperk/calling-assistant/internal/tasks"
)

// SQLRepo aggregates over the `call_tasks`, `call_logs` and `profiles` tables.
type SQLRepo struct {
	db *sql.DB
}

func NewSQLRepo(db *sql.DB) *SQLRepo { return &SQLRepo{db: db} }

func (r *SQLRepo) TaskCounts(ctx context.Context) (TasksSummary, error) {
	const q = `
SELECT
  COUNT(*) FILTER (WHERE status = $1),
  COUNT(*) FILTER (WHERE status = $2),
  COUNT(*)
FROM call_tasks
`
	var out TasksSummary
	row := r.db.QueryRowContext(ctx, q, tasks.StatusPending, tasks.StatusCompleted)
	if err := row.Scan(&out.Pending, &out.Completed, &out.Total); err != nil {
		return TasksSummary{}, err
	}
	return out, nil
}

func (r *SQLRepo) TaskCountsByAssignee(ctx context.Context) ([]AgentSummary, error) {
	const q = `
SELECT
  t.assigned_to,
  COALESCE(p.email, ''),
  COUNT(*) FILTER (WHERE t.status = $1),
  COUNT(*) FILTER (WHERE t.status = $2),
  COALESCE(SUM(t.attempt_count), 0)
FROM call_tasks t
LEFT JOIN profiles p ON p.id = t.assigned_to
GROUP BY t.assigned_to, p.email
`
	rows, err := r.db.QueryContext(ctx, q, tasks.StatusPending, tasks.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AgentSummary
	for rows.Next() {
		var a AgentSummary
		if err := rows.Scan(&a.UserID, &a.Email, &a.Pending, &a.Completed, &a.Attempts); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLRepo) CallActivity(ctx context.Context, rng TimeRange) (CallActivitySummary, error) {
	const q = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE call_status = 'connected'),
  COUNT(*) FILTER (WHERE call_status = 'busy'),
  COUNT(*) FILTER (WHERE call_status = 'not_picking'),
  COUNT(*) FILTER (WHERE call_status = 'scheduled_callback'),
  COUNT(*) FILTER (WHERE call_status = 'wrong_number'),
  COUNT(*) FILTER (WHERE whatsapp_sent),
  COALESCE(SUM(call_duration_mins), 0)
FROM call_logs
WHERE created_at >= $1 AND created_at < $2
`
	out := CallActivitySummary{Range: rng}
	row := r.db.QueryRowContext(ctx, q, rng.From, rng.To)
	if err := row.Scan(
		&out.TotalCalls,
		&out.ConnectedCalls,
		&out.BusyCalls,
		&out.NotPickingCalls,
		&out.CallbackCalls,
		&out.WrongNumberCalls,
		&out.WhatsappSent,
		&out.TotalDurationMins,
	); err != nil {
		return CallActivitySummary{}, err
	}
	if out.TotalCalls > 0 {
		out.AverageDurationMins = out.TotalDurationMins / out.TotalCalls
	}
	return out, nil
}
