package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/leads"
	"github.com/anujdalvisuperk/calling-assistant/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// Lease is an advisory claim on a task, scoped to one session. It keeps two
// concurrent sessions with the same user identity from both being handed the
// same task. It is not a correctness guarantee against store-level races;
// leases expire on their own if a session dies.
type Lease interface {
	Acquire(ctx context.Context, taskID, owner string) (bool, error)
	Release(ctx context.Context, taskID, owner string) error
}

const leaseKeyPrefix = "task_lease:"

// RedisLease implements Lease on the shared Redis instance.
type RedisLease struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLease(rdb *redis.Client, ttl time.Duration) *RedisLease {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLease{rdb: rdb, ttl: ttl}
}

func (l *RedisLease) Acquire(ctx context.Context, taskID, owner string) (bool, error) {
	return utils.AcquireLease(ctx, l.rdb, leaseKeyPrefix+taskID, owner, l.ttl)
}

func (l *RedisLease) Release(ctx context.Context, taskID, owner string) error {
	return utils.ReleaseLease(ctx, l.rdb, leaseKeyPrefix+taskID, owner)
}

// MemoryLease is an in-process Lease for tests.
type MemoryLease struct {
	mu     sync.Mutex
	owners map[string]string
}

func NewMemoryLease() *MemoryLease {
	return &MemoryLease{owners: map[string]string{}}
}

func (l *MemoryLease) Acquire(ctx context.Context, taskID, owner string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.owners[taskID]
	if ok && cur != owner {
		return false, nil
	}
	l.owners[taskID] = owner
	return true, nil
}

func (l *MemoryLease) Release(ctx context.Context, taskID, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owners[taskID] == owner {
		delete(l.owners, taskID)
	}
	return nil
}

// Service owns task distribution and next-task selection.
type Service struct {
	repo  Repository
	lease Lease
	clock func() time.Time
}

// candidateBatch bounds how many due tasks one NextTask call will attempt to
// lease before giving up. A second session rarely holds more than one lease,
// so a small batch is enough.
const candidateBatch = 10

func NewService(repo Repository, lease Lease) *Service {
	return &Service{repo: repo, lease: lease, clock: time.Now}
}

type ImportSummary struct {
	TasksCreated int `json:"tasks_created"`
	RowsDropped  int `json:"rows_dropped"`
	Assignees    int `json:"assignees"`
}

// Import distributes parsed contact rows across the selected assignees and
// bulk-inserts the resulting tasks. The insert is all-or-nothing: a store
// rejection creates zero tasks.
func (s *Service) Import(ctx context.Context, parsed leads.ParseResult, assigneeIDs []string) (ImportSummary, error) {
	batch, err := Distribute(parsed.Rows, assigneeIDs, s.clock().UTC())
	if err != nil {
		return ImportSummary{}, err
	}
	if err := s.repo.BulkInsert(ctx, batch); err != nil {
		return ImportSummary{}, err
	}
	return ImportSummary{
		TasksCreated: len(batch),
		RowsDropped:  parsed.Dropped,
		Assignees:    len(assigneeIDs),
	}, nil
}

// NextTask returns the caller's oldest actionable task, or ok=false when the
// queue is drained.
//
// sessionOwner scopes the advisory lease: tasks already leased by a different
// session are skipped, and re-fetching from the same session refreshes the
// lease instead of blocking. The read itself is idempotent and lock-free at
// the store level.
func (s *Service) NextTask(ctx context.Context, userID, sessionOwner string) (CallTask, bool, error) {
	now := s.clock().UTC()
	candidates, err := s.repo.NextPending(ctx, userID, now, candidateBatch)
	if err != nil {
		return CallTask{}, false, err
	}
	for _, t := range candidates {
		ok, err := s.lease.Acquire(ctx, t.ID, sessionOwner)
		if err != nil {
			return CallTask{}, false, err
		}
		if ok {
			return t, true, nil
		}
	}
	return CallTask{}, false, nil
}

// ReleaseTask releases this session's lease after an outcome submission.
// Best-effort: an expired or foreign lease is not an error.
func (s *Service) ReleaseTask(ctx context.Context, taskID, sessionOwner string) error {
	return s.lease.Release(ctx, taskID, sessionOwner)
}
