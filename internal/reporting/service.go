package reporting

import (
	"context"
	"errors"
	"sort"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts the aggregate reads. Implementations should push the
// grouping into the store rather than loading whole tables.
type Repository interface {
	TaskCounts(ctx context.Context) (TasksSummary, error)
	TaskCountsByAssignee(ctx context.Context) ([]AgentSummary, error)
	CallActivity(ctx context.Context, rng TimeRange) (CallActivitySummary, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// Summary is the admin dashboard payload: queue totals plus a per-caller
// breakdown sorted by pending work, busiest first.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	if s.repo == nil {
		return Summary{}, errors.New("reporting: repository not configured")
	}

	totals, err := s.repo.TaskCounts(ctx)
	if err != nil {
		return Summary{}, err
	}
	agents, err := s.repo.TaskCountsByAssignee(ctx)
	if err != nil {
		return Summary{}, err
	}

	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Pending != agents[j].Pending {
			return agents[i].Pending > agents[j].Pending
		}
		return agents[i].UserID < agents[j].UserID
	})

	return Summary{Tasks: totals, Agents: agents}, nil
}

func (s *Service) CallActivity(ctx context.Context, rng TimeRange) (CallActivitySummary, error) {
	if rng.From.IsZero() || rng.To.IsZero() || !rng.To.After(rng.From) {
		return CallActivitySummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return CallActivitySummary{}, errors.New("reporting: repository not configured")
	}
	return s.repo.CallActivity(ctx, rng)
}
