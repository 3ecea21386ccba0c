package tasks

import (
	"testing"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/leads"
)

func TestDistribute_RoundRobinCountsDifferByAtMostOne(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	for _, tc := range []struct{ n, k int }{
		{1, 1}, {5, 2}, {7, 3}, {10, 10}, {3, 5}, {100, 7},
	} {
		rows := make([]leads.ContactRow, tc.n)
		for i := range rows {
			rows[i] = leads.ContactRow{PhoneNumber: "+9100000000" + string(rune('0'+i%10))}
		}
		users := make([]string, tc.k)
		for i := range users {
			users[i] = "u" + string(rune('a'+i))
		}

		batch, err := Distribute(rows, users, now)
		if err != nil {
			t.Fatalf("distribute n=%d k=%d: %v", tc.n, tc.k, err)
		}
		if len(batch) != tc.n {
			t.Fatalf("expected %d tasks, got %d", tc.n, len(batch))
		}

		counts := map[string]int{}
		for _, task := range batch {
			counts[task.AssignedTo]++
		}
		lo, hi := tc.n/tc.k, (tc.n+tc.k-1)/tc.k
		for u, c := range counts {
			if c != lo && c != hi {
				t.Fatalf("n=%d k=%d: user %s got %d tasks, want %d or %d", tc.n, tc.k, u, c, lo, hi)
			}
		}
	}
}

func TestDistribute_IsDeterministic(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	rows := []leads.ContactRow{
		{PhoneNumber: "+1", Name: "A"},
		{PhoneNumber: "+2", Name: "B"},
		{PhoneNumber: "+3", Name: "C"},
		{PhoneNumber: "+4", Name: "D"},
		{PhoneNumber: "+5", Name: "E"},
	}
	users := []string{"u1", "u2"}

	first, err := Distribute(rows, users, now)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	second, err := Distribute(rows, users, now)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	for i := range first {
		if first[i].AssignedTo != second[i].AssignedTo {
			t.Fatalf("row %d: owner changed between runs (%s vs %s)", i, first[i].AssignedTo, second[i].AssignedTo)
		}
	}
	// u1, u2, u1, u2, u1
	wantOwners := []string{"u1", "u2", "u1", "u2", "u1"}
	for i, w := range wantOwners {
		if first[i].AssignedTo != w {
			t.Fatalf("row %d: expected %s, got %s", i, w, first[i].AssignedTo)
		}
	}
}

func TestDistribute_DropsRowsWithoutPhone(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	rows := []leads.ContactRow{
		{PhoneNumber: "+1111", Name: "A"},
		{PhoneNumber: "+2222", Name: "B"},
		{PhoneNumber: "+3333", Name: ""},
		{PhoneNumber: "", Name: "D"},
	}

	batch, err := Distribute(rows, []string{"u1", "u2"}, now)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	// Row 3 has an empty name but a phone: kept. Row 4 has no phone: dropped.
	if len(batch) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(batch))
	}

	counts := map[string]int{}
	for _, task := range batch {
		counts[task.AssignedTo]++
	}
	if counts["u1"] != 2 || counts["u2"] != 1 {
		t.Fatalf("expected u1=2 u2=1, got %v", counts)
	}
	if batch[0].AssignedTo != "u1" || batch[1].AssignedTo != "u2" || batch[2].AssignedTo != "u1" {
		t.Fatalf("unexpected owner sequence: %s %s %s", batch[0].AssignedTo, batch[1].AssignedTo, batch[2].AssignedTo)
	}
	if batch[2].PhoneNumber != "+3333" {
		t.Fatalf("expected +3333 third, got %s", batch[2].PhoneNumber)
	}
}

func TestDistribute_EmptySelectionFailsFast(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	for _, n := range []int{0, 1, 50} {
		rows := make([]leads.ContactRow, n)
		for i := range rows {
			rows[i] = leads.ContactRow{PhoneNumber: "+1"}
		}
		if _, err := Distribute(rows, nil, now); err != ErrNoAssignees {
			t.Fatalf("n=%d: expected ErrNoAssignees, got %v", n, err)
		}
	}
}

func TestDistribute_NewTasksAreImmediatelyDue(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	batch, err := Distribute([]leads.ContactRow{{PhoneNumber: "+1"}}, []string{"u1"}, now)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	task := batch[0]
	if task.Status != StatusPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}
	if task.ScheduledAt != nil {
		t.Fatalf("expected nil scheduled_at")
	}
	if task.AttemptCount != 0 {
		t.Fatalf("expected attempt_count 0, got %d", task.AttemptCount)
	}
	if !task.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, task.CreatedAt)
	}
	if task.ID == "" {
		t.Fatalf("expected generated id")
	}
}
