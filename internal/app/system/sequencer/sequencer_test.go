package sequencer_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/thinkedge/internal/app/system/sequencer"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/dalemusser/thinkedge/internal/testutil"
)

func makeItems(n int) []models.Content {
	items := make([]models.Content, n)
	for i := range items {
		items[i] = models.Content{ID: fmt.Sprintf("c%d", i), Priority: i + 1}
	}
	return items
}

func TestStates_Partition(t *testing.T) {
	for n := 0; n <= 4; n++ {
		for k := 0; k <= n; k++ {
			t.Run(fmt.Sprintf("n=%d/k=%d", n, k), func(t *testing.T) {
				got := sequencer.States(makeItems(n), k)
				active := 0
				for i, it := range got {
					var want sequencer.State
					switch {
					case i < k:
						want = sequencer.Completed
					case i == k:
						want = sequencer.Active
						active++
					default:
						want = sequencer.Locked
					}
					if it.State != want {
						t.Errorf("item %d: got %s, want %s", i, it.State, want)
					}
				}
				if k < n && active != 1 {
					t.Errorf("expected exactly one active item, got %d", active)
				}
				if k == n && active != 0 {
					t.Errorf("expected no active item when all done, got %d", active)
				}
			})
		}
	}
}

func TestStates_ClampsProgress(t *testing.T) {
	items := makeItems(2)
	for _, it := range sequencer.States(items, 7) {
		if it.State != sequencer.Completed {
			t.Errorf("progress past the end should complete everything, got %s", it.State)
		}
	}
	got := sequencer.States(items, -3)
	if got[0].State != sequencer.Active || got[1].State != sequencer.Locked {
		t.Errorf("negative progress should clamp to 0, got %+v", got)
	}
}

func TestSort_StableByPriority(t *testing.T) {
	items := []models.Content{
		{ID: "b", Priority: 2},
		{ID: "a1", Priority: 1},
		{ID: "c", Priority: 3},
		{ID: "a2", Priority: 1},
	}
	sequencer.Sort(items)
	want := []string{"a1", "a2", "b", "c"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("order: got %v", items)
		}
	}
}

func TestCertificateReady(t *testing.T) {
	tests := []struct {
		progress, total int
		want            bool
	}{
		{0, 0, false},
		{0, 2, false},
		{1, 2, false},
		{2, 2, true},
		{3, 2, true},
	}
	for _, tt := range tests {
		if got := sequencer.CertificateReady(tt.progress, tt.total); got != tt.want {
			t.Errorf("CertificateReady(%d, %d) = %v, want %v", tt.progress, tt.total, got, tt.want)
		}
	}
}

func TestComplete(t *testing.T) {
	rs := testutil.NewStore(t)
	f := testutil.NewFixtures(t, rs)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Inserted out of priority order on purpose.
	second := f.CreateContent(ctx, "1", "10th A", "second", 2)
	first := f.CreateContent(ctx, "1", "10th A", "first", 1)
	f.CreateContent(ctx, "1", "9th A", "other class", 1)
	student := f.CreateStudent(ctx, "S", "s@x.com", "1", "10th A", 0)

	// Locked item cannot be completed.
	if _, err := sequencer.Complete(ctx, rs, student.ID, second.ID); !errors.Is(err, sequencer.ErrNotActive) {
		t.Fatalf("completing locked item: got %v, want ErrNotActive", err)
	}

	u, err := sequencer.Complete(ctx, rs, student.ID, first.ID)
	if err != nil {
		t.Fatalf("Complete first: %v", err)
	}
	if u.ProgressCount != 1 {
		t.Errorf("progress after first: %d", u.ProgressCount)
	}

	// Completed item cannot be completed again.
	if _, err := sequencer.Complete(ctx, rs, student.ID, first.ID); !errors.Is(err, sequencer.ErrNotActive) {
		t.Errorf("re-completing: got %v, want ErrNotActive", err)
	}

	u, err = sequencer.Complete(ctx, rs, student.ID, second.ID)
	if err != nil {
		t.Fatalf("Complete second: %v", err)
	}
	if u.ProgressCount != 2 {
		t.Errorf("progress after second: %d", u.ProgressCount)
	}

	stored, _ := rs.Users().Find(ctx, student.ID)
	if stored.ProgressCount != 2 {
		t.Errorf("persisted progress: %d", stored.ProgressCount)
	}

	items, _ := sequencer.ForUser(ctx, rs, stored)
	if len(items) != 2 {
		t.Fatalf("expected only this class's items, got %d", len(items))
	}
	if !sequencer.CertificateReady(stored.ProgressCount, len(items)) {
		t.Error("expected certificate to be ready")
	}

	// Nothing left to complete.
	if _, err := sequencer.Complete(ctx, rs, student.ID, second.ID); !errors.Is(err, sequencer.ErrNotActive) {
		t.Errorf("completing past the end: got %v", err)
	}
}

func TestComplete_RejectsNonStudent(t *testing.T) {
	rs := testutil.NewStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Seeded user 2 is a teacher.
	if _, err := sequencer.Complete(ctx, rs, "2", "c1"); !errors.Is(err, sequencer.ErrNotStudent) {
		t.Errorf("got %v, want ErrNotStudent", err)
	}
}
