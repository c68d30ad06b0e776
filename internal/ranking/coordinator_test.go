package ranking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kjartanf/syna/internal/api"
)

// fakeReviewAPI records ranking and status calls.
type fakeReviewAPI struct {
	mu          sync.Mutex
	rankings    [][]string
	statuses    []api.ReviewStatus
	rankingsErr error
	statusErr   error
}

func (f *fakeReviewAPI) UpdateRankings(_ context.Context, _ string, projectIDs []string) (*api.ReviewCompetitionDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rankingsErr != nil {
		return nil, f.rankingsErr
	}
	ids := make([]string, len(projectIDs))
	copy(ids, projectIDs)
	f.rankings = append(f.rankings, ids)
	return &api.ReviewCompetitionDetail{}, nil
}

func (f *fakeReviewAPI) UpdateStatus(_ context.Context, _ string, status api.ReviewStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeReviewAPI) savedRankings() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.rankings))
	copy(out, f.rankings)
	return out
}

func intPtr(v int) *int { return &v }

func testDetail(ids ...string) *api.ReviewCompetitionDetail {
	detail := &api.ReviewCompetitionDetail{Status: api.ReviewInProgress}
	for _, id := range ids {
		detail.Projects = append(detail.Projects, api.ReviewProject{ID: id, Title: "Project " + id})
	}
	return detail
}

func projectIDs(projects []api.ReviewProject) []string {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInitialOrderSortsRankedFirst(t *testing.T) {
	t.Parallel()

	detail := &api.ReviewCompetitionDetail{
		Status: api.ReviewInProgress,
		Projects: []api.ReviewProject{
			{ID: "a"},                  // unranked
			{ID: "b", Rank: intPtr(2)}, // ranked second
			{ID: "c"},                  // unranked
			{ID: "d", Rank: intPtr(1)}, // ranked first
		},
	}
	c := NewCoordinator(Options{CompetitionID: "comp", API: &fakeReviewAPI{}}, detail)
	t.Cleanup(c.Close)

	got := projectIDs(c.Projects())
	want := []string{"d", "b", "a", "c"}
	if !equalIDs(got, want) {
		t.Errorf("initial order = %v, want %v", got, want)
	}
}

func TestMoveAppliesImmediatelyAndDebouncesSave(t *testing.T) {
	t.Parallel()

	fake := &fakeReviewAPI{}
	saved := make(chan struct{}, 1)
	c := NewCoordinator(Options{
		CompetitionID:  "comp",
		API:            fake,
		DebounceWindow: 40 * time.Millisecond,
		OnSaved: func() {
			select {
			case saved <- struct{}{}:
			default:
			}
		},
	}, testDetail("a", "b", "c"))
	t.Cleanup(c.Close)

	// Three rapid moves; the local order updates at once every time.
	if !c.Move(2, 0) {
		t.Fatal("Move(2,0) rejected")
	}
	if !c.Move(2, 1) {
		t.Fatal("Move(2,1) rejected")
	}
	if !c.Move(0, 2) {
		t.Fatal("Move(0,2) rejected")
	}
	want := []string{"b", "a", "c"}
	if got := projectIDs(c.Projects()); !equalIDs(got, want) {
		t.Fatalf("local order = %v, want %v", got, want)
	}

	select {
	case <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("no save within the debounce window")
	}

	// The burst collapsed into a single call carrying the final order.
	rankings := fake.savedRankings()
	if len(rankings) != 1 {
		t.Fatalf("UpdateRankings calls = %d, want 1: %v", len(rankings), rankings)
	}
	if !equalIDs(rankings[0], want) {
		t.Errorf("persisted order = %v, want %v", rankings[0], want)
	}
}

func TestMoveRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(Options{CompetitionID: "comp", API: &fakeReviewAPI{}}, testDetail("a", "b"))
	t.Cleanup(c.Close)

	for _, tc := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {1, 1}} {
		if c.Move(tc[0], tc[1]) {
			t.Errorf("Move(%d,%d) accepted, want rejected", tc[0], tc[1])
		}
	}
	if got := projectIDs(c.Projects()); !equalIDs(got, []string{"a", "b"}) {
		t.Errorf("order changed by rejected moves: %v", got)
	}
}

func TestReorderByID(t *testing.T) {
	t.Parallel()

	fake := &fakeReviewAPI{}
	c := NewCoordinator(Options{
		CompetitionID:  "comp",
		API:            fake,
		DebounceWindow: time.Hour, // keep the save out of this test
	}, testDetail("a", "b", "c", "d"))
	t.Cleanup(c.Close)

	// Unknown ids are ignored; missing locals keep their order at the end.
	if !c.Reorder([]string{"c", "ghost", "a"}) {
		t.Fatal("Reorder rejected")
	}
	want := []string{"c", "a", "b", "d"}
	if got := projectIDs(c.Projects()); !equalIDs(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSaveFailureKeepsLocalOrder(t *testing.T) {
	t.Parallel()

	fake := &fakeReviewAPI{rankingsErr: errors.New("server unavailable")}
	failed := make(chan error, 1)
	c := NewCoordinator(Options{
		CompetitionID:  "comp",
		API:            fake,
		DebounceWindow: 20 * time.Millisecond,
		OnSaveError: func(err error) {
			select {
			case failed <- err:
			default:
			}
		},
	}, testDetail("a", "b"))
	t.Cleanup(c.Close)

	c.Move(1, 0)
	select {
	case err := <-failed:
		if err == nil {
			t.Fatal("OnSaveError got nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnSaveError not called")
	}

	// The optimistic order survives the failed save.
	if got := projectIDs(c.Projects()); !equalIDs(got, []string{"b", "a"}) {
		t.Errorf("order = %v, want [b a]", got)
	}
	if c.Completed() {
		t.Error("review unexpectedly completed")
	}
}

func TestFinishReviewFlushesPendingSave(t *testing.T) {
	t.Parallel()

	fake := &fakeReviewAPI{}
	c := NewCoordinator(Options{
		CompetitionID:  "comp",
		API:            fake,
		DebounceWindow: time.Hour,
	}, testDetail("a", "b"))
	t.Cleanup(c.Close)

	c.Move(1, 0)
	if err := c.FinishReview(context.Background()); err != nil {
		t.Fatalf("FinishReview: %v", err)
	}

	// The pending order was flushed before the status transition.
	rankings := fake.savedRankings()
	if len(rankings) != 1 || !equalIDs(rankings[0], []string{"b", "a"}) {
		t.Fatalf("persisted rankings = %v, want [[b a]]", rankings)
	}
	if len(fake.statuses) != 1 || fake.statuses[0] != api.ReviewCompleted {
		t.Fatalf("statuses = %v, want [completed]", fake.statuses)
	}
	if !c.Completed() {
		t.Error("Completed = false after FinishReview")
	}
}

func TestCompletedReviewIsImmutable(t *testing.T) {
	t.Parallel()

	fake := &fakeReviewAPI{}
	c := NewCoordinator(Options{
		CompetitionID:  "comp",
		API:            fake,
		DebounceWindow: 20 * time.Millisecond,
	}, testDetail("a", "b"))
	t.Cleanup(c.Close)

	if err := c.FinishReview(context.Background()); err != nil {
		t.Fatalf("FinishReview: %v", err)
	}
	if c.Move(0, 1) {
		t.Error("Move accepted on a completed review")
	}
	if c.Reorder([]string{"b", "a"}) {
		t.Error("Reorder accepted on a completed review")
	}

	time.Sleep(80 * time.Millisecond)
	if got := fake.savedRankings(); len(got) != 0 {
		t.Errorf("rankings persisted after completion: %v", got)
	}
	if got := projectIDs(c.Projects()); !equalIDs(got, []string{"a", "b"}) {
		t.Errorf("order = %v, want unchanged [a b]", got)
	}
}

func TestFinishReviewFailureStaysInProgress(t *testing.T) {
	t.Parallel()

	fake := &fakeReviewAPI{statusErr: errors.New("deadline passed")}
	c := NewCoordinator(Options{CompetitionID: "comp", API: fake}, testDetail("a"))
	t.Cleanup(c.Close)

	if err := c.FinishReview(context.Background()); err == nil {
		t.Fatal("FinishReview succeeded, want error")
	}
	if c.Completed() {
		t.Error("Completed = true after failed FinishReview")
	}
	// Still mutable; the transition may be retried later.
	if got := c.Status(); got != api.ReviewInProgress {
		t.Errorf("status = %q, want in_progress", got)
	}
}
