package ranking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kjartanf/syna/internal/api"
)

const defaultDebounceWindow = 500 * time.Millisecond

// ReviewAPI is the slice of the API client the coordinator needs.
// Implemented by *api.ReviewsClient; narrowed for testing.
type ReviewAPI interface {
	UpdateRankings(ctx context.Context, competitionID string, projectIDs []string) (*api.ReviewCompetitionDetail, error)
	UpdateStatus(ctx context.Context, competitionID string, status api.ReviewStatus) error
}

var _ ReviewAPI = (*api.ReviewsClient)(nil)

// Options configure a Coordinator.
type Options struct {
	CompetitionID string
	API           ReviewAPI

	// DebounceWindow collapses rapid reorders into one persistence call.
	// Zero uses the default of 500ms.
	DebounceWindow time.Duration

	// OnSaveError receives persistence failures. The local order is kept.
	OnSaveError func(error)
	// OnSaved fires after a successful persistence call.
	OnSaved func()
	// OnChange fires after any local state mutation so a UI can re-render.
	OnChange func()
}

// Coordinator owns the ranking list for one competition-review screen.
type Coordinator struct {
	competitionID string
	api           ReviewAPI
	debounce      *Debouncer
	onSaveError   func(error)
	onSaved       func()
	onChange      func()

	mu       sync.Mutex
	projects []api.ReviewProject
	status   api.ReviewStatus
	saving   bool
}

// NewCoordinator builds a Coordinator and loads the initial review state.
// Entries with a saved personal rank sort by rank ascending; unranked entries
// follow in the order the API returned them.
func NewCoordinator(opts Options, detail *api.ReviewCompetitionDetail) *Coordinator {
	window := opts.DebounceWindow
	if window <= 0 {
		window = defaultDebounceWindow
	}
	c := &Coordinator{
		competitionID: opts.CompetitionID,
		api:           opts.API,
		debounce:      NewDebouncer(window),
		onSaveError:   opts.OnSaveError,
		onSaved:       opts.OnSaved,
		onChange:      opts.OnChange,
		status:        api.ReviewInProgress,
	}
	if detail != nil {
		c.projects = sortInitial(detail.Projects)
		if detail.Status != "" {
			c.status = detail.Status
		}
	}
	return c
}

// sortInitial orders ranked entries by rank ascending and keeps unranked
// entries after them, stable in API order.
func sortInitial(projects []api.ReviewProject) []api.ReviewProject {
	sorted := make([]api.ReviewProject, len(projects))
	copy(sorted, projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Rank, sorted[j].Rank
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})
	return sorted
}

// Projects returns a snapshot of the current order, best first.
func (c *Coordinator) Projects() []api.ReviewProject {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]api.ReviewProject, len(c.projects))
	copy(snapshot, c.projects)
	return snapshot
}

// Status returns the current review status.
func (c *Coordinator) Status() api.ReviewStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Completed reports whether the review has been finished.
func (c *Coordinator) Completed() bool {
	return c.Status() == api.ReviewCompleted
}

// Saving reports whether a persistence call is in flight.
func (c *Coordinator) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// Move shifts the entry at index from to index to, applies the new order
// locally at once, and schedules a debounced save. It is a no-op once the
// review is completed or when the indices are out of range.
func (c *Coordinator) Move(from, to int) bool {
	c.mu.Lock()
	if c.status == api.ReviewCompleted ||
		from < 0 || from >= len(c.projects) ||
		to < 0 || to >= len(c.projects) || from == to {
		c.mu.Unlock()
		return false
	}
	entry := c.projects[from]
	c.projects = append(c.projects[:from], c.projects[from+1:]...)
	c.projects = append(c.projects[:to], append([]api.ReviewProject{entry}, c.projects[to:]...)...)
	c.mu.Unlock()

	c.notifyChange()
	c.armSave()
	return true
}

// Reorder replaces the whole order (by project id) optimistically and
// schedules a debounced save. Ids not present locally are ignored; local
// entries missing from newOrder keep their relative order at the end.
// No-op once the review is completed.
func (c *Coordinator) Reorder(newOrder []string) bool {
	c.mu.Lock()
	if c.status == api.ReviewCompleted {
		c.mu.Unlock()
		return false
	}
	byID := make(map[string]api.ReviewProject, len(c.projects))
	for _, p := range c.projects {
		byID[p.ID] = p
	}
	reordered := make([]api.ReviewProject, 0, len(c.projects))
	seen := make(map[string]bool, len(newOrder))
	for _, id := range newOrder {
		if p, ok := byID[id]; ok && !seen[id] {
			reordered = append(reordered, p)
			seen[id] = true
		}
	}
	for _, p := range c.projects {
		if !seen[p.ID] {
			reordered = append(reordered, p)
		}
	}
	c.projects = reordered
	c.mu.Unlock()

	c.notifyChange()
	c.armSave()
	return true
}

// FinishReview flushes any pending save, then transitions the review to
// completed. On failure the status stays in_progress and the operation may
// be retried.
func (c *Coordinator) FinishReview(ctx context.Context) error {
	c.debounce.Flush()

	if err := c.api.UpdateStatus(ctx, c.competitionID, api.ReviewCompleted); err != nil {
		return err
	}
	c.mu.Lock()
	c.status = api.ReviewCompleted
	c.mu.Unlock()
	// Nothing further may be persisted for a completed review.
	c.debounce.Cancel()
	c.notifyChange()
	return nil
}

// Close cancels any pending debounced save without running it.
func (c *Coordinator) Close() {
	c.debounce.Cancel()
}

// armSave (re)starts the debounce window; only the order current when the
// window settles is ever sent.
func (c *Coordinator) armSave() {
	c.debounce.Arm(c.persist)
}

func (c *Coordinator) persist() {
	c.mu.Lock()
	if c.status == api.ReviewCompleted {
		c.mu.Unlock()
		return
	}
	ids := make([]string, len(c.projects))
	for i, p := range c.projects {
		ids[i] = p.ID
	}
	c.saving = true
	c.mu.Unlock()
	c.notifyChange()

	_, err := c.api.UpdateRankings(context.Background(), c.competitionID, ids)

	c.mu.Lock()
	c.saving = false
	c.mu.Unlock()
	c.notifyChange()

	if err != nil {
		// Deliberate: the local order is not rolled back. Reverting a drag
		// the user just made is more jarring than a stale server copy.
		if c.onSaveError != nil {
			c.onSaveError(err)
		}
		return
	}
	if c.onSaved != nil {
		c.onSaved()
	}
}

func (c *Coordinator) notifyChange() {
	if c.onChange != nil {
		c.onChange()
	}
}
