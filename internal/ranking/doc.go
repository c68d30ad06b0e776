// Package ranking manages one reviewer's preference order for one
// competition: optimistic local reordering, debounced persistence of the
// final order, and the review-completion transition. A save failure keeps
// the user's intended order on screen; the list never snaps back to a
// possibly-stale server order mid-review.
package ranking
