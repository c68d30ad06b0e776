// Package ui provides the Bubble Tea terminal interface for syna.
//
// The root Model owns the active view and the session. Views:
//
//   - Login / Register: credential forms (textinput fields)
//   - Verify: email verification code entry for unverified accounts
//   - My Projects: the user's own submissions
//   - Project: one project's detail with multi-file image upload and
//     per-file progress bars
//   - Browse: the public project catalogue with search
//   - Reviews: competitions assigned to the reviewer
//   - Ranking: drag-style reordering (J/K move) with debounced saves and
//     the finish-review transition
//
// All network work runs as tea.Cmd goroutines producing typed messages.
// The upload and ranking coordinators publish change notifications on a
// channel the root model drains, so background progress repaints the screen
// without the coordinators knowing about Bubble Tea.
package ui
