package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjartanf/syna/internal/api"
)

// reviewsState holds the reviewer's competition listing.
type reviewsState struct {
	competitions []api.ReviewCompetition
	cursor       int
	loading      bool
}

// reviewsMsg carries the assigned-competitions listing.
type reviewsMsg struct {
	competitions []api.ReviewCompetition
	err          error
}

func (m Model) loadReviews() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		list, err := client.Reviews.Competitions(ctx)
		if err != nil {
			return reviewsMsg{err: err}
		}
		return reviewsMsg{competitions: list.Competitions}
	}
}

func (m Model) updateReviews(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewsMsg:
		m.reviews.loading = false
		if msg.err != nil {
			return m, errStatus(msg.err)
		}
		m.reviews.competitions = msg.competitions
		m.reviews.cursor = clamp(m.reviews.cursor, 0, max(0, len(msg.competitions)-1))
		return m, nil

	case tea.KeyMsg:
		if next, cmd, ok := m.handleGlobalNav(msg); ok {
			return next, cmd
		}
		switch {
		case keyMatches(msg, m.keys.Up):
			m.reviews.cursor = clamp(m.reviews.cursor-1, 0, max(0, len(m.reviews.competitions)-1))
		case keyMatches(msg, m.keys.Down):
			m.reviews.cursor = clamp(m.reviews.cursor+1, 0, max(0, len(m.reviews.competitions)-1))
		case keyMatches(msg, m.keys.Refresh):
			m.reviews.loading = true
			return m, m.loadReviews()
		case keyMatches(msg, m.keys.Confirm):
			if len(m.reviews.competitions) == 0 {
				return m, nil
			}
			selected := m.reviews.competitions[m.reviews.cursor]
			return m.openRanking(selected.ID)
		}
	}
	return m, nil
}

func (m Model) viewReviews() string {
	var b strings.Builder
	b.WriteString(m.theme.InputLabel.Render("Reviews"))
	b.WriteString("\n\n")

	switch {
	case m.reviews.loading:
		b.WriteString(m.theme.Subtle.Render("loading…"))
	case len(m.reviews.competitions) == 0:
		b.WriteString(m.theme.Subtle.Render("no competitions assigned"))
	default:
		for i, c := range m.reviews.competitions {
			status := m.theme.Subtle.Render(string(c.Status))
			if c.Status == api.ReviewCompleted {
				status = m.theme.Success.Render(string(c.Status))
			}
			line := fmt.Sprintf("%s  %s  %s",
				truncate(c.Title, 36),
				m.theme.Subtle.Render(fmt.Sprintf("%d projects", c.ProjectCount)),
				status)
			if i == m.reviews.cursor {
				line = m.theme.Selected.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("enter open · j/k move · r refresh"))
	return b.String()
}
