package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjartanf/syna/internal/api"
	"github.com/kjartanf/syna/internal/ranking"
)

// rankingState holds the ranking screen for one competition review.
type rankingState struct {
	competitionID string
	title         string
	coord         *ranking.Coordinator
	cursor        int
	loading       bool
	finishing     bool
}

// rankingLoadedMsg carries the initial review detail.
type rankingLoadedMsg struct {
	detail *api.ReviewCompetitionDetail
	err    error
}

// rankingSavedMsg reports a background persistence result.
type rankingSavedMsg struct {
	err error
}

// reviewFinishedMsg reports the outcome of finishing the review.
type reviewFinishedMsg struct {
	err error
}

func (m Model) openRanking(competitionID string) (tea.Model, tea.Cmd) {
	m.closeCoordinators()
	m.view = ViewRanking
	m.ranking = rankingState{competitionID: competitionID, loading: true}
	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		detail, err := client.Reviews.Competition(ctx, competitionID)
		return rankingLoadedMsg{detail: detail, err: err}
	}
}

// newRankingCoordinator wires the coordinator's callbacks into the TUI loop.
func (m Model) newRankingCoordinator(competitionID string, detail *api.ReviewCompetitionDetail) *ranking.Coordinator {
	return ranking.NewCoordinator(ranking.Options{
		CompetitionID: competitionID,
		API:           m.client.Reviews,
		OnSaveError: func(err error) {
			m.pushEvent(rankingSavedMsg{err: err})
		},
		OnSaved: func() {
			m.pushEvent(rankingSavedMsg{})
		},
		OnChange: m.pushNotify,
	}, detail)
}

func (m Model) updateRanking(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rankingLoadedMsg:
		m.ranking.loading = false
		if msg.err != nil {
			return m, errStatus(msg.err)
		}
		m.ranking.title = msg.detail.Competition.Title
		m.ranking.coord = m.newRankingCoordinator(m.ranking.competitionID, msg.detail)
		return m, nil

	case rankingSavedMsg:
		if msg.err != nil {
			// The local order stays; only the save failed.
			return m, errStatus(fmt.Errorf("saving rankings: %w", msg.err))
		}
		return m, infoStatus("rankings saved")

	case reviewFinishedMsg:
		m.ranking.finishing = false
		if msg.err != nil {
			return m, errStatus(fmt.Errorf("finishing review: %w", msg.err))
		}
		return m, infoStatus("review completed")

	case tea.KeyMsg:
		if next, cmd, ok := m.handleGlobalNav(msg); ok {
			return next, cmd
		}
		return m.updateRankingKeys(msg)
	}
	return m, nil
}

func (m Model) updateRankingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	coord := m.ranking.coord
	var count int
	if coord != nil {
		count = len(coord.Projects())
	}
	switch {
	case keyMatches(msg, m.keys.Back):
		m.closeCoordinators()
		m.view = ViewReviews
		return m, m.loadReviews()

	case keyMatches(msg, m.keys.Up):
		m.ranking.cursor = clamp(m.ranking.cursor-1, 0, max(0, count-1))
	case keyMatches(msg, m.keys.Down):
		m.ranking.cursor = clamp(m.ranking.cursor+1, 0, max(0, count-1))

	case keyMatches(msg, m.keys.MoveUp):
		if coord != nil && coord.Move(m.ranking.cursor, m.ranking.cursor-1) {
			m.ranking.cursor--
		}
	case keyMatches(msg, m.keys.MoveDown):
		if coord != nil && coord.Move(m.ranking.cursor, m.ranking.cursor+1) {
			m.ranking.cursor++
		}

	case keyMatches(msg, m.keys.FinishReview):
		if coord == nil || coord.Completed() || m.ranking.finishing {
			return m, nil
		}
		m.ranking.finishing = true
		ctx := m.ctx
		return m, func() tea.Msg {
			return reviewFinishedMsg{err: coord.FinishReview(ctx)}
		}

	case keyMatches(msg, m.keys.Refresh):
		return m.openRanking(m.ranking.competitionID)
	}
	return m, nil
}

func (m Model) viewRanking() string {
	var b strings.Builder
	if m.ranking.loading || m.ranking.coord == nil {
		b.WriteString(m.theme.Subtle.Render("loading…"))
		return b.String()
	}
	coord := m.ranking.coord

	title := m.theme.InputLabel.Render("Ranking: " + m.ranking.title)
	switch {
	case coord.Completed():
		title += "  " + m.theme.Success.Render("completed")
	case m.ranking.finishing:
		title += "  " + m.theme.Subtle.Render("finishing…")
	case coord.Saving():
		title += "  " + m.theme.Subtle.Render("saving…")
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	projects := coord.Projects()
	if len(projects) == 0 {
		b.WriteString(m.theme.Subtle.Render("no projects to rank"))
		b.WriteString("\n")
	}
	for i, p := range projects {
		rank := m.theme.Rank.Render(fmt.Sprintf("%2d.", i+1))
		line := fmt.Sprintf("%s %s", rank, truncate(p.Title, 48))
		if i == m.ranking.cursor {
			line = m.theme.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if coord.Completed() {
		b.WriteString(m.theme.Help.Render("review completed, ranking is read-only · esc back"))
	} else {
		b.WriteString(m.theme.Help.Render("J/K move project · f finish review · esc back"))
	}
	return b.String()
}
