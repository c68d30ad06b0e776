package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjartanf/syna/internal/api"
	"github.com/kjartanf/syna/internal/browser"
)

// browseState holds the public project catalogue view.
type browseState struct {
	list         *api.ProjectList
	highlight    *api.ActiveOrRecent
	cursor       int
	loading      bool
	search       textinput.Model
	searchActive bool
}

func newBrowseState() browseState {
	search := textinput.New()
	search.Placeholder = "search projects"
	search.CharLimit = 120
	return browseState{search: search}
}

// browseMsg carries a public listing page.
type browseMsg struct {
	list *api.ProjectList
	err  error
}

// highlightMsg carries the active-or-recent competition banner. A load
// failure is ignored; the banner is decoration, not data.
type highlightMsg struct {
	highlight *api.ActiveOrRecent
}

func (m Model) loadBrowse() tea.Cmd {
	ctx, client := m.ctx, m.client
	params := api.ListProjectsParams{Search: strings.TrimSpace(m.browse.search.Value())}
	list := func() tea.Msg {
		list, err := client.Projects.List(ctx, params)
		return browseMsg{list: list, err: err}
	}
	highlight := func() tea.Msg {
		active, err := client.Competitions.ActiveOrRecent(ctx)
		if err != nil {
			return highlightMsg{}
		}
		return highlightMsg{highlight: active}
	}
	return tea.Batch(list, highlight)
}

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case browseMsg:
		m.browse.loading = false
		if msg.err != nil {
			return m, errStatus(msg.err)
		}
		m.browse.list = msg.list
		m.browse.cursor = clamp(m.browse.cursor, 0, max(0, len(msg.list.Projects)-1))
		return m, nil

	case highlightMsg:
		m.browse.highlight = msg.highlight
		return m, nil

	case tea.KeyMsg:
		if m.browse.searchActive {
			switch msg.String() {
			case "esc":
				m.browse.searchActive = false
				m.browse.search.Blur()
				return m, nil
			case "enter":
				m.browse.searchActive = false
				m.browse.search.Blur()
				m.browse.loading = true
				return m, m.loadBrowse()
			}
			var cmd tea.Cmd
			m.browse.search, cmd = m.browse.search.Update(msg)
			return m, cmd
		}
		if next, cmd, ok := m.handleGlobalNav(msg); ok {
			return next, cmd
		}
		return m.updateBrowseKeys(msg)
	}
	return m, nil
}

func (m Model) updateBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	projects := m.browseProjects()
	switch {
	case msg.String() == "/":
		m.browse.searchActive = true
		m.browse.search.Focus()
		return m, textinput.Blink

	case keyMatches(msg, m.keys.Up):
		m.browse.cursor = clamp(m.browse.cursor-1, 0, max(0, len(projects)-1))
	case keyMatches(msg, m.keys.Down):
		m.browse.cursor = clamp(m.browse.cursor+1, 0, max(0, len(projects)-1))
	case keyMatches(msg, m.keys.Refresh):
		m.browse.loading = true
		return m, m.loadBrowse()

	case keyMatches(msg, m.keys.OpenURL):
		if p := m.browseSelected(); p != nil && p.RepoURL != "" {
			if err := browser.Open(p.RepoURL); err != nil {
				return m, errStatus(err)
			}
		}
	case keyMatches(msg, m.keys.YankURL):
		if p := m.browseSelected(); p != nil && p.RepoURL != "" {
			if err := clipboard.WriteAll(p.RepoURL); err != nil {
				return m, errStatus(err)
			}
			return m, infoStatus("copied repo url")
		}
	}
	return m, nil
}

func (m Model) browseProjects() []api.Project {
	if m.browse.list == nil {
		return nil
	}
	return m.browse.list.Projects
}

func (m Model) browseSelected() *api.Project {
	projects := m.browseProjects()
	if len(projects) == 0 {
		return nil
	}
	return &projects[m.browse.cursor]
}

func (m Model) viewBrowse() string {
	var b strings.Builder
	b.WriteString(m.theme.InputLabel.Render("Browse"))
	b.WriteString("\n\n")

	if h := m.browse.highlight; h != nil && h.Competition != nil {
		label := "recent competition"
		if h.IsActive {
			label = "competition running"
		}
		b.WriteString(m.theme.Accent.Render(fmt.Sprintf("%s: %s", label, truncate(h.Competition.Title, 50))))
		b.WriteString("\n\n")
	}

	if m.browse.searchActive || m.browse.search.Value() != "" {
		b.WriteString(m.browse.search.View())
		b.WriteString("\n\n")
	}

	projects := m.browseProjects()
	switch {
	case m.browse.loading:
		b.WriteString(m.theme.Subtle.Render("loading…"))
		b.WriteString("\n")
	case len(projects) == 0:
		b.WriteString(m.theme.Subtle.Render("no projects found"))
		b.WriteString("\n")
	default:
		for i, p := range projects {
			tech := ""
			if len(p.TechStack) > 0 {
				tech = m.theme.Subtle.Render(truncate(strings.Join(p.TechStack, ", "), 30))
			}
			line := fmt.Sprintf("%s  %s", truncate(p.Title, 40), tech)
			if i == m.browse.cursor {
				line = m.theme.Selected.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		if m.browse.list.Total > len(projects) {
			b.WriteString(m.theme.Subtle.Render(fmt.Sprintf("showing %d of %d", len(projects), m.browse.list.Total)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("/ search · o open repo · y copy url · r refresh"))
	return b.String()
}
