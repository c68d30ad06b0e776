package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjartanf/syna/internal/api"
)

// myProjectsState holds the user's own project listing.
type myProjectsState struct {
	projects []api.Project
	cursor   int
	loading  bool
}

// myProjectsMsg carries the listing result.
type myProjectsMsg struct {
	projects []api.Project
	err      error
}

func (m Model) loadMyProjects() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		projects, err := client.MyProjects.List(ctx)
		return myProjectsMsg{projects: projects, err: err}
	}
}

func (m Model) updateMyProjects(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case myProjectsMsg:
		m.myProjects.loading = false
		if msg.err != nil {
			return m, errStatus(msg.err)
		}
		m.myProjects.projects = msg.projects
		m.myProjects.cursor = clamp(m.myProjects.cursor, 0, max(0, len(msg.projects)-1))
		return m, nil

	case tea.KeyMsg:
		if next, cmd, ok := m.handleGlobalNav(msg); ok {
			return next, cmd
		}
		switch {
		case keyMatches(msg, m.keys.Up):
			m.myProjects.cursor = clamp(m.myProjects.cursor-1, 0, max(0, len(m.myProjects.projects)-1))
		case keyMatches(msg, m.keys.Down):
			m.myProjects.cursor = clamp(m.myProjects.cursor+1, 0, max(0, len(m.myProjects.projects)-1))
		case keyMatches(msg, m.keys.Refresh):
			m.myProjects.loading = true
			return m, m.loadMyProjects()
		case keyMatches(msg, m.keys.Confirm):
			if len(m.myProjects.projects) == 0 {
				return m, nil
			}
			selected := m.myProjects.projects[m.myProjects.cursor]
			return m.openProject(selected.ID)
		}
	}
	return m, nil
}

func (m Model) viewMyProjects() string {
	var b strings.Builder
	b.WriteString(m.theme.InputLabel.Render("My projects"))
	b.WriteString("\n\n")

	switch {
	case m.myProjects.loading:
		b.WriteString(m.theme.Subtle.Render("loading…"))
	case len(m.myProjects.projects) == 0:
		b.WriteString(m.theme.Subtle.Render("no projects yet"))
	default:
		for i, p := range m.myProjects.projects {
			line := fmt.Sprintf("%s  %s", truncate(p.Title, 40), m.theme.Subtle.Render(fmt.Sprintf("%d images", len(p.Images))))
			if i == m.myProjects.cursor {
				line = m.theme.Selected.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("enter open · j/k move · r refresh · ctrl+l log out"))
	return b.String()
}
