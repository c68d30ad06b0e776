package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjartanf/syna/internal/api"
	"github.com/kjartanf/syna/internal/browser"
	"github.com/kjartanf/syna/internal/upload"
)

// maxImagesPerProject is the UI-enforced ceiling on images per project; the
// coordinator itself imposes no cap.
const maxImagesPerProject = 10

// projectState holds one project's detail screen, including the upload
// coordinator scoped to it.
type projectState struct {
	project     *api.Project
	uploads     *upload.Coordinator
	pathInput   textinput.Model
	inputActive bool
	cursor      int
	loading     bool
	bar         progress.Model
}

func newProjectState() projectState {
	input := textinput.New()
	input.Placeholder = "paths to image files, space separated"
	input.CharLimit = 1024
	return projectState{
		pathInput: input,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

// projectMsg carries a loaded project detail.
type projectMsg struct {
	project *api.Project
	err     error
}

// imageUploadedMsg carries a confirmed upload's canonical image record.
type imageUploadedMsg struct {
	image api.ProjectImage
}

// imageMutatedMsg follows a set-main or delete call.
type imageMutatedMsg struct {
	err error
}

func (m Model) openProject(projectID string) (tea.Model, tea.Cmd) {
	m.closeCoordinators()
	m.view = ViewProject
	m.project = newProjectState()
	m.project.loading = true
	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		project, err := client.MyProjects.Get(ctx, projectID)
		return projectMsg{project: project, err: err}
	}
}

// newUploadCoordinator wires a coordinator's callbacks into the TUI loop.
func (m Model) newUploadCoordinator(projectID string) *upload.Coordinator {
	return upload.NewCoordinator(upload.Options{
		ProjectID: projectID,
		API:       m.client.MyProjects,
		OnComplete: func(image api.ProjectImage) {
			m.pushEvent(imageUploadedMsg{image: image})
		},
		OnError: func(err error) {
			m.pushEvent(statusMsg{text: err.Error(), isErr: true})
		},
		OnChange: m.pushNotify,
	})
}

func (m Model) pushNotify() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m Model) updateProject(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectMsg:
		m.project.loading = false
		if msg.err != nil {
			return m, errStatus(msg.err)
		}
		m.project.project = msg.project
		m.project.uploads = m.newUploadCoordinator(msg.project.ID)
		return m, nil

	case imageUploadedMsg:
		if m.project.project != nil {
			m.project.project.Images = append(m.project.project.Images, msg.image)
		}
		return m, infoStatus(fmt.Sprintf("uploaded %s", msg.image.ID))

	case imageMutatedMsg:
		if msg.err != nil {
			return m, errStatus(msg.err)
		}
		if m.project.project != nil {
			return m, tea.Batch(m.reloadProject(), infoStatus("saved"))
		}
		return m, nil

	case tea.KeyMsg:
		if m.project.inputActive {
			return m.updateProjectInput(msg)
		}
		if next, cmd, ok := m.handleGlobalNav(msg); ok {
			return next, cmd
		}
		return m.updateProjectKeys(msg)
	}
	return m, nil
}

func (m Model) updateProjectInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.project.inputActive = false
		m.project.pathInput.Blur()
		return m, nil
	case "enter":
		paths := strings.Fields(m.project.pathInput.Value())
		m.project.inputActive = false
		m.project.pathInput.Blur()
		m.project.pathInput.SetValue("")
		if len(paths) == 0 || m.project.uploads == nil {
			return m, nil
		}
		if m.project.project != nil && len(m.project.project.Images)+len(paths) > maxImagesPerProject {
			return m, errStatus(fmt.Errorf("a project can have at most %d images", maxImagesPerProject))
		}
		m.project.uploads.UploadFiles(m.ctx, paths)
		return m, nil
	}
	var cmd tea.Cmd
	m.project.pathInput, cmd = m.project.pathInput.Update(msg)
	return m, cmd
}

func (m Model) updateProjectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	project := m.project.project
	switch {
	case keyMatches(msg, m.keys.Back):
		m.closeCoordinators()
		m.view = ViewMyProjects
		return m, m.loadMyProjects()

	case keyMatches(msg, m.keys.AddImages):
		m.project.inputActive = true
		m.project.pathInput.Focus()
		return m, textinput.Blink

	case keyMatches(msg, m.keys.Up):
		if project != nil {
			m.project.cursor = clamp(m.project.cursor-1, 0, max(0, len(project.Images)-1))
		}
	case keyMatches(msg, m.keys.Down):
		if project != nil {
			m.project.cursor = clamp(m.project.cursor+1, 0, max(0, len(project.Images)-1))
		}

	case keyMatches(msg, m.keys.SetMain):
		if project == nil || len(project.Images) == 0 {
			return m, nil
		}
		image := project.Images[m.project.cursor]
		ctx, client := m.ctx, m.client
		projectID := project.ID
		return m, func() tea.Msg {
			_, err := client.MyProjects.SetMainImage(ctx, projectID, image.ID)
			return imageMutatedMsg{err: err}
		}

	case keyMatches(msg, m.keys.DeleteImage):
		if project == nil || len(project.Images) == 0 {
			return m, nil
		}
		image := project.Images[m.project.cursor]
		ctx, client := m.ctx, m.client
		projectID := project.ID
		return m, func() tea.Msg {
			err := client.MyProjects.DeleteImage(ctx, projectID, image.ID)
			return imageMutatedMsg{err: err}
		}

	case keyMatches(msg, m.keys.OpenURL):
		if project != nil && project.RepoURL != "" {
			if err := browser.Open(project.RepoURL); err != nil {
				return m, errStatus(err)
			}
		}
	case keyMatches(msg, m.keys.YankURL):
		if project != nil && project.RepoURL != "" {
			if err := clipboard.WriteAll(project.RepoURL); err != nil {
				return m, errStatus(err)
			}
			return m, infoStatus("copied repo url")
		}
	case keyMatches(msg, m.keys.Refresh):
		return m, m.reloadProject()
	}
	return m, nil
}

func (m Model) reloadProject() tea.Cmd {
	if m.project.project == nil {
		return nil
	}
	ctx, client := m.ctx, m.client
	projectID := m.project.project.ID
	return func() tea.Msg {
		project, err := client.MyProjects.Get(ctx, projectID)
		return projectMsg{project: project, err: err}
	}
}

func (m Model) viewProject() string {
	var b strings.Builder
	if m.project.loading || m.project.project == nil {
		b.WriteString(m.theme.Subtle.Render("loading…"))
		return b.String()
	}
	project := m.project.project

	b.WriteString(m.theme.Title.Render(project.Title))
	b.WriteString("\n")
	if project.RepoURL != "" {
		b.WriteString(m.theme.Accent.Render(project.RepoURL))
		b.WriteString("\n")
	}
	if project.Description != "" {
		b.WriteString(m.theme.Subtle.Render(truncate(project.Description, 200)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.InputLabel.Render(fmt.Sprintf("Images (%d/%d)", len(project.Images), maxImagesPerProject)))
	b.WriteString("\n")
	if len(project.Images) == 0 {
		b.WriteString(m.theme.Subtle.Render("  no images"))
		b.WriteString("\n")
	}
	for i, image := range project.Images {
		marker := "  "
		if i == m.project.cursor {
			marker = m.theme.Accent.Render("> ")
		}
		line := truncate(image.URL, 60)
		if image.IsMain {
			line += " " + m.theme.Success.Render("(main)")
		}
		b.WriteString(marker + line + "\n")
	}

	if m.project.uploads != nil {
		tasks := m.project.uploads.Tasks()
		if len(tasks) > 0 {
			b.WriteString("\n")
			b.WriteString(m.theme.InputLabel.Render("Uploads"))
			b.WriteString("\n")
			for _, task := range tasks {
				b.WriteString(m.renderUploadTask(task))
				b.WriteString("\n")
			}
		}
	}

	if m.project.inputActive {
		b.WriteString("\n")
		b.WriteString(m.project.pathInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("a add images · m set main · x delete · o open repo · y copy url · esc back"))
	return b.String()
}

func (m Model) renderUploadTask(task upload.Task) string {
	name := truncate(task.Filename, 28)
	switch task.Status {
	case upload.StatusPending:
		return fmt.Sprintf("  %s %s", name, m.theme.Subtle.Render("waiting…"))
	case upload.StatusUploading:
		return fmt.Sprintf("  %s %s", name, m.project.bar.ViewAs(float64(task.Progress)/100))
	case upload.StatusProcessing:
		return fmt.Sprintf("  %s %s", name, m.theme.Subtle.Render("processing…"))
	case upload.StatusComplete:
		return fmt.Sprintf("  %s %s", name, m.theme.Success.Render("done"))
	case upload.StatusError:
		return fmt.Sprintf("  %s %s", name, m.theme.Error.Render(task.Err))
	}
	return "  " + name
}
