package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjartanf/syna/internal/api"
	"github.com/kjartanf/syna/internal/session"
)

// View identifies the active screen.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewVerify
	ViewMyProjects
	ViewProject
	ViewBrowse
	ViewReviews
	ViewRanking
)

// Options configure the UI.
type Options struct {
	Context context.Context
	Client  *api.Client
	Session *session.Session
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	client  *api.Client
	session *session.Session

	keys  keyMap
	theme Theme

	view   View
	width  int
	height int

	status    string
	statusErr bool

	// notify carries change events from the upload and ranking coordinators
	// into the Bubble Tea loop; events carries their completion and error
	// callbacks as ready-made messages.
	notify      chan struct{}
	events      chan tea.Msg
	userChanges <-chan struct{}

	login      loginState
	register   registerState
	verify     verifyState
	myProjects myProjectsState
	project    projectState
	browse     browseState
	reviews    reviewsState
	ranking    rankingState
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		session:     opts.Session,
		keys:        defaultKeyMap(),
		theme:       DefaultTheme(),
		notify:      make(chan struct{}, 16),
		events:      make(chan tea.Msg, 16),
		userChanges: opts.Session.Changes(),
	}
	m.login = newLoginState()
	m.register = newRegisterState()
	m.verify = newVerifyState()
	m.browse = newBrowseState()
	m.project = newProjectState()

	if user := opts.Session.User(); user != nil {
		if user.IsVerified {
			m.view = ViewMyProjects
		} else {
			m.view = ViewVerify
		}
	} else {
		m.view = ViewLogin
	}
	return m
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || opts.Context.Err() != nil) {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenNotify(), m.listenEvents(), m.listenUserChanges()}
	if m.view == ViewMyProjects {
		cmds = append(cmds, m.loadMyProjects())
	}
	return tea.Batch(cmds...)
}

// coordEventMsg signals that a coordinator mutated its state.
type coordEventMsg struct{}

// userChangedMsg signals that the session's cached user changed.
type userChangedMsg struct{}

// statusMsg updates the status line.
type statusMsg struct {
	text  string
	isErr bool
}

func (m Model) listenNotify() tea.Cmd {
	notify := m.notify
	return func() tea.Msg {
		<-notify
		return coordEventMsg{}
	}
}

// eventMsg wraps a message produced by a coordinator callback so the
// listener can be re-armed before the inner message is dispatched.
type eventMsg struct {
	inner tea.Msg
}

func (m Model) listenEvents() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return eventMsg{inner: <-events}
	}
}

// pushEvent delivers a coordinator callback into the Bubble Tea loop
// without blocking the callback's goroutine.
func (m Model) pushEvent(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func (m Model) listenUserChanges() tea.Cmd {
	changes := m.userChanges
	return func() tea.Msg {
		<-changes
		return userChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case coordEventMsg:
		// Coordinator state changed; re-render and keep listening.
		return m, m.listenNotify()

	case eventMsg:
		next, cmd := m.Update(msg.inner)
		return next, tea.Batch(cmd, m.listenEvents())

	case userChangedMsg:
		if m.session.User() == nil && m.view != ViewLogin && m.view != ViewRegister {
			// Forced logout: the broadcast fires only after tokens are gone.
			m = m.resetToLogin("session expired, please log in again")
		}
		return m, m.listenUserChanges()

	case statusMsg:
		m.status = msg.text
		m.statusErr = msg.isErr
		return m, nil

	case tea.KeyMsg:
		if keyMatches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	}

	switch m.view {
	case ViewLogin:
		return m.updateLogin(msg)
	case ViewRegister:
		return m.updateRegister(msg)
	case ViewVerify:
		return m.updateVerify(msg)
	case ViewMyProjects:
		return m.updateMyProjects(msg)
	case ViewProject:
		return m.updateProject(msg)
	case ViewBrowse:
		return m.updateBrowse(msg)
	case ViewReviews:
		return m.updateReviews(msg)
	case ViewRanking:
		return m.updateRanking(msg)
	}
	return m, nil
}

func (m Model) View() string {
	var body string
	switch m.view {
	case ViewLogin:
		body = m.viewLogin()
	case ViewRegister:
		body = m.viewRegister()
	case ViewVerify:
		body = m.viewVerify()
	case ViewMyProjects:
		body = m.viewMyProjects()
	case ViewProject:
		body = m.viewProject()
	case ViewBrowse:
		body = m.viewBrowse()
	case ViewReviews:
		body = m.viewReviews()
	case ViewRanking:
		body = m.viewRanking()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("sýna")
	if user := m.session.User(); user != nil {
		who := m.theme.Subtle.Render(user.Email)
		tabs := m.theme.Subtle.Render("[1] my projects  [2] browse  [3] reviews")
		return fmt.Sprintf("%s  %s  %s", title, tabs, who)
	}
	return title
}

func (m Model) renderStatusBar() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.theme.Error.Render(m.status)
	}
	return m.theme.Subtle.Render(m.status)
}

// handleGlobalNav processes the view-switching keys shared by every
// authenticated screen. The boolean reports whether the key was consumed.
func (m Model) handleGlobalNav(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case keyMatches(msg, m.keys.ViewMyProjects):
		m.view = ViewMyProjects
		m.status = ""
		return m, m.loadMyProjects(), true
	case keyMatches(msg, m.keys.ViewBrowse):
		m.view = ViewBrowse
		m.status = ""
		return m, m.loadBrowse(), true
	case keyMatches(msg, m.keys.ViewReviews):
		m.view = ViewReviews
		m.status = ""
		return m, m.loadReviews(), true
	case keyMatches(msg, m.keys.Logout):
		_ = m.session.Logout()
		m = m.resetToLogin("logged out")
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) resetToLogin(status string) Model {
	m.closeCoordinators()
	m.view = ViewLogin
	m.login = newLoginState()
	m.status = status
	m.statusErr = false
	return m
}

// closeCoordinators releases timers held by screen-scoped coordinators.
func (m *Model) closeCoordinators() {
	if m.project.uploads != nil {
		m.project.uploads.Close()
		m.project.uploads = nil
	}
	if m.ranking.coord != nil {
		m.ranking.coord.Close()
		m.ranking.coord = nil
	}
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: err.Error(), isErr: true}
	}
}

func infoStatus(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}
