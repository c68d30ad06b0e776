package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjartanf/syna/internal/api"
)

// loginState holds the login form.
type loginState struct {
	email      textinput.Model
	password   textinput.Model
	focusIdx   int
	submitting bool
	err        string
}

func newLoginState() loginState {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	return loginState{email: email, password: password}
}

// loggedInMsg carries the result of a login or auto-login.
type loggedInMsg struct {
	user *api.User
	err  error
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		user, err := sess.Login(ctx, email, password)
		return loggedInMsg{user: user, err: err}
	}
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loggedInMsg:
		m.login.submitting = false
		if msg.err != nil {
			m.login.err = msg.err.Error()
			return m, nil
		}
		return m.routeAfterAuth(msg.user)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.login.focusIdx = (m.login.focusIdx + 1) % 2
			if m.login.focusIdx == 0 {
				m.login.email.Focus()
				m.login.password.Blur()
			} else {
				m.login.email.Blur()
				m.login.password.Focus()
			}
			return m, nil
		case "enter":
			if m.login.submitting {
				return m, nil
			}
			email := strings.TrimSpace(m.login.email.Value())
			password := m.login.password.Value()
			if email == "" || password == "" {
				m.login.err = "email and password are required"
				return m, nil
			}
			m.login.submitting = true
			m.login.err = ""
			return m, m.loginCmd(email, password)
		case "ctrl+r":
			m.view = ViewRegister
			m.register = newRegisterState()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.login.focusIdx == 0 {
		m.login.email, cmd = m.login.email.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

// routeAfterAuth decides the post-authentication screen: unverified accounts
// go to the verification view, everyone else to their projects.
func (m Model) routeAfterAuth(user *api.User) (tea.Model, tea.Cmd) {
	if user != nil && !user.IsVerified {
		m.view = ViewVerify
		m.verify = newVerifyState()
		return m, nil
	}
	m.view = ViewMyProjects
	return m, m.loadMyProjects()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.theme.InputLabel.Render("Log in"))
	b.WriteString("\n\n")
	b.WriteString(m.login.email.View())
	b.WriteString("\n")
	b.WriteString(m.login.password.View())
	b.WriteString("\n\n")
	if m.login.submitting {
		b.WriteString(m.theme.Subtle.Render("logging in…"))
	} else if m.login.err != "" {
		b.WriteString(m.theme.Error.Render(m.login.err))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("enter submit · tab next field · ctrl+r register · ctrl+c quit"))
	return b.String()
}

// registerState holds the registration form.
type registerState struct {
	email      textinput.Model
	password   textinput.Model
	kennitala  textinput.Model
	focusIdx   int
	submitting bool
	err        string
}

func newRegisterState() registerState {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	kennitala := textinput.New()
	kennitala.Placeholder = "kennitala"
	kennitala.CharLimit = 10

	return registerState{email: email, password: password, kennitala: kennitala}
}

// registeredMsg carries the result of register + auto-login.
type registeredMsg struct {
	user *api.User
	err  error
}

func (m Model) registerCmd(email, password, kennitala string) tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		user, err := sess.Register(ctx, email, password, kennitala)
		return registeredMsg{user: user, err: err}
	}
}

func (m Model) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		m.register.submitting = false
		if msg.err != nil {
			m.register.err = msg.err.Error()
			return m, nil
		}
		return m.routeAfterAuth(msg.user)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.view = ViewLogin
			return m, nil
		case "tab", "down":
			m.register.focusIdx = (m.register.focusIdx + 1) % 3
			m.focusRegisterField()
			return m, nil
		case "shift+tab", "up":
			m.register.focusIdx = (m.register.focusIdx + 2) % 3
			m.focusRegisterField()
			return m, nil
		case "enter":
			if m.register.submitting {
				return m, nil
			}
			email := strings.TrimSpace(m.register.email.Value())
			password := m.register.password.Value()
			kennitala := strings.TrimSpace(m.register.kennitala.Value())
			if email == "" || password == "" || kennitala == "" {
				m.register.err = "all fields are required"
				return m, nil
			}
			m.register.submitting = true
			m.register.err = ""
			return m, m.registerCmd(email, password, kennitala)
		}
	}

	var cmd tea.Cmd
	switch m.register.focusIdx {
	case 0:
		m.register.email, cmd = m.register.email.Update(msg)
	case 1:
		m.register.password, cmd = m.register.password.Update(msg)
	case 2:
		m.register.kennitala, cmd = m.register.kennitala.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusRegisterField() {
	inputs := []*textinput.Model{&m.register.email, &m.register.password, &m.register.kennitala}
	for i, input := range inputs {
		if i == m.register.focusIdx {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (m Model) viewRegister() string {
	var b strings.Builder
	b.WriteString(m.theme.InputLabel.Render("Create account"))
	b.WriteString("\n\n")
	b.WriteString(m.register.email.View())
	b.WriteString("\n")
	b.WriteString(m.register.password.View())
	b.WriteString("\n")
	b.WriteString(m.register.kennitala.View())
	b.WriteString("\n\n")
	if m.register.submitting {
		b.WriteString(m.theme.Subtle.Render("creating account…"))
	} else if m.register.err != "" {
		b.WriteString(m.theme.Error.Render(m.register.err))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(fmt.Sprintf("enter submit · tab next field · esc back to %s", "login")))
	return b.String()
}
