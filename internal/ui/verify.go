package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjartanf/syna/internal/api"
)

// verifyState holds the email verification screen.
type verifyState struct {
	code       textinput.Model
	submitting bool
	err        string
	info       string
}

func newVerifyState() verifyState {
	code := textinput.New()
	code.Placeholder = "verification code"
	code.Focus()
	code.CharLimit = 6
	return verifyState{code: code}
}

// verifiedMsg carries the result of a code submission, including the
// refreshed profile when verification succeeded.
type verifiedMsg struct {
	verified bool
	user     *api.User
	err      error
}

// resendMsg carries the result of a resend request.
type resendMsg struct {
	err error
}

func (m Model) verifyCmd(code string) tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		verified, err := sess.VerifyEmail(ctx, code)
		if err != nil || !verified {
			return verifiedMsg{verified: verified, err: err}
		}
		// Reflect the server-confirmed verified flag before routing on.
		user, err := sess.RefreshUser(ctx)
		return verifiedMsg{verified: true, user: user, err: err}
	}
}

func (m Model) resendCmd() tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		return resendMsg{err: sess.ResendVerification(ctx)}
	}
}

func (m Model) updateVerify(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case verifiedMsg:
		m.verify.submitting = false
		if msg.err != nil {
			m.verify.err = msg.err.Error()
			return m, nil
		}
		if !msg.verified {
			m.verify.err = "code not accepted"
			return m, nil
		}
		m.view = ViewMyProjects
		return m, m.loadMyProjects()

	case resendMsg:
		if msg.err != nil {
			m.verify.err = msg.err.Error()
		} else {
			m.verify.info = "verification email sent"
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.verify.submitting {
				return m, nil
			}
			code := strings.TrimSpace(m.verify.code.Value())
			if code == "" {
				m.verify.err = "enter the code from your email"
				return m, nil
			}
			m.verify.submitting = true
			m.verify.err = ""
			m.verify.info = ""
			return m, m.verifyCmd(code)
		case "ctrl+s":
			return m, m.resendCmd()
		case "ctrl+l":
			_ = m.session.Logout()
			return m.resetToLogin("logged out"), nil
		}
	}

	var cmd tea.Cmd
	m.verify.code, cmd = m.verify.code.Update(msg)
	return m, cmd
}

func (m Model) viewVerify() string {
	var b strings.Builder
	b.WriteString(m.theme.InputLabel.Render("Verify your email"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Subtle.Render("We sent a code to your email address."))
	b.WriteString("\n\n")
	b.WriteString(m.verify.code.View())
	b.WriteString("\n\n")
	switch {
	case m.verify.submitting:
		b.WriteString(m.theme.Subtle.Render("verifying…"))
	case m.verify.err != "":
		b.WriteString(m.theme.Error.Render(m.verify.err))
	case m.verify.info != "":
		b.WriteString(m.theme.Success.Render(m.verify.info))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("enter submit · ctrl+s resend code · ctrl+l log out"))
	return b.String()
}
