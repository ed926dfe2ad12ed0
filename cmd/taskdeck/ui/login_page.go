package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/auth"
)

const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldCount
)

// loginDoneMsg carries the outcome of a login request back to the page.
type loginDoneMsg struct {
	res auth.Result
}

// LoginModel is the sign-in page. The submit affordance is disabled while
// one request is in flight; there is no local validation here, the server
// judges the credentials.
type LoginModel struct {
	flow   *auth.Flow
	styles Styles

	inputs [loginFieldCount]textinput.Model
	focus  int

	submitting bool
	errMsg     string
	notice     string

	spin  spinner.Model
	width int
}

// NewLogin creates the login page. notice, when non-empty, is shown above
// the form (used for the session-expired message).
func NewLogin(flow *auth.Flow, styles Styles, notice string) LoginModel {
	email := textinput.New()
	email.Placeholder = "Enter your email"
	email.CharLimit = 254
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Enter your password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Theme.Primary)

	return LoginModel{
		flow:   flow,
		styles: styles,
		inputs: [loginFieldCount]textinput.Model{email, password},
		notice: notice,
		spin:   sp,
	}
}

// Init implements tea.Model.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loginDoneMsg:
		m.submitting = false
		if msg.res.Ok {
			return m, func() tea.Msg { return AuthSuccessMsg{} }
		}
		m.errMsg = msg.res.Message
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % loginFieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + loginFieldCount - 1) % loginFieldCount)
			return m, nil
		case "ctrl+t":
			m.togglePasswordEcho()
			return m, nil
		case "ctrl+r":
			return m, func() tea.Msg { return ShowRegisterMsg{} }
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *LoginModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *LoginModel) togglePasswordEcho() {
	pw := &m.inputs[loginFieldPassword]
	if pw.EchoMode == textinput.EchoPassword {
		pw.EchoMode = textinput.EchoNormal
	} else {
		pw.EchoMode = textinput.EchoPassword
	}
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	email := m.inputs[loginFieldEmail].Value()
	password := m.inputs[loginFieldPassword].Value()

	m.submitting = true
	m.errMsg = ""
	m.notice = ""

	flow := m.flow
	return m, tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			return loginDoneMsg{res: flow.Login(context.Background(), email, password)}
		},
	)
}

// View implements tea.Model.
func (m LoginModel) View() string {
	s := m.styles

	var rows []string
	rows = append(rows,
		s.Title.Render("Welcome Back"),
		s.Subtitle.Render("Sign in to manage your tasks"),
		"",
	)

	if m.notice != "" {
		rows = append(rows, s.Error.Render(m.notice), "")
	}
	if m.errMsg != "" {
		rows = append(rows, s.Error.Render(m.errMsg), "")
	}

	labels := [loginFieldCount]string{"Email", "Password"}
	for i, in := range m.inputs {
		box := s.InputBlurred
		if i == m.focus {
			box = s.InputFocused
		}
		rows = append(rows, s.FieldLabel.Render(labels[i]), box.Render(in.View()))
	}

	rows = append(rows, "")
	if m.submitting {
		rows = append(rows, m.spin.View()+" Signing in...")
	} else {
		rows = append(rows, s.Bold.Render("[enter] Sign In"))
	}

	rows = append(rows, "",
		s.Muted.Render("Don't have an account? [ctrl+r] Sign Up  •  [ctrl+t] show password"))

	card := s.Overlay.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card)
	}
	return card
}
