package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/auth"
	"taskdeck/internal/validate"
)

const (
	regFieldName = iota
	regFieldEmail
	regFieldPassword
	regFieldConfirm
	regFieldTerms
	regFieldCount
)

// regFieldKeys maps focus positions to validation-error map keys.
var regFieldKeys = [regFieldCount]string{
	"name", "email", "password", "confirmPassword", "terms",
}

// registerDoneMsg carries the outcome of a registration request.
type registerDoneMsg struct {
	res auth.Result
}

// RegisterModel is the account-creation page. Validation runs locally
// before any request; field errors clear as the user edits the field.
type RegisterModel struct {
	flow   *auth.Flow
	styles Styles

	inputs [regFieldCount - 1]textinput.Model // terms is a checkbox, not an input
	agree  bool
	focus  int

	submitting  bool
	errMsg      string
	fieldErrors map[string]string

	spin  spinner.Model
	width int
}

// NewRegister creates the registration page.
func NewRegister(flow *auth.Flow, styles Styles) RegisterModel {
	mk := func(placeholder string, secret bool) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 254
		in.Width = 40
		if secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		return in
	}

	inputs := [regFieldCount - 1]textinput.Model{
		mk("Enter your full name", false),
		mk("Enter your email", false),
		mk("Create a password", true),
		mk("Confirm your password", true),
	}
	inputs[regFieldName].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Theme.Primary)

	return RegisterModel{
		flow:   flow,
		styles: styles,
		inputs: inputs,
		spin:   sp,
	}
}

// Init implements tea.Model.
func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case registerDoneMsg:
		m.submitting = false
		res := msg.res
		switch {
		case res.Ok:
			return m, func() tea.Msg { return RegisterDoneMsg{} }
		case len(res.FieldErrors) > 0:
			m.fieldErrors = res.FieldErrors
		default:
			m.errMsg = res.Message
		}
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
			m.setFocus((m.focus + 1) % regFieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + regFieldCount - 1) % regFieldCount)
			return m, nil
		case "esc":
			return m, func() tea.Msg { return ShowLoginMsg{} }
		case "enter":
			return m.submit()
		case " ":
			if m.focus == regFieldTerms {
				m.agree = !m.agree
				m.clearFieldError(regFieldTerms)
				return m, nil
			}
		}
	}

	if m.focus < regFieldTerms {
		var cmd tea.Cmd
		before := m.inputs[m.focus].Value()
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if m.inputs[m.focus].Value() != before {
			m.clearFieldError(m.focus)
		}
		return m, cmd
	}
	return m, nil
}

func (m *RegisterModel) setFocus(i int) {
	if m.focus < regFieldTerms {
		m.inputs[m.focus].Blur()
	}
	m.focus = i
	if m.focus < regFieldTerms {
		m.inputs[m.focus].Focus()
	}
}

// clearFieldError drops the message for one field while the user edits it.
func (m *RegisterModel) clearFieldError(field int) {
	delete(m.fieldErrors, regFieldKeys[field])
}

func (m RegisterModel) submit() (RegisterModel, tea.Cmd) {
	form := validate.RegistrationForm{
		Name:            m.inputs[regFieldName].Value(),
		Email:           m.inputs[regFieldEmail].Value(),
		Password:        m.inputs[regFieldPassword].Value(),
		ConfirmPassword: m.inputs[regFieldConfirm].Value(),
		AgreeToTerms:    m.agree,
	}

	m.submitting = true
	m.errMsg = ""
	m.fieldErrors = nil

	flow := m.flow
	return m, tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			return registerDoneMsg{res: flow.Register(context.Background(), form)}
		},
	)
}

// View implements tea.Model.
func (m RegisterModel) View() string {
	s := m.styles

	var rows []string
	rows = append(rows,
		s.Title.Render("Create Account"),
		s.Subtitle.Render("Start managing your tasks today"),
		"",
	)

	if m.errMsg != "" {
		rows = append(rows, s.Error.Render(m.errMsg), "")
	}
	if msg, ok := m.fieldErrors["terms"]; ok {
		rows = append(rows, s.Error.Render(msg), "")
	}

	labels := [regFieldCount - 1]string{"Full Name", "Email", "Password", "Confirm Password"}
	for i, in := range m.inputs {
		box := s.InputBlurred
		if i == m.focus {
			box = s.InputFocused
		}
		rows = append(rows, s.FieldLabel.Render(labels[i]), box.Render(in.View()))
		if msg, ok := m.fieldErrors[regFieldKeys[i]]; ok {
			rows = append(rows, s.FieldError.Render(msg))
		}
	}

	check := "[ ]"
	if m.agree {
		check = "[x]"
	}
	termsLine := check + " I agree to the Terms of Service and Privacy Policy"
	if m.focus == regFieldTerms {
		rows = append(rows, "", s.Bold.Render(termsLine+"  (space to toggle)"))
	} else {
		rows = append(rows, "", s.Muted.Render(termsLine))
	}

	rows = append(rows, "")
	if m.submitting {
		rows = append(rows, m.spin.View()+" Creating Account...")
	} else {
		rows = append(rows, s.Bold.Render("[enter] Create Account"))
	}

	rows = append(rows, "",
		s.Muted.Render("Already have an account? [esc] Sign In"))

	card := s.Overlay.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card)
	}
	return card
}
