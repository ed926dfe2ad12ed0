package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/tasklist"
)

const (
	formFieldTitle = iota
	formFieldDescription
	formFieldDueDate
	formFieldCategory
	formFieldPriority
	formFieldStatus
	formFieldCount
)

// formAction is what the form asks the dashboard to do after a key.
type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// taskFormModel is the create/edit overlay. It edits the controller's draft
// in place; submission and closing are owned by the dashboard, which also
// runs the save lifecycle.
type taskFormModel struct {
	ctrl   *tasklist.Controller
	styles Styles

	inputs [formFieldDueDate + 1]textinput.Model
	focus  int
}

func newTaskForm(ctrl *tasklist.Controller, styles Styles) taskFormModel {
	mk := func(placeholder string, width int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Width = width
		return in
	}

	return taskFormModel{
		ctrl:   ctrl,
		styles: styles,
		inputs: [formFieldDueDate + 1]textinput.Model{
			mk("Task title", 40),
			mk("Optional description (markdown supported)", 40),
			mk("YYYY-MM-DD or YYYY-MM-DDTHH:MM", 40),
		},
	}
}

// Open loads the controller's current draft into the inputs. Call after
// OpenCreate or OpenEdit.
func (m *taskFormModel) Open() tea.Cmd {
	d := m.ctrl.Draft
	m.inputs[formFieldTitle].SetValue(d.Title)
	m.inputs[formFieldDescription].SetValue(d.Description)
	m.inputs[formFieldDueDate].SetValue(d.DueDate)
	m.focus = formFieldTitle
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[formFieldTitle].Focus()
	return textinput.Blink
}

// Update handles one message while the form is open.
func (m taskFormModel) Update(msg tea.Msg) (taskFormModel, tea.Cmd, formAction) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}

	switch key.String() {
	case "esc":
		return m, nil, formCancel
	case "enter":
		return m, nil, formSubmit
	case "tab", "down":
		m.setFocus((m.focus + 1) % formFieldCount)
		return m, nil, formNone
	case "shift+tab", "up":
		m.setFocus((m.focus + formFieldCount - 1) % formFieldCount)
		return m, nil, formNone
	case "left":
		if m.focus >= formFieldCategory {
			m.cycle(-1)
			return m, nil, formNone
		}
	case "right", " ":
		if m.focus >= formFieldCategory {
			m.cycle(1)
			return m, nil, formNone
		}
	}

	return m.updateInput(msg)
}

func (m taskFormModel) updateInput(msg tea.Msg) (taskFormModel, tea.Cmd, formAction) {
	if m.focus > formFieldDueDate {
		return m, nil, formNone
	}

	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if v := m.inputs[m.focus].Value(); v != before {
		switch m.focus {
		case formFieldTitle:
			m.ctrl.Draft.Title = v
			m.ctrl.ClearFieldError("title")
		case formFieldDescription:
			m.ctrl.Draft.Description = v
		case formFieldDueDate:
			m.ctrl.Draft.DueDate = v
			m.ctrl.ClearFieldError("dueDate")
		}
	}
	return m, cmd, formNone
}

func (m *taskFormModel) setFocus(i int) {
	if m.focus <= formFieldDueDate {
		m.inputs[m.focus].Blur()
	}
	m.focus = i
	if m.focus <= formFieldDueDate {
		m.inputs[m.focus].Focus()
	}
}

// cycle steps the focused selector through its options.
func (m *taskFormModel) cycle(dir int) {
	d := &m.ctrl.Draft
	switch m.focus {
	case formFieldCategory:
		opts := api.Categories()
		d.Category = opts[nextIndex(len(opts), indexOf(opts, d.Category), dir)]
		m.ctrl.ClearFieldError("category")
	case formFieldPriority:
		opts := api.Priorities()
		d.Priority = opts[nextIndex(len(opts), indexOf(opts, d.Priority), dir)]
	case formFieldStatus:
		opts := api.Statuses()
		d.Status = opts[nextIndex(len(opts), indexOf(opts, d.Status), dir)]
	}
}

func indexOf[T comparable](opts []T, v T) int {
	for i, o := range opts {
		if o == v {
			return i
		}
	}
	return 0
}

func nextIndex(n, cur, dir int) int {
	return (cur + dir + n) % n
}

// View renders the form card.
func (m taskFormModel) View() string {
	s := m.styles
	c := m.ctrl

	title := "New Task"
	if c.Editing() {
		title = "Edit Task"
	}

	var rows []string
	rows = append(rows, s.Title.Render(title), "")

	if c.FormError != "" {
		rows = append(rows, s.Error.Render(c.FormError), "")
	}

	labels := [formFieldDueDate + 1]string{"Title", "Description", "Due Date"}
	errKeys := [formFieldDueDate + 1]string{"title", "", "dueDate"}
	for i, in := range m.inputs {
		box := s.InputBlurred
		if i == m.focus {
			box = s.InputFocused
		}
		rows = append(rows, s.FieldLabel.Render(labels[i]), box.Render(in.View()))
		if errKeys[i] != "" {
			if msg, ok := c.FieldErrors[errKeys[i]]; ok {
				rows = append(rows, s.FieldError.Render(msg))
			}
		}
	}

	rows = append(rows,
		m.selectorRow("Category", string(c.Draft.Category), formFieldCategory),
	)
	if msg, ok := c.FieldErrors["category"]; ok {
		rows = append(rows, s.FieldError.Render(msg))
	}
	rows = append(rows,
		m.selectorRow("Priority", string(c.Draft.Priority), formFieldPriority),
		m.selectorRow("Status", string(c.Draft.Status), formFieldStatus),
	)

	action := "[enter] Create"
	if c.Editing() {
		action = "[enter] Save"
	}
	if c.SavePhase == tasklist.MutationSubmitting {
		action = "Saving..."
	}
	rows = append(rows, "", s.Bold.Render(action)+"  "+s.Muted.Render("[esc] Cancel"))

	return s.Overlay.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m taskFormModel) selectorRow(label, value string, field int) string {
	s := m.styles
	line := s.FieldLabel.Render(label) + "  "
	if m.focus == field {
		line += s.TaskSelected.Render("‹ " + value + " ›")
	} else {
		line += s.TaskRow.Render(value)
	}
	return line
}
