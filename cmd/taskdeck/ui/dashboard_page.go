package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/tasklist"
	"taskdeck/internal/validate"
)

// Results of background calls, delivered to the update loop.
type (
	fetchDoneMsg  struct{ res tasklist.FetchResult }
	saveDoneMsg   struct{ res tasklist.SaveResult }
	deleteDoneMsg struct{ res tasklist.DeleteResult }
)

// DashboardModel is the authenticated task view: the paginated list with
// search and category filters, plus the form, confirmation, and detail
// overlays. All task state lives in the controller; the model holds only
// presentation concerns.
type DashboardModel struct {
	ctrl   *tasklist.Controller
	styles Styles
	log    *zap.Logger

	keys  KeyMap
	help  help.Model
	spin  spinner.Model
	pager paginator.Model

	search    textinput.Model
	searching bool
	deb       *SearchDebouncer

	form   taskFormModel
	cursor int
	detail bool

	width  int
	height int
}

// NewDashboard creates the dashboard page around an existing controller.
func NewDashboard(ctrl *tasklist.Controller, styles Styles, log *zap.Logger) DashboardModel {
	if log == nil {
		log = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Theme.Primary)

	pg := paginator.New()
	pg.Type = paginator.Dots
	pg.ActiveDot = lipgloss.NewStyle().Foreground(styles.Theme.Primary).Render("•")
	pg.InactiveDot = styles.Muted.Render("•")

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.Prompt = "/ "
	search.Width = 30

	return DashboardModel{
		ctrl:   ctrl,
		styles: styles,
		log:    log,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		spin:   sp,
		pager:  pg,
		search: search,
		deb:    NewSearchDebouncer(),
		form:   newTaskForm(ctrl, styles),
	}
}

// Init implements tea.Model: load the first page.
func (m DashboardModel) Init() tea.Cmd {
	return m.fetch(m.ctrl.Page)
}

// fetch starts a listing request for page, or reports the expired session.
func (m *DashboardModel) fetch(page int) tea.Cmd {
	f, ok := m.ctrl.BeginFetch(page, m.ctrl.Limit)
	if !ok {
		return m.expiredCmd()
	}
	ctrl := m.ctrl
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		return fetchDoneMsg{res: ctrl.ExecuteFetch(context.Background(), f)}
	})
}

// expiredCmd converts a flagged session expiry into a navigation message.
// Returns nil when the session is still live.
func (m *DashboardModel) expiredCmd() tea.Cmd {
	if !m.ctrl.SessionExpired() {
		return nil
	}
	return func() tea.Msg {
		return SessionExpiredMsg{Notice: "Session expired. Please login again."}
	}
}

// Update implements tea.Model.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case fetchDoneMsg:
		m.ctrl.ApplyFetch(msg.res)
		if cmd := m.expiredCmd(); cmd != nil {
			return m, cmd
		}
		m.clampCursor()
		m.pager.SetTotalPages(m.ctrl.PageCount())
		m.pager.Page = m.ctrl.Page - 1
		return m, nil

	case saveDoneMsg:
		refetch := m.ctrl.ApplySave(msg.res)
		if cmd := m.expiredCmd(); cmd != nil {
			return m, cmd
		}
		if refetch {
			return m, m.fetch(m.ctrl.Page)
		}
		return m, nil

	case deleteDoneMsg:
		refetch := m.ctrl.ApplyDelete(msg.res)
		if cmd := m.expiredCmd(); cmd != nil {
			return m, cmd
		}
		if refetch {
			return m, m.fetch(m.ctrl.Page)
		}
		return m, nil

	case DebounceElapsedMsg:
		value, ok := m.deb.Resolve(msg)
		if !ok {
			return m, nil
		}
		if !m.ctrl.CommitSearch(value) {
			return m, nil
		}
		// Filter changes re-fetch the page the user is on.
		return m, m.fetch(m.ctrl.Page)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m DashboardModel) busy() bool {
	return m.ctrl.Phase == tasklist.ListLoading ||
		m.ctrl.SavePhase == tasklist.MutationSubmitting ||
		m.ctrl.DeletePhase == tasklist.MutationSubmitting
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	// Overlays capture the keyboard, most intrusive first.
	if m.ctrl.FormOpen {
		return m.handleFormKey(msg)
	}
	if m.ctrl.PendingDelete != nil {
		return m.handleConfirmKey(msg)
	}
	if m.detail {
		switch msg.String() {
		case "esc", "enter", "v", "q":
			m.detail = false
		}
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.ctrl.Tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if page, ok := m.ctrl.PrevPage(); ok {
			return m, m.fetch(page)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if page, ok := m.ctrl.NextPage(); ok {
			return m, m.fetch(page)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Category):
		return m.toggleCategory(msg.String())

	case key.Matches(msg, m.keys.New):
		m.ctrl.OpenCreate()
		return m, m.form.Open()

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.ctrl.OpenEdit(t)
			return m, m.form.Open()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.ctrl.RequestDelete(t)
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.selected(); ok {
			m.detail = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return LogoutMsg{} }
	}

	return m, nil
}

func (m DashboardModel) handleFormKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	var (
		cmd    tea.Cmd
		action formAction
	)
	m.form, cmd, action = m.form.Update(msg)

	switch action {
	case formCancel:
		m.ctrl.CloseForm()
		return m, nil
	case formSubmit:
		s, ok := m.ctrl.BeginSave()
		if !ok {
			return m, m.expiredCmd()
		}
		ctrl := m.ctrl
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			return saveDoneMsg{res: ctrl.ExecuteSave(context.Background(), s)}
		})
	}
	return m, cmd
}

func (m DashboardModel) handleConfirmKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		d, ok := m.ctrl.BeginDelete()
		if !ok {
			return m, m.expiredCmd()
		}
		ctrl := m.ctrl
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			return deleteDoneMsg{res: ctrl.ExecuteDelete(context.Background(), d)}
		})
	case "n", "esc":
		m.ctrl.CancelDelete()
	}
	return m, nil
}

func (m DashboardModel) handleSearchKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		if m.ctrl.CommitSearch(m.search.Value()) {
			return m, m.fetch(m.ctrl.Page)
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		return m, tea.Batch(cmd, m.deb.Input(v))
	}
	return m, cmd
}

func (m *DashboardModel) toggleCategory(k string) (DashboardModel, tea.Cmd) {
	cats := map[string]api.Category{
		"1": api.CategoryPersonal,
		"2": api.CategoryHome,
		"3": api.CategoryOffice,
	}
	cat, ok := cats[k]
	if !ok {
		return *m, nil
	}
	m.ctrl.ToggleCategory(string(cat))
	return *m, m.fetch(m.ctrl.Page)
}

func (m DashboardModel) selected() (api.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.ctrl.Tasks) {
		return api.Task{}, false
	}
	return m.ctrl.Tasks[m.cursor], true
}

func (m *DashboardModel) clampCursor() {
	if n := len(m.ctrl.Tasks); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m DashboardModel) View() string {
	if m.ctrl.FormOpen {
		return m.center(m.form.View())
	}
	if m.ctrl.PendingDelete != nil {
		return m.center(m.confirmView())
	}
	if m.detail {
		if t, ok := m.selected(); ok {
			return m.center(m.detailView(t))
		}
	}
	return m.listView()
}

func (m DashboardModel) center(card string) string {
	if m.width > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}

func (m DashboardModel) listView() string {
	s := m.styles

	title := s.Title.Render("Taskdeck")
	if m.busy() {
		title += "  " + m.spin.View()
	}

	var rows []string
	if m.searching || m.search.Value() != "" {
		rows = append(rows, m.search.View(), "")
	}

	switch m.ctrl.Phase {
	case tasklist.ListFailed:
		rows = append(rows, s.Error.Render(m.ctrl.ListError))
	case tasklist.ListLoading:
		if len(m.ctrl.Tasks) == 0 {
			rows = append(rows, s.Muted.Render("Loading tasks..."))
		} else {
			rows = append(rows, m.taskRows()...)
		}
	default:
		if len(m.ctrl.Tasks) == 0 {
			rows = append(rows, s.Muted.Render("No tasks found. Press n to create one."))
		} else {
			rows = append(rows, m.taskRows()...)
		}
	}

	rows = append(rows, "")
	if m.ctrl.ListError != "" && m.ctrl.Phase != tasklist.ListFailed {
		rows = append(rows, s.Error.Render(m.ctrl.ListError))
	}

	rows = append(rows,
		m.pager.View()+"  "+s.Muted.Render(fmt.Sprintf("page %d/%d  •  %d tasks",
			m.ctrl.Page, m.ctrl.PageCount(), m.ctrl.Total)))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.categorySidebar(),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	width := lipgloss.Width(body)
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			s.RenderDivider(width),
			body,
			"",
			s.Help.Render(m.help.View(m.keys)),
		))
}

// categorySidebar lists the category toggles with the active one highlighted.
func (m DashboardModel) categorySidebar() string {
	s := m.styles

	items := make([]string, 0, len(api.Categories())+2)
	items = append(items, s.FieldLabel.Render("Categories"))
	if m.ctrl.Category == "" {
		items = append(items, s.SidebarSelected.Render("All"))
	} else {
		items = append(items, s.SidebarItem.Render("All"))
	}
	for i, cat := range api.Categories() {
		label := fmt.Sprintf("[%d] %s", i+1, cat)
		if m.ctrl.Category == string(cat) {
			items = append(items, s.SidebarSelected.Render(label))
		} else {
			items = append(items, s.SidebarItem.Render(label))
		}
	}
	return s.Sidebar.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m DashboardModel) taskRows() []string {
	s := m.styles

	rows := make([]string, 0, len(m.ctrl.Tasks))
	for i, t := range m.ctrl.Tasks {
		marker := "  "
		if i == m.cursor {
			marker = s.TaskSelected.Render("» ")
		}

		titleStyle := s.TaskRow
		if i == m.cursor {
			titleStyle = s.TaskSelected
		}
		if t.Status == api.StatusCompleted {
			titleStyle = s.TaskDone
		}

		rows = append(rows, marker+m.statusIcon(t.Status)+" "+
			titleStyle.Render(t.Title)+m.badges(t))
	}
	return rows
}

func (m DashboardModel) statusIcon(st api.Status) string {
	switch st {
	case api.StatusCompleted:
		return m.styles.Success.Render("[x]")
	case api.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

func (m DashboardModel) badges(t api.Task) string {
	s := m.styles

	out := ""
	switch t.Priority {
	case api.PriorityHigh:
		out += s.BadgeHigh.Render("high")
	case api.PriorityMedium:
		out += s.BadgeMedium.Render("medium")
	case api.PriorityLow:
		out += s.BadgeLow.Render("low")
	}
	if t.Category != "" {
		out += s.BadgeCategory.Render(string(t.Category))
	}
	if t.DueDate != nil {
		out += s.BadgeDue.Render("due " + t.DueDate.Local().Format("Jan 2"))
	}
	if out == "" {
		return ""
	}
	return "  " + out
}

func (m DashboardModel) confirmView() string {
	s := m.styles
	t := m.ctrl.PendingDelete

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Delete Task"),
		"",
		"Are you sure you want to delete "+s.Bold.Render(t.Title)+"?",
		s.Muted.Render("This action cannot be undone."),
		"",
		s.Error.Render("[y] Delete")+"  "+s.Muted.Render("[n] Cancel"),
	)
	return s.Overlay.Render(body)
}

func (m DashboardModel) detailView(t api.Task) string {
	s := m.styles

	var rows []string
	rows = append(rows, s.Title.Render(t.Title), "")

	meta := m.statusIcon(t.Status) + " " + string(t.Status)
	if t.Category != "" {
		meta += "  •  " + string(t.Category)
	}
	if t.Priority != "" {
		meta += "  •  " + string(t.Priority) + " priority"
	}
	rows = append(rows, s.Muted.Render(meta))

	if t.DueDate != nil {
		rows = append(rows, s.BadgeDue.Render("due "+validate.FormatDueDate(t.DueDate.Local())))
	}
	rows = append(rows, "")

	if t.Description != "" {
		rows = append(rows, m.renderMarkdown(t.Description))
	} else {
		rows = append(rows, s.Muted.Render("No description."))
	}

	rows = append(rows, "", s.Muted.Render("[esc] Back"))
	return s.Overlay.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderMarkdown pretty-prints a task description, falling back to the raw
// text when rendering fails.
func (m DashboardModel) renderMarkdown(text string) string {
	width := 60
	if m.width > 0 && m.width-12 < width {
		width = m.width - 12
	}

	style := glamour.WithStandardStyle("dark")
	if !m.styles.Theme.IsDark {
		style = glamour.WithStandardStyle("light")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		m.log.Warn("markdown renderer init failed", zap.Error(err))
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		m.log.Warn("markdown render failed", zap.Error(err))
		return text
	}
	return out
}
