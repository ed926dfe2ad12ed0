package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"taskdeck/cmd/taskdeck/ui"
	"taskdeck/internal/api"
	"taskdeck/internal/auth"
	"taskdeck/internal/session"
	"taskdeck/internal/tasklist"
)

// page identifies which top-level view owns the screen.
type page int

const (
	pageLogin page = iota
	pageRegister
	pageDashboard
)

// appModel routes between the login, register, and dashboard pages. A stored
// token skips straight to the dashboard; any page can route back to login by
// emitting the matching navigation message.
type appModel struct {
	client *api.Client
	store  *session.Store
	flow   *auth.Flow
	styles ui.Styles
	log    *zap.Logger

	pageSize int
	active   page

	login     ui.LoginModel
	register  ui.RegisterModel
	dashboard ui.DashboardModel

	width  int
	height int
}

func newAppModel(client *api.Client, store *session.Store, styles ui.Styles, log *zap.Logger, pageSize int) appModel {
	m := appModel{
		client:   client,
		store:    store,
		flow:     auth.NewFlow(client, store, log),
		styles:   styles,
		log:      log,
		pageSize: pageSize,
	}

	if _, ok := store.Token(); ok {
		m.active = pageDashboard
		m.dashboard = m.newDashboard()
	} else {
		m.active = pageLogin
		m.login = ui.NewLogin(m.flow, styles, "")
	}
	return m
}

func (m appModel) newDashboard() ui.DashboardModel {
	ctrl := tasklist.New(m.client, m.store, m.log, m.pageSize)
	return ui.NewDashboard(ctrl, m.styles, m.log)
}

// Init implements tea.Model.
func (m appModel) Init() tea.Cmd {
	switch m.active {
	case pageDashboard:
		return m.dashboard.Init()
	case pageRegister:
		return m.register.Init()
	default:
		return m.login.Init()
	}
}

// Update implements tea.Model.
func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Every page tracks the size so switches render correctly.
		m.login, _ = m.login.Update(msg)
		m.register, _ = m.register.Update(msg)
		m.dashboard, _ = m.dashboard.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case ui.ShowRegisterMsg:
		return m.switchTo(pageRegister, "")

	case ui.ShowLoginMsg:
		return m.switchTo(pageLogin, "")

	case ui.RegisterDoneMsg:
		// Registration lands on sign-in even though a token was stored.
		return m.switchTo(pageLogin, "")

	case ui.AuthSuccessMsg:
		return m.switchTo(pageDashboard, "")

	case ui.SessionExpiredMsg:
		m.log.Info("session expired, returning to login")
		return m.switchTo(pageLogin, msg.Notice)

	case ui.LogoutMsg:
		if err := m.store.Clear(); err != nil {
			m.log.Warn("failed to clear session on logout", zap.Error(err))
		}
		m.log.Info("logged out")
		return m.switchTo(pageLogin, "")
	}

	var cmd tea.Cmd
	switch m.active {
	case pageLogin:
		m.login, cmd = m.login.Update(msg)
	case pageRegister:
		m.register, cmd = m.register.Update(msg)
	case pageDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	}
	return m, cmd
}

// switchTo replaces the active page with a fresh model and runs its Init.
func (m appModel) switchTo(p page, notice string) (tea.Model, tea.Cmd) {
	m.active = p

	var init tea.Cmd
	switch p {
	case pageLogin:
		m.login = ui.NewLogin(m.flow, m.styles, notice)
		init = m.login.Init()
	case pageRegister:
		m.register = ui.NewRegister(m.flow, m.styles)
		init = m.register.Init()
	case pageDashboard:
		m.dashboard = m.newDashboard()
		init = m.dashboard.Init()
	}

	if m.width > 0 {
		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
		switch p {
		case pageLogin:
			m.login, _ = m.login.Update(size)
		case pageRegister:
			m.register, _ = m.register.Update(size)
		case pageDashboard:
			m.dashboard, _ = m.dashboard.Update(size)
		}
	}
	return m, init
}

// View implements tea.Model.
func (m appModel) View() string {
	switch m.active {
	case pageRegister:
		return m.register.View()
	case pageDashboard:
		return m.dashboard.View()
	default:
		return m.login.View()
	}
}
