package ui

// Navigation messages emitted by pages and consumed by the app model.

// ShowRegisterMsg asks the app to present the registration page.
type ShowRegisterMsg struct{}

// ShowLoginMsg asks the app to present the login page.
type ShowLoginMsg struct{}

// AuthSuccessMsg reports a successful login; the app presents the dashboard.
type AuthSuccessMsg struct{}

// RegisterDoneMsg reports a successful registration. The app presents the
// login page: the token was stored, but the flow still lands on sign-in.
type RegisterDoneMsg struct{}

// SessionExpiredMsg reports that the server invalidated the session. The
// app presents the login page with a notice.
type SessionExpiredMsg struct {
	Notice string
}

// LogoutMsg asks the app to clear the session and present the login page.
type LogoutMsg struct{}
