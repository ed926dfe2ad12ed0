// Package auth drives the login and registration flows: local validation,
// the credential exchange with the remote service, and persisting the
// issued session token.
package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/session"
	"taskdeck/internal/validate"
)

const (
	msgLoginFailed    = "Login failed. Please check your credentials."
	msgRegisterFailed = "Registration failed. Please try again."
	msgOffline        = "Unable to connect to server. Please try again later."
)

// Result is the outcome of a login or registration attempt. Exactly one of
// Ok, Message, or FieldErrors is meaningful: Ok on success, FieldErrors
// when local validation blocked the request, Message otherwise.
type Result struct {
	Ok          bool
	Message     string
	FieldErrors map[string]string
}

// Flow holds the dependencies of the auth screens.
type Flow struct {
	client *api.Client
	store  *session.Store
	log    *zap.Logger
}

// NewFlow creates a Flow. A nil logger is replaced with a no-op logger.
func NewFlow(client *api.Client, store *session.Store, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{client: client, store: store, log: log}
}

// Login exchanges credentials for a token and persists it with the
// standard 7-day TTL. On success the caller transitions to the dashboard.
func (f *Flow) Login(ctx context.Context, email, password string) Result {
	token, err := f.client.Login(ctx, email, password)
	if err != nil {
		f.log.Info("login failed", zap.Error(err))
		return Result{Message: api.UserMessage(err, msgLoginFailed, msgOffline)}
	}

	if err := f.store.SetToken(token); err != nil {
		f.log.Warn("failed to persist session token", zap.Error(err))
	}
	f.log.Info("login succeeded")
	return Result{Ok: true}
}

// Register validates the form locally first; a failure returns the field
// map without any request. On success the issued token is persisted but the
// caller transitions to the login view, not the dashboard.
func (f *Flow) Register(ctx context.Context, form validate.RegistrationForm) Result {
	if errs := validate.Registration(form); len(errs) > 0 {
		return Result{FieldErrors: errs}
	}

	token, err := f.client.Register(ctx,
		strings.TrimSpace(form.Name),
		strings.TrimSpace(form.Email),
		form.Password)
	if err != nil {
		f.log.Info("registration failed", zap.Error(err))
		return Result{Message: api.UserMessage(err, msgRegisterFailed, msgOffline)}
	}

	if err := f.store.SetToken(token); err != nil {
		f.log.Warn("failed to persist session token", zap.Error(err))
	}
	f.log.Info("registration succeeded")
	return Result{Ok: true}
}
