package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegistrationForm {
	return RegistrationForm{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		AgreeToTerms:    true,
	}
}

func TestRegistrationValid(t *testing.T) {
	errs := Registration(validRegistration())
	assert.Empty(t, errs)
}

func TestRegistrationFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegistrationForm)
		field   string
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(f *RegistrationForm) { f.Name = "   " },
			field:   "name",
			message: "Full name is required",
		},
		{
			name:    "short name",
			mutate:  func(f *RegistrationForm) { f.Name = "A" },
			field:   "name",
			message: "Name must be at least 2 characters",
		},
		{
			name:    "short multibyte name counts characters not bytes",
			mutate:  func(f *RegistrationForm) { f.Name = "é" },
			field:   "name",
			message: "Name must be at least 2 characters",
		},
		{
			name:    "missing email",
			mutate:  func(f *RegistrationForm) { f.Email = "" },
			field:   "email",
			message: "Email is required",
		},
		{
			name:    "malformed email",
			mutate:  func(f *RegistrationForm) { f.Email = "not-an-email" },
			field:   "email",
			message: "Please enter a valid email address",
		},
		{
			name:    "email without tld",
			mutate:  func(f *RegistrationForm) { f.Email = "ada@example" },
			field:   "email",
			message: "Please enter a valid email address",
		},
		{
			name:    "missing password",
			mutate:  func(f *RegistrationForm) { f.Password = "" },
			field:   "password",
			message: "Password is required",
		},
		{
			name:    "short password",
			mutate:  func(f *RegistrationForm) { f.Password = "12345"; f.ConfirmPassword = "12345" },
			field:   "password",
			message: "Password must be at least 6 characters",
		},
		{
			name:    "missing confirmation",
			mutate:  func(f *RegistrationForm) { f.ConfirmPassword = "" },
			field:   "confirmPassword",
			message: "Please confirm your password",
		},
		{
			name:    "mismatched confirmation",
			mutate:  func(f *RegistrationForm) { f.ConfirmPassword = "different" },
			field:   "confirmPassword",
			message: "Passwords do not match",
		},
		{
			name:    "terms not accepted",
			mutate:  func(f *RegistrationForm) { f.AgreeToTerms = false },
			field:   "terms",
			message: "You must agree to the Terms of Service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegistration()
			tt.mutate(&form)
			errs := Registration(form)
			assert.Equal(t, tt.message, errs[tt.field])
		})
	}
}

func TestRegistrationReportsAllFields(t *testing.T) {
	errs := Registration(RegistrationForm{})
	assert.Len(t, errs, 5)
}

func TestParseDueDateFormats(t *testing.T) {
	got, err := ParseDueDate("2026-09-15T14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 14, 30, 0, 0, time.Local), got)

	got, err = ParseDueDate("2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local), got)

	_, err = ParseDueDate("15/09/2026")
	assert.Error(t, err)
}

func TestFormatDueDateRoundTrip(t *testing.T) {
	in := "2026-09-15T14:30"
	parsed, err := ParseDueDate(in)
	require.NoError(t, err)
	assert.Equal(t, in, FormatDueDate(parsed))
}

func TestTaskDraft(t *testing.T) {
	now := time.Date(2026, 9, 1, 13, 45, 0, 0, time.Local)

	tests := []struct {
		name string
		form TaskForm
		want map[string]string
	}{
		{
			name: "valid minimal",
			form: TaskForm{Title: "Buy milk", Category: "Home"},
			want: map[string]string{},
		},
		{
			name: "missing title",
			form: TaskForm{Category: "Home"},
			want: map[string]string{"title": "Title is required"},
		},
		{
			name: "short title",
			form: TaskForm{Title: "ab", Category: "Home"},
			want: map[string]string{"title": "Title must be at least 3 characters"},
		},
		{
			name: "short multibyte title counts characters not bytes",
			form: TaskForm{Title: "aé", Category: "Home"},
			want: map[string]string{"title": "Title must be at least 3 characters"},
		},
		{
			name: "three multibyte characters are enough",
			form: TaskForm{Title: "café", Category: "Home"},
			want: map[string]string{},
		},
		{
			name: "bad date",
			form: TaskForm{Title: "Buy milk", Category: "Home", DueDate: "tomorrow"},
			want: map[string]string{"dueDate": "Invalid date format"},
		},
		{
			name: "past date",
			form: TaskForm{Title: "Buy milk", Category: "Home", DueDate: "2026-08-31"},
			want: map[string]string{"dueDate": "Due date cannot be in the past"},
		},
		{
			name: "due today is allowed",
			form: TaskForm{Title: "Buy milk", Category: "Home", DueDate: "2026-09-01"},
			want: map[string]string{},
		},
		{
			name: "unknown category",
			form: TaskForm{Title: "Buy milk", Category: "Work"},
			want: map[string]string{"category": "Category is required"},
		},
		{
			name: "empty category",
			form: TaskForm{Title: "Buy milk"},
			want: map[string]string{"category": "Category is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TaskDraft(tt.form, now))
		})
	}
}
