// Package validate holds the pure form validators for the registration and
// task forms. Validators never mutate their input and never touch the
// network; an empty result map means the form may be submitted.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"taskdeck/internal/api"
)

// emailPattern is the deliberately loose local@domain.tld shape; real
// verification is the server's job.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegistrationForm is the raw state of the sign-up form.
type RegistrationForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	AgreeToTerms    bool
}

// Registration checks the sign-up form and returns field-keyed messages.
// Keys: name, email, password, confirmPassword, terms.
func Registration(f RegistrationForm) map[string]string {
	errs := make(map[string]string)

	switch {
	case strings.TrimSpace(f.Name) == "":
		errs["name"] = "Full name is required"
	case utf8.RuneCountInString(strings.TrimSpace(f.Name)) < 2:
		errs["name"] = "Name must be at least 2 characters"
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(f.Email):
		errs["email"] = "Please enter a valid email address"
	}

	switch {
	case f.Password == "":
		errs["password"] = "Password is required"
	case len(f.Password) < 6:
		errs["password"] = "Password must be at least 6 characters"
	}

	switch {
	case f.ConfirmPassword == "":
		errs["confirmPassword"] = "Please confirm your password"
	case f.Password != f.ConfirmPassword:
		errs["confirmPassword"] = "Passwords do not match"
	}

	if !f.AgreeToTerms {
		errs["terms"] = "You must agree to the Terms of Service"
	}

	return errs
}

// Due-date input formats accepted by the task form, tried in order.
var dueDateFormats = []string{
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate parses the task form's date input.
func ParseDueDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dueDateFormats {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// FormatDueDate renders a stored timestamp back into the form's input
// representation, the inverse of ParseDueDate's primary format.
func FormatDueDate(t time.Time) string {
	return t.Local().Format("2006-01-02T15:04")
}

// TaskForm is the raw state of the create/edit task form. DueDate is the
// form's text representation, not a parsed timestamp.
type TaskForm struct {
	Title       string
	Description string
	DueDate     string
	Category    string
}

// TaskDraft checks a task form against "now". The due date may be today
// (time-of-day is zeroed for the comparison) but not earlier.
// Keys: title, dueDate, category.
func TaskDraft(f TaskForm, now time.Time) map[string]string {
	errs := make(map[string]string)

	switch {
	case strings.TrimSpace(f.Title) == "":
		errs["title"] = "Title is required"
	case utf8.RuneCountInString(strings.TrimSpace(f.Title)) < 3:
		errs["title"] = "Title must be at least 3 characters"
	}

	if f.DueDate != "" {
		due, err := ParseDueDate(f.DueDate)
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		switch {
		case err != nil:
			errs["dueDate"] = "Invalid date format"
		case due.Before(today):
			errs["dueDate"] = "Due date cannot be in the past"
		}
	}

	if !api.ValidCategory(f.Category) {
		errs["category"] = "Category is required"
	}

	return errs
}
