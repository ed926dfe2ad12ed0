// Package api implements the HTTP client for the remote task-management
// service: authentication, task listing with pagination and filters, and
// task mutations. The server is authoritative for all task state; callers
// hold at most one page of results at a time.
package api

import "time"

// Category is the fixed set of task categories the service accepts.
type Category string

const (
	CategoryPersonal Category = "Personal"
	CategoryHome     Category = "Home"
	CategoryOffice   Category = "Office"
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{CategoryPersonal, CategoryHome, CategoryOffice}
}

// ValidCategory reports whether s is one of the fixed categories.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryPersonal, CategoryHome, CategoryOffice:
		return true
	}
	return false
}

// Priority is a task priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities returns all priority levels in ascending order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Status is a task lifecycle status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses returns all statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// Task is a work item owned by the remote service. The ID is assigned
// server-side; clients never invent one.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
}

// TaskInput is the request body for creating or updating a task.
// Optional fields are omitted entirely rather than sent empty.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    Category   `json:"category"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
}

// Pagination describes one server page. Page is 1-based.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TaskPage is the response of the task listing endpoint.
type TaskPage struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// ListQuery selects a page of tasks. Search and Category are omitted from
// the request when empty; the server treats absence as "no filter".
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
}
