// Package tasklist owns the dashboard's client-side state: the current page
// of tasks, pagination, filter and search selections, the task draft, and
// an explicit phase per remote operation. The remote service stays
// authoritative; every successful mutation re-fetches the current page
// instead of merging optimistically.
//
// The controller is split along the TUI's concurrency seam: Begin* methods
// run guards and transitions on the update goroutine and hand back an
// immutable request value; Execute* methods perform the blocking HTTP call
// and are safe to run from a background goroutine; Apply* methods reconcile
// the result back into state on the update goroutine.
package tasklist

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/session"
	"taskdeck/internal/validate"
)

// User-facing messages, kept identical across surfaces.
const (
	msgAuthRequired   = "Authentication required"
	msgSessionExpired = "Session expired. Please login again."
	msgOffline        = "Unable to connect to server"

	msgFetchFailed  = "Failed to fetch tasks"
	msgCreateFailed = "Failed to create task"
	msgUpdateFailed = "Failed to update task"
	msgDeleteFailed = "Failed to delete task"
)

// ListPhase is the lifecycle of the task listing.
type ListPhase int

const (
	ListIdle ListPhase = iota
	ListLoading
	ListLoaded
	ListFailed
)

// MutationPhase is the lifecycle of one mutation kind. Submitting while
// already submitting is unrepresentable: Begin* refuses to start.
type MutationPhase int

const (
	MutationIdle MutationPhase = iota
	MutationSubmitting
)

// Draft is the client-local, not-yet-submitted task form state. DueDate is
// the form's text representation (see validate.ParseDueDate).
type Draft struct {
	Title       string
	Description string
	DueDate     string
	Category    api.Category
	Priority    api.Priority
	Status      api.Status
}

// NewDraft returns the form's default shape.
func NewDraft() Draft {
	return Draft{
		Category: api.CategoryPersonal,
		Priority: api.PriorityMedium,
		Status:   api.StatusPending,
	}
}

// Controller is the dashboard state machine. It must only be mutated from
// a single goroutine (the TUI update loop); Execute* methods are the one
// exception and read nothing mutable.
type Controller struct {
	client *api.Client
	store  *session.Store
	log    *zap.Logger
	now    func() time.Time

	// Listing state.
	Tasks    []api.Task
	Page     int
	Limit    int
	Total    int
	Search   string
	Category string

	Phase     ListPhase
	ListError string

	// Draft / form state. EditingID is empty when creating.
	Draft       Draft
	EditingID   string
	FormOpen    bool
	FormError   string
	FieldErrors map[string]string
	SavePhase   MutationPhase

	// Delete confirmation state.
	PendingDelete *api.Task
	DeletePhase   MutationPhase

	sessionExpired bool
	fetchSeq       int
}

// New creates a controller starting at page 1 with the given page size.
func New(client *api.Client, store *session.Store, log *zap.Logger, pageSize int) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Controller{
		client: client,
		store:  store,
		log:    log,
		now:    time.Now,
		Page:   1,
		Limit:  pageSize,
		Draft:  NewDraft(),
	}
}

// SessionExpired reports whether an operation invalidated the session and
// clears the flag, so the app transitions to the login view exactly once.
func (c *Controller) SessionExpired() bool {
	expired := c.sessionExpired
	c.sessionExpired = false
	return expired
}

func (c *Controller) expireSession() {
	c.sessionExpired = true
}

// handleError maps a failed operation onto a user-facing message. A 401
// clears the whole session store and flags the session as expired, which
// supersedes every other error path for that response.
func (c *Controller) handleError(err error, fallback string) string {
	if errors.Is(err, api.ErrUnauthorized) {
		if cerr := c.store.Clear(); cerr != nil {
			c.log.Warn("failed to clear session store", zap.Error(cerr))
		}
		c.expireSession()
		return msgSessionExpired
	}
	return api.UserMessage(err, fallback, msgOffline)
}

// --- Fetch ---

// Fetch is a prepared listing request. Seq orders overlapping fetches so a
// late-arriving stale response cannot clobber a newer one.
type Fetch struct {
	Seq      int
	Page     int
	Limit    int
	Search   string
	Category string

	token string
}

// FetchResult pairs a finished fetch with its outcome.
type FetchResult struct {
	Fetch Fetch
	Page  *api.TaskPage
	Err   error
}

// BeginFetch starts a listing request for the given page. When no token is
// stored it short-circuits without a request: the list errors with an
// authentication notice and the session is flagged expired.
func (c *Controller) BeginFetch(page, limit int) (Fetch, bool) {
	token, ok := c.store.Token()
	if !ok {
		c.Phase = ListFailed
		c.ListError = msgAuthRequired
		c.expireSession()
		return Fetch{}, false
	}

	c.Phase = ListLoading
	c.ListError = ""
	c.fetchSeq++
	return Fetch{
		Seq:      c.fetchSeq,
		Page:     page,
		Limit:    limit,
		Search:   c.Search,
		Category: c.Category,
		token:    token,
	}, true
}

// ExecuteFetch performs the HTTP call for a prepared fetch. Safe to run
// from a background goroutine.
func (c *Controller) ExecuteFetch(ctx context.Context, f Fetch) FetchResult {
	page, err := c.client.ListTasks(ctx, f.token, api.ListQuery{
		Page:     f.Page,
		Limit:    f.Limit,
		Search:   f.Search,
		Category: f.Category,
	})
	return FetchResult{Fetch: f, Page: page, Err: err}
}

// ApplyFetch reconciles a fetch result. Stale results (superseded by a
// newer BeginFetch) are dropped; the later request wins.
func (c *Controller) ApplyFetch(r FetchResult) {
	if r.Fetch.Seq != c.fetchSeq {
		c.log.Debug("dropping stale fetch result",
			zap.Int("seq", r.Fetch.Seq), zap.Int("latest", c.fetchSeq))
		return
	}

	if r.Err != nil {
		c.Phase = ListFailed
		c.ListError = c.handleError(r.Err, msgFetchFailed)
		c.log.Warn("task fetch failed", zap.Error(r.Err))
		return
	}

	c.Phase = ListLoaded
	c.Tasks = r.Page.Tasks
	if c.Tasks == nil {
		c.Tasks = []api.Task{}
	}

	// Pagination falls back to what was requested when the server omits it.
	c.Page = r.Page.Pagination.Page
	if c.Page == 0 {
		c.Page = r.Fetch.Page
	}
	c.Limit = r.Page.Pagination.Limit
	if c.Limit == 0 {
		c.Limit = r.Fetch.Limit
	}
	c.Total = r.Page.Pagination.Total

	c.log.Debug("task page loaded",
		zap.Int("page", c.Page), zap.Int("count", len(c.Tasks)), zap.Int("total", c.Total))
}

// --- Filters and pagination ---

// ToggleCategory selects cat, or clears the selection when cat is already
// selected. The caller re-fetches; the page deliberately stays where it is.
func (c *Controller) ToggleCategory(cat string) {
	if c.Category == cat {
		c.Category = ""
		return
	}
	c.Category = cat
}

// CommitSearch installs a debounce-settled search value. Returns false when
// the value is unchanged and no fetch is needed.
func (c *Controller) CommitSearch(s string) bool {
	if c.Search == s {
		return false
	}
	c.Search = s
	return true
}

// PageCount returns ceil(Total/Limit), at least 1.
func (c *Controller) PageCount() int {
	if c.Limit <= 0 || c.Total <= 0 {
		return 1
	}
	n := (c.Total + c.Limit - 1) / c.Limit
	if n < 1 {
		n = 1
	}
	return n
}

// NextPage returns the page to fetch for a forward move, ok=false at the end.
func (c *Controller) NextPage() (int, bool) {
	if c.Page >= c.PageCount() {
		return c.Page, false
	}
	return c.Page + 1, true
}

// PrevPage returns the page to fetch for a backward move, ok=false at page 1.
func (c *Controller) PrevPage() (int, bool) {
	if c.Page <= 1 {
		return c.Page, false
	}
	return c.Page - 1, true
}

// --- Draft / form ---

// OpenCreate opens the form with a fresh draft.
func (c *Controller) OpenCreate() {
	c.Draft = NewDraft()
	c.EditingID = ""
	c.FormOpen = true
	c.FormError = ""
	c.FieldErrors = nil
}

// OpenEdit opens the form pre-filled from an existing task and records its
// id so submission uses the update protocol.
func (c *Controller) OpenEdit(t api.Task) {
	d := NewDraft()
	d.Title = t.Title
	d.Description = t.Description
	if t.DueDate != nil {
		d.DueDate = validate.FormatDueDate(*t.DueDate)
	}
	if t.Category != "" {
		d.Category = t.Category
	}
	if t.Priority != "" {
		d.Priority = t.Priority
	}
	if t.Status != "" {
		d.Status = t.Status
	}

	c.Draft = d
	c.EditingID = t.ID
	c.FormOpen = true
	c.FormError = ""
	c.FieldErrors = nil
}

// CloseForm abandons the draft without a request.
func (c *Controller) CloseForm() {
	c.Draft = NewDraft()
	c.EditingID = ""
	c.FormOpen = false
	c.FormError = ""
	c.FieldErrors = nil
}

// ClearFieldError drops the validation message for one field as the user
// edits it; the full map is recomputed on the next submit.
func (c *Controller) ClearFieldError(field string) {
	delete(c.FieldErrors, field)
}

// Editing reports whether the form targets an existing task.
func (c *Controller) Editing() bool {
	return c.EditingID != ""
}

// --- Create / update ---

// Save is a prepared create or update request. EditingID selects the verb.
type Save struct {
	EditingID string
	Input     api.TaskInput

	token string
}

// SaveResult pairs a finished save with its outcome.
type SaveResult struct {
	Save Save
	Task *api.Task
	Err  error
}

// BeginSave validates the draft and, if it passes, prepares the request.
// Validation failure populates FieldErrors and issues no request. A save
// already in flight also refuses to start.
func (c *Controller) BeginSave() (Save, bool) {
	if c.SavePhase == MutationSubmitting {
		return Save{}, false
	}

	c.FormError = ""
	c.FieldErrors = nil

	errs := validate.TaskDraft(validate.TaskForm{
		Title:    c.Draft.Title,
		DueDate:  c.Draft.DueDate,
		Category: string(c.Draft.Category),
	}, c.now())
	if len(errs) > 0 {
		c.FieldErrors = errs
		return Save{}, false
	}

	token, ok := c.store.Token()
	if !ok {
		c.FormError = msgAuthRequired
		c.expireSession()
		return Save{}, false
	}

	in := api.TaskInput{
		Title:       strings.TrimSpace(c.Draft.Title),
		Description: strings.TrimSpace(c.Draft.Description),
		Category:    c.Draft.Category,
		Status:      c.Draft.Status,
		Priority:    c.Draft.Priority,
	}
	if c.Draft.DueDate != "" {
		due, err := validate.ParseDueDate(c.Draft.DueDate)
		if err != nil {
			// Unreachable after validation; keep the form open regardless.
			c.FieldErrors = map[string]string{"dueDate": "Invalid date format"}
			return Save{}, false
		}
		dueUTC := due.UTC()
		in.DueDate = &dueUTC
	}

	c.SavePhase = MutationSubmitting
	return Save{EditingID: c.EditingID, Input: in, token: token}, true
}

// ExecuteSave performs the create or update call. Safe to run from a
// background goroutine.
func (c *Controller) ExecuteSave(ctx context.Context, s Save) SaveResult {
	var (
		task *api.Task
		err  error
	)
	if s.EditingID != "" {
		task, err = c.client.UpdateTask(ctx, s.token, s.EditingID, s.Input)
	} else {
		task, err = c.client.CreateTask(ctx, s.token, s.Input)
	}
	return SaveResult{Save: s, Task: task, Err: err}
}

// ApplySave reconciles a save result. On success the draft resets, the form
// closes, and the caller should re-fetch the current page; on failure the
// form stays open for correction.
func (c *Controller) ApplySave(r SaveResult) (refetch bool) {
	c.SavePhase = MutationIdle

	if r.Err != nil {
		fallback := msgCreateFailed
		if r.Save.EditingID != "" {
			fallback = msgUpdateFailed
		}
		c.FormError = c.handleError(r.Err, fallback)
		c.log.Warn("task save failed",
			zap.String("task_id", r.Save.EditingID), zap.Error(r.Err))
		return false
	}

	c.Draft = NewDraft()
	c.EditingID = ""
	c.FormOpen = false
	c.FieldErrors = nil
	return true
}

// --- Delete ---

// Delete is a prepared delete request.
type Delete struct {
	ID string

	token string
}

// DeleteResult pairs a finished delete with its outcome.
type DeleteResult struct {
	Delete Delete
	Err    error
}

// RequestDelete arms the confirmation prompt for t. No request is made
// until ConfirmDelete.
func (c *Controller) RequestDelete(t api.Task) {
	copied := t
	c.PendingDelete = &copied
}

// CancelDelete disarms the prompt without a request.
func (c *Controller) CancelDelete() {
	c.PendingDelete = nil
}

// BeginDelete prepares the delete for the pending task, refusing when
// nothing is pending or a delete is already in flight.
func (c *Controller) BeginDelete() (Delete, bool) {
	if c.PendingDelete == nil || c.DeletePhase == MutationSubmitting {
		return Delete{}, false
	}

	token, ok := c.store.Token()
	if !ok {
		c.ListError = msgAuthRequired
		c.expireSession()
		c.PendingDelete = nil
		return Delete{}, false
	}

	c.DeletePhase = MutationSubmitting
	return Delete{ID: c.PendingDelete.ID, token: token}, true
}

// ExecuteDelete performs the delete call. Safe to run from a background
// goroutine.
func (c *Controller) ExecuteDelete(ctx context.Context, d Delete) DeleteResult {
	return DeleteResult{Delete: d, Err: c.client.DeleteTask(ctx, d.token, d.ID)}
}

// ApplyDelete reconciles a delete result. The confirmation prompt clears on
// every outcome; only success triggers a re-fetch.
func (c *Controller) ApplyDelete(r DeleteResult) (refetch bool) {
	c.DeletePhase = MutationIdle
	c.PendingDelete = nil

	if r.Err != nil {
		c.ListError = c.handleError(r.Err, msgDeleteFailed)
		c.log.Warn("task delete failed",
			zap.String("task_id", r.Delete.ID), zap.Error(r.Err))
		return false
	}
	return true
}
