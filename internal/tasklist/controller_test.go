package tasklist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"taskdeck/internal/api"
	"taskdeck/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// taskServer is a scriptable stand-in for the task service.
type taskServer struct {
	listStatus int
	listPage   api.TaskPage

	mutateStatus int
	mutateBody   map[string]any

	requests   atomic.Int64
	lastMethod string
	lastPath   string
}

func newTaskServer(t *testing.T) (*taskServer, string) {
	t.Helper()

	s := &taskServer{
		listStatus:   http.StatusOK,
		mutateStatus: http.StatusOK,
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.lastMethod = r.Method
		s.lastPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodGet {
			w.WriteHeader(s.listStatus)
			if s.listStatus == http.StatusOK {
				_ = json.NewEncoder(w).Encode(s.listPage)
			} else {
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
			}
			return
		}

		w.WriteHeader(s.mutateStatus)
		body := s.mutateBody
		if body == nil {
			body = map[string]any{"task": api.Task{ID: "t-new", Title: "created"}}
		}
		_ = json.NewEncoder(w).Encode(body)
	}

	r := mux.NewRouter()
	r.HandleFunc("/tasks", handler).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/tasks/{id}", handler).Methods(http.MethodPut, http.MethodDelete)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return s, ts.URL
}

func newController(t *testing.T, url string, withToken bool) (*Controller, *session.Store) {
	t.Helper()

	store := session.NewStore(t.TempDir())
	if withToken {
		require.NoError(t, store.SetToken("good-token"))
	}
	return New(api.New(url, nil), store, nil, 10), store
}

func somePage(tasks []api.Task, page, limit, total int) api.TaskPage {
	return api.TaskPage{
		Tasks:      tasks,
		Pagination: api.Pagination{Page: page, Limit: limit, Total: total},
	}
}

func runFetch(t *testing.T, c *Controller, page int) bool {
	t.Helper()
	f, ok := c.BeginFetch(page, c.Limit)
	if !ok {
		return false
	}
	c.ApplyFetch(c.ExecuteFetch(context.Background(), f))
	return true
}

func TestFetchLoadsPage(t *testing.T) {
	srv, url := newTaskServer(t)
	srv.listPage = somePage([]api.Task{
		{ID: "t1", Title: "Water plants", Category: api.CategoryHome},
		{ID: "t2", Title: "File taxes", Category: api.CategoryOffice},
	}, 1, 10, 2)
	c, _ := newController(t, url, true)

	require.True(t, runFetch(t, c, 1))

	assert.Equal(t, ListLoaded, c.Phase)
	assert.Len(t, c.Tasks, 2)
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, 2, c.Total)
	assert.Empty(t, c.ListError)
	assert.False(t, c.SessionExpired())
}

func TestFetchEmptyPageYieldsNonNilSlice(t *testing.T) {
	srv, url := newTaskServer(t)
	srv.listPage = somePage(nil, 1, 10, 0)
	c, _ := newController(t, url, true)

	require.True(t, runFetch(t, c, 1))

	assert.Equal(t, ListLoaded, c.Phase)
	assert.NotNil(t, c.Tasks)
	assert.Empty(t, c.Tasks)
}

func TestFetchWithoutTokenShortCircuits(t *testing.T) {
	srv, url := newTaskServer(t)
	c, _ := newController(t, url, false)

	assert.False(t, runFetch(t, c, 1))
	assert.Equal(t, ListFailed, c.Phase)
	assert.Equal(t, "Authentication required", c.ListError)
	assert.True(t, c.SessionExpired())
	assert.Zero(t, srv.requests.Load(), "no token means no request")
}

func TestFetchUnauthorizedClearsSessionOnce(t *testing.T) {
	srv, url := newTaskServer(t)
	srv.listStatus = http.StatusUnauthorized
	c, store := newController(t, url, true)

	require.True(t, runFetch(t, c, 1))

	assert.Equal(t, ListFailed, c.Phase)
	assert.Equal(t, "Session expired. Please login again.", c.ListError)

	_, ok := store.Token()
	assert.False(t, ok, "401 clears the stored session")

	assert.True(t, c.SessionExpired())
	assert.False(t, c.SessionExpired(), "the flag reads once")
}

func TestStaleFetchResultDropped(t *testing.T) {
	srv, url := newTaskServer(t)
	c, _ := newController(t, url, true)

	srv.listPage = somePage([]api.Task{{ID: "old", Title: "old"}}, 1, 10, 1)
	f1, ok := c.BeginFetch(1, 10)
	require.True(t, ok)
	r1 := c.ExecuteFetch(context.Background(), f1)

	srv.listPage = somePage([]api.Task{{ID: "new", Title: "new"}}, 2, 10, 11)
	f2, ok := c.BeginFetch(2, 10)
	require.True(t, ok)
	r2 := c.ExecuteFetch(context.Background(), f2)

	// The newer result lands first; the stale one must not clobber it.
	c.ApplyFetch(r2)
	c.ApplyFetch(r1)

	require.Len(t, c.Tasks, 1)
	assert.Equal(t, "new", c.Tasks[0].ID)
	assert.Equal(t, 2, c.Page)
}

func TestFetchPaginationFallsBackToRequest(t *testing.T) {
	srv, url := newTaskServer(t)
	srv.listPage = api.TaskPage{Tasks: []api.Task{{ID: "t1"}}}
	c, _ := newController(t, url, true)

	require.True(t, runFetch(t, c, 3))
	assert.Equal(t, 3, c.Page)
	assert.Equal(t, 10, c.Limit)
	assert.Zero(t, c.Total)
}

func TestToggleCategory(t *testing.T) {
	c := New(nil, nil, nil, 10)

	c.ToggleCategory("Home")
	assert.Equal(t, "Home", c.Category)

	c.ToggleCategory("Office")
	assert.Equal(t, "Office", c.Category)

	c.ToggleCategory("Office")
	assert.Empty(t, c.Category, "re-selecting clears the filter")
}

func TestCommitSearch(t *testing.T) {
	c := New(nil, nil, nil, 10)

	assert.True(t, c.CommitSearch("plants"))
	assert.False(t, c.CommitSearch("plants"), "unchanged value needs no fetch")
	assert.True(t, c.CommitSearch(""))
}

func TestPagination(t *testing.T) {
	c := New(nil, nil, nil, 10)
	c.Total = 35

	assert.Equal(t, 4, c.PageCount())

	_, ok := c.PrevPage()
	assert.False(t, ok, "page 1 has no previous")

	next, ok := c.NextPage()
	require.True(t, ok)
	assert.Equal(t, 2, next)

	c.Page = 4
	_, ok = c.NextPage()
	assert.False(t, ok, "last page has no next")

	prev, ok := c.PrevPage()
	require.True(t, ok)
	assert.Equal(t, 3, prev)
}

func TestPageCountNeverZero(t *testing.T) {
	c := New(nil, nil, nil, 10)
	assert.Equal(t, 1, c.PageCount())
}

func TestOpenEditPrefillsDraft(t *testing.T) {
	c := New(nil, nil, nil, 10)
	due := time.Date(2026, 9, 15, 14, 30, 0, 0, time.Local)

	c.OpenEdit(api.Task{
		ID:          "t1",
		Title:       "Water plants",
		Description: "every other day",
		DueDate:     &due,
		Category:    api.CategoryHome,
		Priority:    api.PriorityHigh,
		Status:      api.StatusInProgress,
	})

	assert.True(t, c.FormOpen)
	assert.True(t, c.Editing())
	assert.Equal(t, "Water plants", c.Draft.Title)
	assert.Equal(t, "2026-09-15T14:30", c.Draft.DueDate)
	assert.Equal(t, api.PriorityHigh, c.Draft.Priority)
}

func TestCloseFormResetsDraft(t *testing.T) {
	c := New(nil, nil, nil, 10)
	c.OpenEdit(api.Task{ID: "t1", Title: "Water plants"})

	c.CloseForm()
	assert.False(t, c.FormOpen)
	assert.False(t, c.Editing())
	assert.Equal(t, NewDraft(), c.Draft)
}

func TestBeginSaveValidationBlocksRequest(t *testing.T) {
	srv, url := newTaskServer(t)
	c, _ := newController(t, url, true)
	c.OpenCreate()
	c.Draft.Title = "ab" // too short

	_, ok := c.BeginSave()
	assert.False(t, ok)
	assert.Equal(t, "Title must be at least 3 characters", c.FieldErrors["title"])
	assert.Equal(t, MutationIdle, c.SavePhase)
	assert.Zero(t, srv.requests.Load())
}

func TestSaveCreateSuccess(t *testing.T) {
	srv, url := newTaskServer(t)
	srv.mutateStatus = http.StatusCreated
	c, _ := newController(t, url, true)

	c.OpenCreate()
	c.Draft.Title = "Water plants"
	c.Draft.DueDate = "2099-01-02"

	s, ok := c.BeginSave()
	require.True(t, ok)
	assert.Equal(t, MutationSubmitting, c.SavePhase)
	require.NotNil(t, s.Input.DueDate)
	assert.Equal(t, time.UTC, s.Input.DueDate.Location())

	refetch := c.ApplySave(c.ExecuteSave(context.Background(), s))
	assert.True(t, refetch)
	assert.False(t, c.FormOpen)
	assert.Equal(t, MutationIdle, c.SavePhase)
	assert.Equal(t, http.MethodPost, srv.lastMethod)
}

func TestSaveEditUsesUpdate(t *testing.T) {
	srv, url := newTaskServer(t)
	c, _ := newController(t, url, true)

	c.OpenEdit(api.Task{ID: "t1", Title: "Water plants", Category: api.CategoryHome})

	s, ok := c.BeginSave()
	require.True(t, ok)

	refetch := c.ApplySave(c.ExecuteSave(context.Background(), s))
	assert.True(t, refetch)
	assert.Equal(t, http.MethodPut, srv.lastMethod)
	assert.Equal(t, "/tasks/t1", srv.lastPath)
}

func TestSaveFailureKeepsFormOpen(t *testing.T) {
	srv, url := newTaskServer(t)
	srv.mutateStatus = http.StatusBadRequest
	srv.mutateBody = map[string]any{"error": "Title too long"}
	c, _ := newController(t, url, true)

	c.OpenCreate()
	c.Draft.Title = "Water plants"

	s, ok := c.BeginSave()
	require.True(t, ok)

	refetch := c.ApplySave(c.ExecuteSave(context.Background(), s))
	assert.False(t, refetch)
	assert.True(t, c.FormOpen, "failed save leaves the form open for correction")
	assert.Equal(t, "Title too long", c.FormError)
	assert.Equal(t, MutationIdle, c.SavePhase)
}

func TestSaveUnauthorizedExpiresSession(t *testing.T) {
	srv, url := newTaskServer(t)
	srv.mutateStatus = http.StatusUnauthorized
	c, store := newController(t, url, true)

	c.OpenCreate()
	c.Draft.Title = "Water plants"

	s, ok := c.BeginSave()
	require.True(t, ok)

	c.ApplySave(c.ExecuteSave(context.Background(), s))
	assert.Equal(t, "Session expired. Please login again.", c.FormError)
	assert.True(t, c.SessionExpired())

	_, tokOk := store.Token()
	assert.False(t, tokOk)
}

func TestBeginSaveRefusesWhileSubmitting(t *testing.T) {
	_, url := newTaskServer(t)
	c, _ := newController(t, url, true)

	c.OpenCreate()
	c.Draft.Title = "Water plants"

	_, ok := c.BeginSave()
	require.True(t, ok)

	_, ok = c.BeginSave()
	assert.False(t, ok, "a save in flight blocks a second submit")
}

func TestDeleteFlow(t *testing.T) {
	srv, url := newTaskServer(t)
	srv.mutateStatus = http.StatusNoContent
	c, _ := newController(t, url, true)

	task := api.Task{ID: "t1", Title: "Water plants"}
	c.RequestDelete(task)
	require.NotNil(t, c.PendingDelete)
	assert.Equal(t, "t1", c.PendingDelete.ID)

	d, ok := c.BeginDelete()
	require.True(t, ok)
	assert.Equal(t, MutationSubmitting, c.DeletePhase)

	refetch := c.ApplyDelete(c.ExecuteDelete(context.Background(), d))
	assert.True(t, refetch)
	assert.Nil(t, c.PendingDelete)
	assert.Equal(t, MutationIdle, c.DeletePhase)
	assert.Equal(t, http.MethodDelete, srv.lastMethod)
	assert.Equal(t, "/tasks/t1", srv.lastPath)
}

func TestCancelDelete(t *testing.T) {
	srv, url := newTaskServer(t)
	c, _ := newController(t, url, true)

	c.RequestDelete(api.Task{ID: "t1"})
	c.CancelDelete()
	assert.Nil(t, c.PendingDelete)

	_, ok := c.BeginDelete()
	assert.False(t, ok, "nothing pending means nothing to delete")
	assert.Zero(t, srv.requests.Load())
}

func TestDeleteFailureClearsPrompt(t *testing.T) {
	srv, url := newTaskServer(t)
	srv.mutateStatus = http.StatusNotFound
	srv.mutateBody = map[string]any{"error": "Task not found"}
	c, _ := newController(t, url, true)

	c.RequestDelete(api.Task{ID: "t1"})
	d, ok := c.BeginDelete()
	require.True(t, ok)

	refetch := c.ApplyDelete(c.ExecuteDelete(context.Background(), d))
	assert.False(t, refetch)
	assert.Nil(t, c.PendingDelete, "the prompt clears on every outcome")
	assert.Equal(t, "Task not found", c.ListError)
}
