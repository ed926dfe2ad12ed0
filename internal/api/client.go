package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the remote task service. It is safe for concurrent use;
// all state is immutable after construction. No request timeout is applied
// here: cancellation, when wanted, comes from the caller's context.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

// New creates a client for the service rooted at base (no trailing slash
// required). A nil logger is replaced with a no-op logger.
func New(base string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{},
		log:  log,
	}
}

type authRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

type taskResponse struct {
	Task Task `json:"task"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", authRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates an account and returns the issued session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", "", authRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListTasks fetches one page of tasks. Empty Search/Category are omitted
// from the query string, never sent as empty parameters.
func (c *Client) ListTasks(ctx context.Context, token string, q ListQuery) (*TaskPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}

	var page TaskPage
	if err := c.do(ctx, http.MethodGet, "/tasks?"+params.Encode(), token, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateTask posts a new task.
func (c *Client) CreateTask(ctx context.Context, token string, in TaskInput) (*Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", token, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// UpdateTask replaces the task identified by id.
func (c *Client) UpdateTask(ctx context.Context, token, id string, in TaskInput) (*Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), token, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// DeleteTask removes the task identified by id.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), token, nil, nil)
}

// do performs one round-trip. A non-2xx status decodes the error body and
// returns *Error; transport failures come back as wrapped plain errors so
// callers can tell the two classes apart.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	reqID := uuid.NewString()

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb) // body is optional on errors
		msg := eb.Error
		if msg == "" {
			msg = eb.Message
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
