// Package remote is the JSON-over-HTTP client for the Remote Todo Service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/model"
)

const (
	todosPath    = "/api/todos"
	truncatePath = "/api/test/truncate"

	// RequestIDHeader is echoed by the reference server.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 4 << 10
)

// Client talks to one Remote Todo Service. Timeouts belong to the
// underlying http.Client; New defaults to 10s.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New returns a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type textBody struct {
	Text string `json:"text"`
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	todos := make([]model.Todo, 0)
	if _, err := c.do(ctx, http.MethodGet, todosPath, nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Get fetches one todo.
func (c *Client) Get(ctx context.Context, id int64) (model.Todo, error) {
	return c.todo(ctx, http.MethodGet, todoPath(id), nil)
}

// Create posts a new todo and returns it with its server-assigned ID.
func (c *Client) Create(ctx context.Context, text string) (model.Todo, error) {
	return c.todo(ctx, http.MethodPost, todosPath, textBody{Text: text})
}

// Update replaces the text of todo id.
func (c *Client) Update(ctx context.Context, id int64, text string) (model.Todo, error) {
	return c.todo(ctx, http.MethodPut, todoPath(id), textBody{Text: text})
}

// Delete removes todo id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, todoPath(id), nil, nil)
	return err
}

// Truncate empties the collection. Only servers in test mode expose it.
func (c *Client) Truncate(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, truncatePath, nil, nil)
	return err
}

// todo runs a request answered with a single todo. A 2xx without one
// (no body, null, or an object lacking id or text) is a ServerError.
func (c *Client) todo(ctx context.Context, method, path string, in any) (model.Todo, error) {
	var t model.Todo
	status, err := c.do(ctx, method, path, in, &t)
	if err != nil {
		return model.Todo{}, err
	}
	if t.ID == 0 || t.Text == "" {
		return model.Todo{}, &ServerError{StatusCode: status, Message: "malformed response: no todo in body"}
	}
	return t, nil
}

func todoPath(id int64) string {
	return todosPath + "/" + strconv.FormatInt(id, 10)
}

// do sends the request and decodes a 2xx body into out. It returns the
// status code of any response it got.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("json marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", reqID).Msg("request failed")
		return 0, fmt.Errorf("%w: %s %s: %w", ErrNetworkFailure, method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", reqID).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &ServerError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return resp.StatusCode, fmt.Errorf("%w: %s %s: %w", ErrNetworkFailure, method, path, err)
		}
		return resp.StatusCode, &ServerError{StatusCode: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return resp.StatusCode, nil
}

// errorMessage prefers a JSON {"error": "..."} body and falls back to text.
func errorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(b))
}
