package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/repository"
	"github.com/Makepad-fr/tada/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, testMode bool) (*Server, *service.TodoService) {
	t.Helper()
	svc := service.NewTodoService(repository.NewMemory())
	return New(svc, Options{TestMode: testMode}), svc
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&m))
	return m
}

func TestCreateTodo(t *testing.T) {
	// Given
	s, _ := newTestServer(t, false)

	// When
	rec := do(t, s, http.MethodPost, "/api/todos", map[string]string{"text": "süt al"})

	// Then
	assert.Equal(t, http.StatusCreated, rec.Code)
	todo := decodeMap(t, rec)
	assert.Equal(t, "süt al", todo["text"])
	assert.Equal(t, float64(1), todo["id"])
	for _, field := range []string{"created_at", "updated_at"} {
		assert.Contains(t, todo, field)
	}
}

func TestCreateTodo_BadRequests(t *testing.T) {
	s, _ := newTestServer(t, false)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantError   string
	}{
		{name: "wrong content type", contentType: "text/plain", body: `{"text":"x"}`, wantError: "Content-Type must be application/json"},
		{name: "invalid json", contentType: "application/json", body: `{"text":`, wantError: "invalid JSON"},
		{name: "empty text", contentType: "application/json", body: `{"text":""}`, wantError: "text cannot be empty"},
		{name: "whitespace text", contentType: "application/json", body: `{"text":"   "}`, wantError: "text cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/todos", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			s.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantError, decodeMap(t, rec)["error"])
		})
	}
}

func TestCreateTodo_ContentTypeWithCharset(t *testing.T) {
	s, _ := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/todos", bytes.NewBufferString(`{"text":"x"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListTodos(t *testing.T) {
	s, svc := newTestServer(t, false)

	// empty list is an empty array, not null
	rec := do(t, s, http.MethodGet, "/api/todos", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	_, err := svc.Create(t.Context(), "todo 1")
	require.NoError(t, err)
	_, err = svc.Create(t.Context(), "todo 2")
	require.NoError(t, err)

	rec = do(t, s, http.MethodGet, "/api/todos", nil)
	var todos []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&todos))
	require.Len(t, todos, 2)
	assert.Equal(t, "todo 1", todos[0]["text"])
	assert.Equal(t, "todo 2", todos[1]["text"])
}

func TestGetTodo(t *testing.T) {
	s, svc := newTestServer(t, false)
	created, err := svc.Create(t.Context(), "test todo")
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, fmt.Sprintf("/api/todos/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test todo", decodeMap(t, rec)["text"])

	rec = do(t, s, http.MethodGet, "/api/todos/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/todos/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTodo(t *testing.T) {
	s, svc := newTestServer(t, false)
	created, err := svc.Create(t.Context(), "original todo")
	require.NoError(t, err)

	rec := do(t, s, http.MethodPut, fmt.Sprintf("/api/todos/%d", created.ID), map[string]string{"text": "updated todo"})

	assert.Equal(t, http.StatusOK, rec.Code)
	todo := decodeMap(t, rec)
	assert.Equal(t, "updated todo", todo["text"])
	assert.Equal(t, float64(created.ID), todo["id"])
}

func TestUpdateTodo_Errors(t *testing.T) {
	s, svc := newTestServer(t, false)
	created, err := svc.Create(t.Context(), "original todo")
	require.NoError(t, err)
	path := fmt.Sprintf("/api/todos/%d", created.ID)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPut, "/api/todos/999", map[string]string{"text": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, "/api/todos/invalid", map[string]string{"text": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, path, map[string]string{"text": "  "}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, path, nil).Code)
}

func TestDeleteTodo(t *testing.T) {
	s, svc := newTestServer(t, false)
	created, err := svc.Create(t.Context(), "todo to delete")
	require.NoError(t, err)
	path := fmt.Sprintf("/api/todos/%d", created.ID)

	rec := do(t, s, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodDelete, "/api/todos/0", nil).Code)
}

func TestTruncate_OnlyInTestMode(t *testing.T) {
	s, _ := newTestServer(t, false)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/test/truncate", nil).Code)

	s, svc := newTestServer(t, true)
	_, err := svc.Create(t.Context(), "a")
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/api/test/truncate", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	todos, err := svc.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(remote.RequestIDHeader, "5d1f3a4e-8a6c-4bb1-9a53-5cc1f0a4e2b7")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "5d1f3a4e-8a6c-4bb1-9a53-5cc1f0a4e2b7", rec.Header().Get(remote.RequestIDHeader))

	// garbage is replaced with a fresh ID
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(remote.RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	got := rec.Header().Get(remote.RequestIDHeader)
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "not-a-uuid", got)
}
