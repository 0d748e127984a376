package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tada/internal/repository"
	"github.com/Makepad-fr/tada/internal/service"
)

type textRequest struct {
	Text string `json:"text"`
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorJSON(c, http.StatusBadRequest, "invalid todo id")
		return 0, false
	}
	return id, true
}

func bindText(c *gin.Context) (string, bool) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid JSON")
		return "", false
	}
	return req.Text, true
}

// failure maps service and repository errors onto status codes.
func failure(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, service.ErrEmptyText):
		errorJSON(c, http.StatusBadRequest, "text cannot be empty")
	case errors.Is(err, repository.ErrNotFound):
		errorJSON(c, http.StatusNotFound, "todo not found")
	default:
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to "+what)
	}
}

// createTodo handles POST /api/todos
func (s *Server) createTodo(c *gin.Context) {
	if c.ContentType() != "application/json" {
		errorJSON(c, http.StatusBadRequest, "Content-Type must be application/json")
		return
	}
	text, ok := bindText(c)
	if !ok {
		return
	}
	todo, err := s.svc.Create(c.Request.Context(), text)
	if err != nil {
		failure(c, err, "create todo")
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// listTodos handles GET /api/todos
func (s *Server) listTodos(c *gin.Context) {
	todos, err := s.svc.List(c.Request.Context())
	if err != nil {
		failure(c, err, "get todos")
		return
	}
	c.JSON(http.StatusOK, todos)
}

// getTodo handles GET /api/todos/:id
func (s *Server) getTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	todo, err := s.svc.Get(c.Request.Context(), id)
	if err != nil {
		failure(c, err, "get todo")
		return
	}
	c.JSON(http.StatusOK, todo)
}

// updateTodo handles PUT /api/todos/:id
func (s *Server) updateTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	text, ok := bindText(c)
	if !ok {
		return
	}
	todo, err := s.svc.Update(c.Request.Context(), id, text)
	if err != nil {
		failure(c, err, "update todo")
		return
	}
	c.JSON(http.StatusOK, todo)
}

// deleteTodo handles DELETE /api/todos/:id
func (s *Server) deleteTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.svc.Delete(c.Request.Context(), id); err != nil {
		failure(c, err, "delete todo")
		return
	}
	c.Status(http.StatusNoContent)
}

// truncateTodos handles POST /api/test/truncate
func (s *Server) truncateTodos(c *gin.Context) {
	if err := s.svc.Truncate(c.Request.Context()); err != nil {
		failure(c, err, "truncate todos")
		return
	}
	c.Status(http.StatusNoContent)
}
