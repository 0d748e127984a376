// Package service holds the server-side rules for todos.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/repository"
)

// ErrEmptyText rejects text that is blank after trimming.
var ErrEmptyText = errors.New("text cannot be empty")

// TodoService validates input and delegates storage to a repository.
type TodoService struct {
	repo repository.Repository
}

// NewTodoService creates a new todo service
func NewTodoService(repo repository.Repository) *TodoService {
	return &TodoService{repo: repo}
}

func (s *TodoService) Create(ctx context.Context, text string) (model.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Todo{}, ErrEmptyText
	}
	return s.repo.Create(ctx, text)
}

func (s *TodoService) Get(ctx context.Context, id int64) (model.Todo, error) {
	return s.repo.Get(ctx, id)
}

func (s *TodoService) List(ctx context.Context) ([]model.Todo, error) {
	return s.repo.List(ctx)
}

// Update checks the todo exists before writing, so an unknown ID is a
// not-found even when the text is fine.
func (s *TodoService) Update(ctx context.Context, id int64, text string) (model.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Todo{}, ErrEmptyText
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return model.Todo{}, err
	}
	return s.repo.Update(ctx, id, text)
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Truncate removes every todo. Only reachable in test mode.
func (s *TodoService) Truncate(ctx context.Context) error {
	return s.repo.Truncate(ctx)
}
