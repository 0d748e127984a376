package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

// Memory keeps todos in a slice. Useful for tests and throwaway servers.
type Memory struct {
	mu     sync.Mutex
	todos  []model.Todo
	nextID int64
	now    func() time.Time
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{nextID: 1, now: time.Now}
}

func (m *Memory) Create(_ context.Context, text string) (model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	t := model.Todo{ID: m.nextID, Text: text, CreatedAt: now, UpdatedAt: now}
	m.nextID++
	m.todos = append(m.todos, t)
	return t, nil
}

func (m *Memory) Get(_ context.Context, id int64) (model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		return m.todos[i], nil
	}
	return model.Todo{}, notFound(id)
}

func (m *Memory) List(context.Context) ([]model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Todo, len(m.todos))
	copy(out, m.todos)
	return out, nil
}

func (m *Memory) Update(_ context.Context, id int64, text string) (model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return model.Todo{}, notFound(id)
	}
	m.todos[i].Text = text
	m.todos[i].UpdatedAt = m.now()
	return m.todos[i], nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return notFound(id)
	}
	m.todos = slices.Delete(m.todos, i, i+1)
	return nil
}

// Truncate removes every todo. IDs keep counting up.
func (m *Memory) Truncate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.todos = nil
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) index(id int64) int {
	return slices.IndexFunc(m.todos, func(t model.Todo) bool { return t.ID == id })
}
