package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/repository"
)

func TestTodoService_Create(t *testing.T) {
	// Given
	svc := NewTodoService(repository.NewMemory())

	// When
	todo, err := svc.Create(context.Background(), "  test todo ")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "test todo", todo.Text)
	assert.Equal(t, int64(1), todo.ID)
}

func TestTodoService_CreateEmpty(t *testing.T) {
	svc := NewTodoService(repository.NewMemory())

	for _, text := range []string{"", "   ", "\t"} {
		_, err := svc.Create(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyText, "%q", text)
	}

	todos, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestTodoService_ListInCreationOrder(t *testing.T) {
	svc := NewTodoService(repository.NewMemory())
	_, _ = svc.Create(context.Background(), "todo 1")
	_, _ = svc.Create(context.Background(), "todo 2")

	todos, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "todo 1", todos[0].Text)
	assert.Equal(t, "todo 2", todos[1].Text)
}

func TestTodoService_Update(t *testing.T) {
	svc := NewTodoService(repository.NewMemory())
	created, err := svc.Create(context.Background(), "original text")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, "updated text")

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "updated text", updated.Text)
}

func TestTodoService_UpdateErrors(t *testing.T) {
	svc := NewTodoService(repository.NewMemory())
	created, err := svc.Create(context.Background(), "original text")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, " ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = svc.Update(context.Background(), 999, "x")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original text", got.Text)
}

func TestTodoService_DeleteAndTruncate(t *testing.T) {
	svc := NewTodoService(repository.NewMemory())
	a, _ := svc.Create(context.Background(), "a")
	_, _ = svc.Create(context.Background(), "b")

	require.NoError(t, svc.Delete(context.Background(), a.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), a.ID), repository.ErrNotFound)

	require.NoError(t, svc.Truncate(context.Background()))
	todos, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos)
}
