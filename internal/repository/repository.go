// Package repository stores todos for the reference server.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrNotFound is returned when no todo has the requested ID.
var ErrNotFound = errors.New("todo not found")

// Repository is the storage contract. List returns todos in creation order.
type Repository interface {
	Create(ctx context.Context, text string) (model.Todo, error)
	Get(ctx context.Context, id int64) (model.Todo, error)
	List(ctx context.Context) ([]model.Todo, error)
	Update(ctx context.Context, id int64, text string) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
	Truncate(ctx context.Context) error
	Close() error
}

func notFound(id int64) error {
	return fmt.Errorf("todo with id %d: %w", id, ErrNotFound)
}

// Open builds the backend named kind ("memory", "sqlite" or "json").
// path is ignored by the memory backend.
func Open(kind, path string) (Repository, error) {
	switch kind {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		r, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "json":
		r, err := OpenJSONFile(path)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}
