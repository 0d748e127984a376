package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// Every mutation rewrites the whole file; fine for a personal list.

// DefaultJSONFile is used when no path is configured.
const DefaultJSONFile = "todos.json"

type jsonDoc struct {
	NextID int64        `json:"next_id"`
	Todos  []model.Todo `json:"todos"`
}

// legacyItem is the pre-server todos.json entry: a bare array of titles.
type legacyItem struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// JSONFile persists todos to one JSON file.
type JSONFile struct {
	mu   sync.Mutex
	path string
	doc  jsonDoc
}

// OpenJSONFile loads path, creating nothing until the first write.
// A missing file is an empty list. A legacy array of {title, done} is
// imported in order.
func OpenJSONFile(path string) (*JSONFile, error) {
	if path == "" {
		path = DefaultJSONFile
	}
	r := &JSONFile{path: path, doc: jsonDoc{NextID: 1}}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *JSONFile) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read file: %w", err)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	if b[0] == '[' {
		var items []legacyItem
		if err := json.Unmarshal(b, &items); err != nil {
			return fmt.Errorf("json unmarshal: %w", err)
		}
		now := time.Now().UTC()
		for _, it := range items {
			r.doc.Todos = append(r.doc.Todos, model.Todo{ID: r.doc.NextID, Text: it.Title, CreatedAt: now, UpdatedAt: now})
			r.doc.NextID++
		}
		return nil
	}
	if err := json.Unmarshal(b, &r.doc); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	for _, t := range r.doc.Todos {
		if t.ID >= r.doc.NextID {
			r.doc.NextID = t.ID + 1
		}
	}
	return nil
}

func (r *JSONFile) save() error {
	b, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// mutate applies fn to a copy of the document and keeps it only if the
// file write succeeds.
func (r *JSONFile) mutate(fn func(doc *jsonDoc) error) error {
	prev := jsonDoc{NextID: r.doc.NextID, Todos: slices.Clone(r.doc.Todos)}
	if err := fn(&r.doc); err != nil {
		r.doc = prev
		return err
	}
	if err := r.save(); err != nil {
		r.doc = prev
		return err
	}
	return nil
}

func (r *JSONFile) Create(_ context.Context, text string) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t model.Todo
	err := r.mutate(func(doc *jsonDoc) error {
		now := time.Now().UTC()
		t = model.Todo{ID: doc.NextID, Text: text, CreatedAt: now, UpdatedAt: now}
		doc.NextID++
		doc.Todos = append(doc.Todos, t)
		return nil
	})
	return t, err
}

func (r *JSONFile) Get(_ context.Context, id int64) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(id); i >= 0 {
		return r.doc.Todos[i], nil
	}
	return model.Todo{}, notFound(id)
}

func (r *JSONFile) List(context.Context) ([]model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Todo, len(r.doc.Todos))
	copy(out, r.doc.Todos)
	return out, nil
}

func (r *JSONFile) Update(_ context.Context, id int64, text string) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t model.Todo
	err := r.mutate(func(doc *jsonDoc) error {
		i := r.index(id)
		if i < 0 {
			return notFound(id)
		}
		doc.Todos[i].Text = text
		doc.Todos[i].UpdatedAt = time.Now().UTC()
		t = doc.Todos[i]
		return nil
	})
	return t, err
}

func (r *JSONFile) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutate(func(doc *jsonDoc) error {
		i := r.index(id)
		if i < 0 {
			return notFound(id)
		}
		doc.Todos = slices.Delete(doc.Todos, i, i+1)
		return nil
	})
}

func (r *JSONFile) Truncate(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutate(func(doc *jsonDoc) error {
		doc.Todos = []model.Todo{}
		return nil
	})
}

// Close is a no-op; every mutation is already on disk.
func (r *JSONFile) Close() error { return nil }

func (r *JSONFile) index(id int64) int {
	return slices.IndexFunc(r.doc.Todos, func(t model.Todo) bool { return t.ID == id })
}
