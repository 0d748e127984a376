package store

import (
	"errors"
	"slices"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrInvalidState is returned when an intent is issued in a state that
// forbids it: a remote call while another is outstanding, an edit intent
// without a session, or an unknown todo ID.
var ErrInvalidState = errors.New("invalid state")

// Session is the single in-place edit the user has open.
type Session struct {
	ID    int64
	Draft string
}

// State is a read-only snapshot handed to the presentation layer.
// Mutating it has no effect on the controller.
type State struct {
	Todos   []model.Todo
	Busy    bool
	Session *Session // nil when nothing is being edited
	Err     error    // last reported failure, cleared on the next remote call
}

// Empty reports whether the list has no entries.
func (s State) Empty() bool { return len(s.Todos) == 0 }

// Editing reports whether id is the target of the open session.
func (s State) Editing(id int64) bool { return s.Session != nil && s.Session.ID == id }

// Find returns the todo with id and whether it exists.
func (s State) Find(id int64) (model.Todo, bool) {
	if i := indexOf(s.Todos, id); i >= 0 {
		return s.Todos[i], true
	}
	return model.Todo{}, false
}

func indexOf(todos []model.Todo, id int64) int {
	return slices.IndexFunc(todos, func(t model.Todo) bool { return t.ID == id })
}

// dedupe keeps the first occurrence of every ID.
func dedupe(todos []model.Todo) []model.Todo {
	seen := make(map[int64]struct{}, len(todos))
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
