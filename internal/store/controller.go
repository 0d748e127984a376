// Package store keeps the local todo list in step with the Remote Todo
// Service. A Controller owns the list, the edit session and the busy flag;
// it turns user intents into remote calls and applies their results only
// after the server confirms them.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/model"
)

// Remote is the subset of the Remote Todo Service the controller needs.
// *remote.Client satisfies it.
type Remote interface {
	List(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, text string) (model.Todo, error)
	Update(ctx context.Context, id int64, text string) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// errNoop makes an intent return nil without touching state.
var errNoop = errors.New("noop")

// Controller is the single source of truth for the local list. Build one
// per process with New and hand it to whatever renders it.
//
// Remote-calling intents (Load, Add, SaveEdit, Delete) block until the call
// settles. Only one may be outstanding; the others are refused with
// ErrInvalidState. mu only guards fields and is never held across a remote
// call or a subscriber callback. pub orders deliveries: subscribers see
// snapshots in the order the changes were made.
type Controller struct {
	remote Remote

	pub     sync.Mutex
	mu      sync.Mutex
	todos   []model.Todo
	busy    bool
	session *Session
	lastErr error

	subs    map[int]func(State)
	nextSub int
}

// New returns an idle controller with an empty list.
func New(r Remote) *Controller {
	return &Controller{
		remote: r,
		todos:  []model.Todo{},
		subs:   make(map[int]func(State)),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := State{
		Todos: slices.Clone(c.todos),
		Busy:  c.busy,
		Err:   c.lastErr,
	}
	if c.session != nil {
		sess := *c.session
		s.Session = &sess
	}
	return s
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that made the change, one delivery at a time,
// and must not call back into the controller's intents; State is fine.
// The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// update runs fn under the lock. When fn returns nil the new state is
// published to subscribers after the lock is released. Deliveries hold pub
// so a later change cannot overtake an earlier one.
func (c *Controller) update(fn func() error) error {
	c.pub.Lock()
	defer c.pub.Unlock()

	c.mu.Lock()
	if err := fn(); err != nil {
		c.mu.Unlock()
		return err
	}
	snap := c.snapshotLocked()
	subs := make([]func(State), 0, len(c.subs))
	for id := 0; id < c.nextSub; id++ {
		if sub, ok := c.subs[id]; ok {
			subs = append(subs, sub)
		}
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
	return nil
}

// refuse records and publishes an InvalidState failure.
func (c *Controller) refuse(op string, reason error) error {
	err := fmt.Errorf("%s: %w: %v", op, ErrInvalidState, reason)
	log.Debug().Str("op", op).Err(err).Msg("intent refused")
	_ = c.update(func() error {
		c.lastErr = err
		return nil
	})
	return err
}

// guard runs fn under the lock; an error other than errNoop is turned into
// a published InvalidState failure.
func (c *Controller) guard(op string, fn func() error) error {
	err := c.update(fn)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errNoop):
		return errNoop
	default:
		return c.refuse(op, err)
	}
}

// acquire enters Busy. check runs first, in the same critical section as
// the busy transition, followed by prepare.
func (c *Controller) acquire(op string, check func() error, prepare func()) error {
	err := c.guard(op, func() error {
		if check != nil {
			if err := check(); err != nil {
				return err
			}
		}
		if c.busy {
			return errors.New("another request is in flight")
		}
		c.busy = true
		c.lastErr = nil
		if prepare != nil {
			prepare()
		}
		return nil
	})
	if err == nil {
		log.Debug().Str("op", op).Msg("request dispatched")
	}
	return err
}

// release leaves Busy and applies the outcome. apply only runs on success.
// A success leaves lastErr alone: acquire already cleared it, and anything
// set since is a refusal made while the call was in flight.
func (c *Controller) release(op string, err error, apply func()) error {
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		log.Warn().Str("op", op).Err(err).Msg("request failed")
	}
	_ = c.update(func() error {
		c.busy = false
		if err != nil {
			c.lastErr = err
			return nil
		}
		if apply != nil {
			apply()
		}
		return nil
	})
	return err
}

func (c *Controller) mustExist(id int64) error {
	if indexOf(c.todos, id) < 0 {
		return fmt.Errorf("todo %d is not in the list", id)
	}
	return nil
}

// Load replaces the local list with the server's. On failure the list is
// left as it was.
func (c *Controller) Load(ctx context.Context) error {
	const op = "load"
	if err := c.acquire(op, nil, nil); err != nil {
		return err
	}
	todos, err := c.remote.List(ctx)
	return c.release(op, err, func() {
		c.todos = dedupe(todos)
		if c.session != nil && indexOf(c.todos, c.session.ID) < 0 {
			c.session = nil
		}
	})
}

// Add creates a todo with the trimmed text, appends the server's copy and
// returns it. Blank text is ignored: no request, no error, zero Todo.
func (c *Controller) Add(ctx context.Context, text string) (model.Todo, error) {
	const op = "add"
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Todo{}, nil
	}
	if err := c.acquire(op, nil, nil); err != nil {
		return model.Todo{}, err
	}
	todo, err := c.remote.Create(ctx, text)
	if err := c.release(op, err, func() {
		if i := indexOf(c.todos, todo.ID); i >= 0 {
			c.todos[i] = todo
			return
		}
		c.todos = append(c.todos, todo)
	}); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// BeginEdit opens an edit session on id with the current text as draft,
// replacing any session already open.
func (c *Controller) BeginEdit(id int64) error {
	return c.guard("begin edit", func() error {
		i := indexOf(c.todos, id)
		if i < 0 {
			return fmt.Errorf("todo %d is not in the list", id)
		}
		c.session = &Session{ID: id, Draft: c.todos[i].Text}
		return nil
	})
}

// UpdateDraft changes the draft text of the open session.
func (c *Controller) UpdateDraft(text string) error {
	return c.guard("update draft", func() error {
		if c.session == nil {
			return errors.New("no edit session")
		}
		c.session.Draft = text
		return nil
	})
}

// CancelEdit closes the open session without touching the server. It is a
// no-op when nothing is being edited.
func (c *Controller) CancelEdit() {
	_ = c.update(func() error {
		if c.session == nil {
			return errNoop
		}
		c.session = nil
		return nil
	})
}

// SaveEdit sends the trimmed draft. On success the todo takes the server's
// value and the session closes; on failure the session stays open so the
// user can retry or cancel. A blank draft is ignored and keeps the session.
func (c *Controller) SaveEdit(ctx context.Context) error {
	const op = "save edit"
	var (
		id    int64
		draft string
	)
	err := c.acquire(op, func() error {
		if c.session == nil {
			return errors.New("no edit session")
		}
		id = c.session.ID
		draft = strings.TrimSpace(c.session.Draft)
		if draft == "" {
			return errNoop
		}
		return c.mustExist(id)
	}, nil)
	if errors.Is(err, errNoop) {
		return nil
	}
	if err != nil {
		return err
	}

	todo, err := c.remote.Update(ctx, id, draft)
	return c.release(op, err, func() {
		if i := indexOf(c.todos, id); i >= 0 {
			c.todos[i] = todo
		}
		if c.session != nil && c.session.ID == id {
			c.session = nil
		}
	})
}

// Delete removes id on the server and then locally. If id is being
// edited the session is closed before the request goes out, whatever the
// outcome. A session reopened on id while the request is in flight is
// closed again when the delete succeeds.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	const op = "delete"
	err := c.acquire(op, func() error {
		return c.mustExist(id)
	}, func() {
		if c.session != nil && c.session.ID == id {
			c.session = nil
		}
	})
	if err != nil {
		return err
	}

	err = c.remote.Delete(ctx, id)
	return c.release(op, err, func() {
		if i := indexOf(c.todos, id); i >= 0 {
			c.todos = slices.Delete(c.todos, i, i+1)
		}
		if c.session != nil && c.session.ID == id {
			c.session = nil
		}
	})
}
