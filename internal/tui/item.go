package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

// todoItem adapts model.Todo to bubbles/list.Item.
type todoItem struct {
	todo    model.Todo
	editing bool
}

func (i todoItem) Title() string       { return i.todo.Text }
func (i todoItem) Description() string { return "" }
func (i todoItem) FilterValue() string { return i.todo.Text }

func itemsFrom(s store.State) []list.Item {
	out := make([]list.Item, len(s.Todos))
	for i, td := range s.Todos {
		out[i] = todoItem{todo: td, editing: s.Editing(td.ID)}
	}
	return out
}

// itemDelegate renders one line per todo.
type itemDelegate struct {
	styles styles
	theme  ui.Theme
}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	id := d.styles.muted.Render(fmt.Sprintf("#%-3d", it.todo.ID))
	bullet := d.styles.accent.Render(d.theme.Bullet)
	text := it.todo.Text
	if it.editing {
		bullet = d.styles.editing.Render(d.theme.Editing)
		text = d.styles.editing.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = d.styles.selected.Render(d.theme.Cursor) + " "
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix, id, bullet, text)
}
