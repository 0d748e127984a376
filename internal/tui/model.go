// Package tui is the interactive todo list. It renders from controller
// snapshots and drives the controller's intents as Bubble Tea commands.
package tui

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Controller is the part of store.Controller the list drives.
type Controller interface {
	State() store.State
	Subscribe(fn func(store.State)) (unsubscribe func())
	Load(ctx context.Context) error
	Add(ctx context.Context, text string) (model.Todo, error)
	BeginEdit(id int64) error
	UpdateDraft(text string) error
	SaveEdit(ctx context.Context) error
	CancelEdit()
	Delete(ctx context.Context, id int64) error
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

const (
	msgBusy  = "still working, try again in a moment"
	msgBlank = "text cannot be empty"
)

// stateChangedMsg carries the latest snapshot after a notification.
type stateChangedMsg struct{ state store.State }

// intentDoneMsg reports how a remote intent settled.
type intentDoneMsg struct {
	op  string
	err error
}

// subscription coalesces controller notifications into a one-slot channel
// so a burst of transitions costs one redraw.
type subscription struct {
	changes     chan struct{}
	done        chan struct{}
	unsubscribe func()
	once        sync.Once
}

func subscribe(ctrl Controller) *subscription {
	s := &subscription{
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	s.unsubscribe = ctrl.Subscribe(func(store.State) {
		select {
		case s.changes <- struct{}{}:
		default:
		}
	})
	return s
}

func (s *subscription) close() {
	s.once.Do(func() {
		s.unsubscribe()
		close(s.done)
	})
}

// Model is the Bubble Tea model for the todo list.
type Model struct {
	ctx  context.Context
	ctrl Controller
	sub  *subscription

	state   store.State
	mode    mode
	notice  string
	list    list.Model
	input   textinput.Model
	spinner spinner.Model
	keys    keyMap
	styles  styles
	width   int
	height  int
}

// New builds the model and subscribes it to ctrl. Call Close when done.
func New(ctx context.Context, ctrl Controller) Model {
	theme := ui.Current()
	st := newStyles(theme)
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{styles: st, theme: theme}, 80, 20)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = st.title
	l.Styles.HelpStyle = st.help
	l.Styles.PaginationStyle = st.help
	l.FilterInput.Prompt = "/ "
	l.AdditionalShortHelpKeys = keys.browse
	l.AdditionalFullHelpKeys = keys.browse
	// the list's own quit key would bypass Close
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.busy

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		sub:     subscribe(ctrl),
		list:    l,
		input:   ti,
		spinner: sp,
		keys:    keys,
		styles:  st,
		width:   80,
		height:  24,
	}
	m.applyState(ctrl.State())
	return m
}

// Close detaches the model from the controller.
func (m Model) Close() { m.sub.close() }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForState(), m.spinner.Tick, m.intent("load", m.ctrl.Load))
}

// waitForState blocks until the controller publishes, then hands the
// newest snapshot to Update.
func (m Model) waitForState() tea.Cmd {
	sub, ctrl := m.sub, m.ctrl
	return func() tea.Msg {
		select {
		case <-sub.changes:
			return stateChangedMsg{state: ctrl.State()}
		case <-sub.done:
			return nil
		}
	}
}

func (m Model) intent(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return intentDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m *Model) applyState(s store.State) {
	m.state = s
	m.list.SetItems(itemsFrom(s))
	if m.mode == modeEdit && s.Session == nil {
		m.leaveInput()
	}
}

func (m Model) selected() (todoItem, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	return it, ok
}

func (m *Model) enterInput(md mode, value, placeholder string) tea.Cmd {
	m.mode = md
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *Model) leaveInput() {
	m.mode = modeBrowse
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case stateChangedMsg:
		m.applyState(msg.state)
		return m, m.waitForState()

	case intentDoneMsg:
		m.applyState(m.ctrl.State())
		if msg.err == nil && msg.op == "add" && m.mode == modeAdd {
			m.leaveInput()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		m.notice = ""
		if m.quits(msg) {
			m.sub.close()
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateInput(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// quits reports whether msg ends the program. q is plain text while typing.
func (m Model) quits(msg tea.KeyMsg) bool {
	if msg.String() == "ctrl+c" {
		return true
	}
	return key.Matches(msg, m.keys.Quit) && m.mode == modeBrowse && m.list.FilterState() != list.Filtering
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Add):
		return m, m.enterInput(modeAdd, "", "What needs doing?")

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.BeginEdit(it.todo.ID); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.applyState(m.ctrl.State())
		return m, m.enterInput(modeEdit, it.todo.Text, "Edit todo")

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.state.Busy {
			m.notice = msgBusy
			return m, nil
		}
		id := it.todo.ID
		return m, m.intent("delete", func(ctx context.Context) error { return m.ctrl.Delete(ctx, id) })

	case key.Matches(msg, m.keys.Reload):
		if m.state.Busy {
			m.notice = msgBusy
			return m, nil
		}
		return m, m.intent("load", m.ctrl.Load)

	case key.Matches(msg, m.keys.Cancel):
		if m.list.FilterState() != list.Unfiltered {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modeEdit {
			m.ctrl.CancelEdit()
			m.applyState(m.ctrl.State())
		}
		m.leaveInput()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		switch {
		case text == "":
			m.notice = msgBlank
			return m, nil
		case m.state.Busy:
			m.notice = msgBusy
			return m, nil
		}
		if m.mode == modeAdd {
			return m, m.intent("add", func(ctx context.Context) error {
				_, err := m.ctrl.Add(ctx, text)
				return err
			})
		}
		return m, m.intent("save", m.ctrl.SaveEdit)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeEdit {
		if err := m.ctrl.UpdateDraft(m.input.Value()); err != nil {
			m.notice = err.Error()
		}
	}
	return m, cmd
}

func (m *Model) resize() {
	h := m.height - 4
	if m.mode != modeBrowse {
		h -= 3
	}
	m.list.SetSize(max(m.width-4, 10), max(h, 3))
}

func (m Model) View() string {
	m.resize()

	var b strings.Builder
	b.WriteString(m.list.View())

	if len(m.state.Todos) == 0 && m.list.FilterState() == list.Unfiltered {
		b.WriteString("\n" + m.styles.muted.Render("Nothing to do yet. Press a to add one."))
	}

	if m.mode != modeBrowse {
		title := "Add todo"
		if m.mode == modeEdit {
			title = "Edit todo"
		}
		box := m.styles.frame.Render(m.styles.title.Render(title) + "\n" + m.input.View())
		b.WriteString("\n" + box)
	}

	b.WriteString("\n" + m.footer())
	return m.styles.frame.Render(b.String())
}

func (m Model) footer() string {
	var parts []string
	if m.state.Busy {
		parts = append(parts, m.spinner.View()+m.styles.busy.Render("working..."))
	}
	switch {
	case m.notice != "":
		parts = append(parts, m.styles.err.Render(m.notice))
	case m.state.Err != nil:
		parts = append(parts, m.styles.err.Render("✖ "+m.state.Err.Error()))
	}
	return strings.Join(parts, "  ")
}
