// Copyright (c) 2026 Khaled Abbas
//
// This source code is licensed under the Business Source License 1.1.
//
// Change Date: 4 years after the first public release of this version.
// Change License: MIT
//
// On the Change Date, this version of the code automatically converts
// to the MIT License. Prior to that date, use is subject to the
// Additional Use Grant. See the LICENSE file for details.

// Package tui renders the matrix in a terminal.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"eisenhower/src/board"
	"eisenhower/src/client"
	"eisenhower/src/logging"
	"eisenhower/src/model"
)

type mode int

const (
	browsing mode = iota
	adding
	editing
)

const requestTimeout = 10 * time.Second

type (
	loadedMsg  struct{ err error }
	createdMsg struct{ err error }
	movedMsg   struct {
		id  string
		err error
	}
	editedMsg struct {
		id  string
		err error
	}
	deletedMsg struct {
		id  string
		err error
	}
	expireMsg struct{ id string }
)

// Model is the bubbletea model for the matrix. Keys:
//
//	arrows/hjkl  select a task        1-4  move it to a quadrant
//	a            add a task           e    edit (enter saves, esc cancels)
//	d            delete (press twice) r    reload      q  quit
type Model struct {
	hook  *client.Hook
	cards board.Cards
	now   func() time.Time

	loaded  bool
	loadErr error

	cell    int
	row     int
	mode    mode
	input   textinput.Model
	editID  string
	message string

	width  int
	height int
}

type Option func(*Model)

// WithClock replaces time.Now for the delete confirm window.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func New(hook *client.Hook, opts ...Option) Model {
	input := textinput.New()
	input.Placeholder = "Add new task..."
	input.CharLimit = 500

	m := Model{
		hook:  hook,
		cards: board.Cards{},
		now:   time.Now,
		input: input,
		width: 80,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	hook := m.hook
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loadedMsg{err: hook.Load(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		m.loaded = true
		m.loadErr = msg.err
		m.sync()
		return m, nil

	case createdMsg:
		if msg.err != nil {
			m.fail("Failed to create task", msg.err)
			return m, nil
		}
		m.input.Reset()
		m.input.Blur()
		m.mode = browsing
		m.sync()
		return m, nil

	case movedMsg:
		if msg.err != nil {
			m.fail("Failed to move task", msg.err)
		}
		m.sync()
		m.follow(msg.id)
		return m, nil

	case editedMsg:
		if msg.err != nil {
			if c, ok := m.cards[msg.id]; ok {
				c.RevertEdit()
			}
			m.fail("Failed to save task edit", msg.err)
		}
		m.sync()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.fail("Failed to delete task", msg.err)
		}
		m.sync()
		return m, nil

	case expireMsg:
		if c, ok := m.cards[msg.id]; ok {
			c.Expire(m.now())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case adding:
			return m.updateAdding(msg)
		case editing:
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m *Model) fail(what string, err error) {
	logging.Error(context.Background(), what, err)
	m.message = what + ": " + err.Error()
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m.loaded = false
		return m, m.load()
	}

	if !m.loaded || m.loadErr != nil {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		if m.cell%2 == 1 {
			m.cell--
			m.row = 0
		}
	case "right", "l":
		if m.cell%2 == 0 {
			m.cell++
			m.row = 0
		}
	case "up", "k":
		if m.row > 0 {
			m.row--
		} else if m.cell >= 2 {
			m.cell -= 2
			m.row = max(len(m.cellTasks(m.cell))-1, 0)
		}
	case "down", "j":
		if m.row < len(m.cellTasks(m.cell))-1 {
			m.row++
		} else if m.cell < 2 {
			m.cell += 2
			m.row = 0
		}
	case "tab":
		m.cell = (m.cell + 1) % 4
		m.row = 0
	case "a", "n":
		m.mode = adding
		m.input.Placeholder = "Add new task..."
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	case "1", "2", "3", "4":
		return m, m.move(model.Quadrants()[int(msg.Runes[0]-'1')].ID)
	case "e", "enter":
		c := m.selected()
		if c == nil {
			return m, nil
		}
		c.BeginEdit()
		m.mode = editing
		m.editID = c.Task().ID
		m.input.Placeholder = "Enter task text"
		m.input.SetValue(c.Draft())
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case "d", "x", "delete":
		return m, m.clickDelete()
	}
	m.hoverSelected()
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = browsing
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		hook := m.hook
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			_, err := hook.Create(ctx, model.NewTask{Text: text, Quadrant: model.DefaultQuadrant})
			return createdMsg{err: err}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c, ok := m.cards[m.editID]
	if !ok {
		m.mode = browsing
		m.input.Blur()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		c.CancelEdit()
		m.mode = browsing
		m.input.Blur()
		return m, nil
	case tea.KeyEnter, tea.KeyTab:
		m.mode = browsing
		m.input.Blur()
		text, save := c.CommitEdit()
		if !save {
			return m, nil
		}
		id, hook := c.Task().ID, m.hook
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			_, err := hook.Update(ctx, id, model.TextPatch(text))
			return editedMsg{id: id, err: err}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	c.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) move(q model.Quadrant) tea.Cmd {
	c := m.selected()
	if c == nil || c.Task().Quadrant == q {
		return nil
	}
	id, hook := c.Task().ID, m.hook
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := hook.Update(ctx, id, model.MovePatch(q))
		return movedMsg{id: id, err: err}
	}
}

func (m Model) clickDelete() tea.Cmd {
	c := m.selected()
	if c == nil {
		return nil
	}
	id, hook := c.Task().ID, m.hook
	if !c.ClickDelete(m.now()) {
		return tea.Tick(board.ConfirmWindow, func(time.Time) tea.Msg { return expireMsg{id: id} })
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return deletedMsg{id: id, err: hook.Delete(ctx, id)}
	}
}

func (m Model) cellTasks(cell int) []model.Task {
	return board.Layout(m.hook.Tasks())[cell].Tasks
}

func (m Model) selected() *board.Card {
	tasks := m.cellTasks(m.cell)
	if m.row < 0 || m.row >= len(tasks) {
		return nil
	}
	return m.cards[tasks[m.row].ID]
}

// hoverSelected gives the selected card the pointer; every other card
// loses it, which disarms any pending delete there.
func (m Model) hoverSelected() {
	sel := m.selected()
	for _, c := range m.cards {
		if c != sel {
			c.Hover(false)
		}
	}
	if sel != nil {
		sel.Hover(true)
	}
}

// follow moves the selection to the task with id, wherever it now lives.
func (m *Model) follow(id string) {
	for i, cell := range board.Layout(m.hook.Tasks()) {
		for j, t := range cell.Tasks {
			if t.ID == id {
				m.cell, m.row = i, j
				m.hoverSelected()
				return
			}
		}
	}
}

func (m *Model) sync() {
	m.cards.Sync(m.hook.Tasks())
	if n := len(m.cellTasks(m.cell)); m.row >= n {
		m.row = max(n-1, 0)
	}
	m.hoverSelected()
}
