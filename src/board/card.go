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

// Package board holds the interaction rules of the matrix: how tasks are
// laid out in cells and how a single task card moves between display,
// hover, delete-armed and editing.
package board

import (
	"strings"
	"time"

	"eisenhower/src/model"
)

// ConfirmWindow is how long a first delete click stays armed.
const ConfirmWindow = 3 * time.Second

type State int

const (
	Display State = iota
	Hover
	Armed
	Editing
)

func (s State) String() string {
	switch s {
	case Display:
		return "display"
	case Hover:
		return "hover"
	case Armed:
		return "delete-armed"
	case Editing:
		return "editing"
	}
	return "unknown"
}

// Card is the UI state of one task. Times are passed in by the caller so
// the confirm window can be driven by any clock.
type Card struct {
	task       model.Task
	hovered    bool
	armedUntil time.Time
	editing    bool
	draft      string
}

func NewCard(task model.Task) *Card {
	return &Card{task: task, draft: task.Text}
}

func (c *Card) Task() model.Task { return c.task }

// SetTask replaces the task after the server answered. An open edit keeps
// its draft.
func (c *Card) SetTask(task model.Task) {
	c.task = task
	if !c.editing {
		c.draft = task.Text
	}
}

func (c *Card) State(now time.Time) State {
	switch {
	case c.editing:
		return Editing
	case c.armed(now):
		return Armed
	case c.hovered:
		return Hover
	}
	return Display
}

func (c *Card) armed(now time.Time) bool {
	return !c.armedUntil.IsZero() && now.Before(c.armedUntil)
}

// Hover tracks the pointer. Leaving the card disarms a pending delete.
func (c *Card) Hover(on bool) {
	c.hovered = on
	if !on {
		c.Disarm()
	}
}

// ClickDelete arms the card on the first click and reports true on a
// second click inside the window, meaning the delete should be sent.
func (c *Card) ClickDelete(now time.Time) bool {
	if c.editing {
		return false
	}
	if c.armed(now) {
		c.Disarm()
		return true
	}
	c.armedUntil = now.Add(ConfirmWindow)
	return false
}

// Expire drops an armed state whose window has passed. It reports whether
// anything changed.
func (c *Card) Expire(now time.Time) bool {
	if c.armedUntil.IsZero() || c.armed(now) {
		return false
	}
	c.armedUntil = time.Time{}
	return true
}

func (c *Card) Disarm() {
	c.armedUntil = time.Time{}
}

// ArmedUntil is the end of the current confirm window, or zero.
func (c *Card) ArmedUntil() time.Time { return c.armedUntil }

func (c *Card) BeginEdit() {
	c.Disarm()
	c.editing = true
	c.draft = c.task.Text
}

func (c *Card) Draft() string { return c.draft }

func (c *Card) SetDraft(text string) {
	if c.editing {
		c.draft = text
	}
}

// CommitEdit leaves editing mode and returns the text to save. ok is false
// when nothing should be sent.
func (c *Card) CommitEdit() (text string, ok bool) {
	if !c.editing {
		return "", false
	}
	c.editing = false
	text, ok = CommitText(c.task.Text, c.draft)
	if !ok {
		c.draft = c.task.Text
	}
	return text, ok
}

// CancelEdit discards the draft.
func (c *Card) CancelEdit() {
	c.editing = false
	c.draft = c.task.Text
}

// RevertEdit restores the displayed text after a failed save.
func (c *Card) RevertEdit() {
	c.draft = c.task.Text
}

// CommitText applies the edit rules: the draft is trimmed and only a
// non-empty value different from current is worth saving.
func CommitText(current, draft string) (string, bool) {
	text := strings.TrimSpace(draft)
	if text == "" || text == current {
		return text, false
	}
	return text, true
}
