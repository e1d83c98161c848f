package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"eisenhower/src/board"
	"eisenhower/src/client"
	"eisenhower/src/model"
	"eisenhower/src/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestModel(t *testing.T, fake *testutil.FakeAPI) (Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	m := New(client.NewHook(fake), WithClock(clock.now))
	m = step(t, m, tea.WindowSizeMsg{Width: 200, Height: 60})
	m = step(t, m, m.Init()())
	return m, clock
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and drops any command it returns (cursor blinks and
// confirm-window ticks would block).
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	return step(t, m, key)
}

// submit sends a key that issues a request, runs the request and feeds the
// result back into the model.
func submit(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	return step(t, m, cmd())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, runes(string(r)))
	}
	return m
}

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	esc       = tea.KeyMsg{Type: tea.KeyEsc}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

func TestLoadingAndErrorViews(t *testing.T) {
	m := New(client.NewHook(testutil.NewFakeAPI()))
	assert.Contains(t, m.View(), "Loading tasks...")

	fake := testutil.NewFakeAPI()
	fake.ListErr = errors.New("connection refused")
	m, _ = newTestModel(t, fake)
	view := m.View()
	assert.Contains(t, view, "Error: connection refused")
	assert.NotContains(t, view, "Do First")
}

func TestMatrixScenario(t *testing.T) {
	fake := testutil.NewFakeAPI()
	m, clock := newTestModel(t, fake)

	// Create: lands in Do First.
	m = press(t, m, runes("a"))
	m = typeText(t, m, "Write report")
	m = submit(t, m, enter)
	require.Len(t, fake.Stored(), 1)
	task := fake.Stored()[0]
	assert.Equal(t, model.UrgentImportant, task.Quadrant)
	assert.Equal(t, 0.0, task.X)
	assert.Equal(t, 0.0, task.Y)
	assert.Equal(t, "", m.input.Value(), "input cleared after create")
	assert.Equal(t, browsing, m.mode)

	// Move to Schedule.
	m = submit(t, m, runes("2"))
	assert.Equal(t, model.NotUrgentImportant, fake.Stored()[0].Quadrant)
	assert.Equal(t, 1, m.cell, "selection follows the moved task")

	// Edit then Escape: nothing stored.
	m = press(t, m, runes("e"))
	m = typeText(t, m, " draft")
	m = press(t, m, esc)
	assert.Equal(t, "Write report", fake.Stored()[0].Text)
	assert.Equal(t, 1, fake.UpdateCalls(), "only the move was sent")

	// Edit then Enter: stored.
	m = press(t, m, runes("e"))
	for range len("report") {
		m = press(t, m, backspace)
	}
	m = typeText(t, m, "final report")
	m = submit(t, m, enter)
	assert.Equal(t, "Write final report", fake.Stored()[0].Text)
	assert.Contains(t, m.View(), "Write final report")

	// Arm, wait past the window, press again: still present.
	m = press(t, m, runes("d"))
	assert.Contains(t, m.View(), "d again to delete")
	clock.advance(4 * time.Second)
	m = step(t, m, expireMsg{id: task.ID})
	assert.NotContains(t, m.View(), "d again to delete")
	m = press(t, m, runes("d"))
	assert.Len(t, fake.Stored(), 1)

	// Second press inside the window deletes.
	clock.advance(time.Second)
	m = submit(t, m, runes("d"))
	assert.Empty(t, fake.Stored())
	assert.NotContains(t, m.View(), "Write final report")
}

func TestEmptyAndUnchangedEditsSendNothing(t *testing.T) {
	fake := testutil.NewFakeAPI(model.Task{ID: "a", Text: "Prayer", Quadrant: model.UrgentImportant})
	m, _ := newTestModel(t, fake)

	// Unchanged.
	m = press(t, m, runes("e"))
	m = submit(t, m, enter)

	// Cleared to empty.
	m = press(t, m, runes("e"))
	for range len("Prayer") {
		m = press(t, m, backspace)
	}
	m = submit(t, m, enter)

	assert.Zero(t, fake.UpdateCalls())
	assert.Equal(t, "Prayer", fake.Stored()[0].Text)
	assert.Contains(t, m.View(), "Prayer")
}

func TestFailedEditRevertsText(t *testing.T) {
	fake := testutil.NewFakeAPI(model.Task{ID: "a", Text: "Prayer", Quadrant: model.UrgentImportant})
	fake.UpdateErr = errors.New("db down")
	m, _ := newTestModel(t, fake)

	m = press(t, m, runes("e"))
	m = typeText(t, m, "s")
	m = submit(t, m, enter)

	assert.Equal(t, 1, fake.UpdateCalls())
	assert.Equal(t, "Prayer", m.cards["a"].Draft())
	view := m.View()
	assert.Contains(t, view, "Prayer")
	assert.NotContains(t, view, "Prayers")
	assert.Contains(t, view, "Failed to save task edit")
}

func TestEmptyNewTaskIgnored(t *testing.T) {
	fake := testutil.NewFakeAPI()
	m, _ := newTestModel(t, fake)

	m = press(t, m, runes("a"))
	m = typeText(t, m, "   ")
	m = submit(t, m, enter)

	assert.Empty(t, fake.Calls)
	assert.Equal(t, adding, m.mode)
}

func TestFailedCreateKeepsInput(t *testing.T) {
	fake := testutil.NewFakeAPI()
	fake.CreateErr = errors.New("db down")
	m, _ := newTestModel(t, fake)

	m = press(t, m, runes("a"))
	m = typeText(t, m, "Call mom")
	m = submit(t, m, enter)

	assert.Equal(t, "Call mom", m.input.Value())
	assert.Contains(t, m.View(), "Failed to create task")
}

func TestMovingSelectionDisarms(t *testing.T) {
	fake := testutil.NewFakeAPI(
		model.Task{ID: "a", Text: "First", Quadrant: model.UrgentImportant},
		model.Task{ID: "b", Text: "Second", Quadrant: model.UrgentImportant},
	)
	m, clock := newTestModel(t, fake)

	m = press(t, m, runes("d"))
	assert.Contains(t, m.View(), "d again to delete")

	m = press(t, m, runes("j"))
	m = press(t, m, runes("k"))
	assert.NotContains(t, m.View(), "d again to delete")

	m = press(t, m, runes("d"))
	assert.Equal(t, board.Armed, m.cards["a"].State(clock.now()), "first press after leaving only re-arms")
	assert.Len(t, fake.Stored(), 2)
	assert.NotContains(t, fake.Calls, "delete:a")
}

func TestTasksRenderOnlyInTheirCell(t *testing.T) {
	fake := testutil.NewFakeAPI(
		model.Task{ID: "a", Text: "Taxes", Quadrant: model.NotUrgentNotImportant},
	)
	m, _ := newTestModel(t, fake)

	assert.Empty(t, m.cellTasks(0))
	assert.Empty(t, m.cellTasks(1))
	assert.Empty(t, m.cellTasks(2))
	require.Len(t, m.cellTasks(3), 1)

	m = press(t, m, runes("j"))
	m = press(t, m, runes("l"))
	assert.Equal(t, 3, m.cell)
	require.NotNil(t, m.selected())
	assert.Equal(t, "a", m.selected().Task().ID)
}
