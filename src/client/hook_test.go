package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"eisenhower/src/api"
	"eisenhower/src/config"
	"eisenhower/src/model"
	"eisenhower/src/store"
	"eisenhower/src/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHookLoad(t *testing.T) {
	fake := testutil.NewFakeAPI(
		model.Task{ID: "a", Text: "Prayer", Quadrant: model.UrgentImportant},
		model.Task{ID: "b", Text: "Read", Quadrant: model.NotUrgentImportant},
	)
	hook := NewHook(fake)
	assert.True(t, hook.Loading())

	require.NoError(t, hook.Load(context.Background()))
	assert.False(t, hook.Loading())
	assert.NoError(t, hook.Err())
	assert.Equal(t, fake.Stored(), hook.Tasks())
}

func TestHookLoadFailure(t *testing.T) {
	fake := testutil.NewFakeAPI()
	fake.ListErr = errors.New("offline")
	hook := NewHook(fake)

	err := hook.Load(context.Background())
	assert.EqualError(t, err, "offline")
	assert.False(t, hook.Loading())
	assert.EqualError(t, hook.Err(), "offline")
	assert.Empty(t, hook.Tasks())
}

func TestHookMutationsReconcileWithoutRefetch(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeAPI()
	hook := NewHook(fake)
	require.NoError(t, hook.Load(ctx))

	created, err := hook.Create(ctx, model.NewTask{Text: "Write report"})
	require.NoError(t, err)
	assert.Equal(t, []model.Task{created}, hook.Tasks())

	// Make the server list diverge so only local reconciliation can explain
	// what the hook shows.
	fake.ListErr = errors.New("list must not be called")

	moved, err := hook.Update(ctx, created.ID, model.MovePatch(model.NotUrgentImportant))
	require.NoError(t, err)
	assert.Equal(t, model.NotUrgentImportant, moved.Quadrant)
	got, ok := hook.Task(created.ID)
	require.True(t, ok)
	assert.Equal(t, moved, got)

	require.NoError(t, hook.Delete(ctx, created.ID))
	assert.Empty(t, hook.Tasks())
	_, ok = hook.Task(created.ID)
	assert.False(t, ok)
}

func TestHookMutationFailuresLeaveStateAlone(t *testing.T) {
	ctx := context.Background()
	task := model.Task{ID: "a", Text: "Prayer", Quadrant: model.UrgentImportant}
	fake := testutil.NewFakeAPI(task)
	hook := NewHook(fake)
	require.NoError(t, hook.Load(ctx))

	fake.CreateErr = errors.New("create failed")
	fake.UpdateErr = errors.New("update failed")
	fake.DeleteErr = errors.New("delete failed")

	_, err := hook.Create(ctx, model.NewTask{Text: "x"})
	assert.EqualError(t, err, "create failed")
	_, err = hook.Update(ctx, "a", model.TextPatch("changed"))
	assert.EqualError(t, err, "update failed")
	assert.EqualError(t, hook.Delete(ctx, "a"), "delete failed")

	assert.Equal(t, []model.Task{task}, hook.Tasks())
}

func TestHookTasksReturnsCopy(t *testing.T) {
	fake := testutil.NewFakeAPI(model.Task{ID: "a", Text: "Prayer", Quadrant: model.UrgentImportant})
	hook := NewHook(fake)
	require.NoError(t, hook.Load(context.Background()))

	tasks := hook.Tasks()
	tasks[0].Text = "mutated"
	assert.Equal(t, "Prayer", hook.Tasks()[0].Text)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := store.Open(context.Background(), config.DriverSQLite, ":memory:")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.NewHandler(s).Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		s.Close()
	})
	return srv
}

func TestClientAgainstServer(t *testing.T) {
	ctx := context.Background()
	c := New(newTestServer(t).URL + "/")

	tasks, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	created, err := c.Create(ctx, model.NewTask{Text: "Write report", Quadrant: model.UrgentImportant})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := c.Update(ctx, created.ID, model.TaskPatch{Text: ptr("Write final report")})
	require.NoError(t, err)
	assert.Equal(t, "Write final report", updated.Text)
	assert.Equal(t, model.UrgentImportant, updated.Quadrant)

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalTasks)

	require.NoError(t, c.Delete(ctx, created.ID))

	err = c.Delete(ctx, created.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "Failed to delete task", apiErr.Message)
}

func TestHookAgainstServer(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	hook := NewHook(New(srv.URL))
	require.NoError(t, hook.Load(ctx))

	task, err := hook.Create(ctx, model.NewTask{Text: "Write report"})
	require.NoError(t, err)
	_, err = hook.Update(ctx, task.ID, model.MovePatch(model.NotUrgentImportant))
	require.NoError(t, err)

	// A fresh fetch agrees with the reconciled local copy.
	fresh := NewHook(New(srv.URL))
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, hook.Tasks(), fresh.Tasks())
	assert.Equal(t, model.NotUrgentImportant, fresh.Tasks()[0].Quadrant)
}

func ptr[T any](v T) *T { return &v }
