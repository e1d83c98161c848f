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

package client

import (
	"context"
	"slices"
	"sync"

	"eisenhower/src/model"
)

// Hook keeps an in-memory copy of the server's task list. Each mutation is
// sent to the API first; on success the local copy is patched in place so
// callers never need a full refetch. Failures are returned unchanged and
// leave local state untouched.
type Hook struct {
	api API

	mu      sync.RWMutex
	tasks   []model.Task
	loading bool
	err     error
}

func NewHook(api API) *Hook {
	return &Hook{api: api, loading: true}
}

// Load fetches the full list, replacing local state.
func (h *Hook) Load(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.err = nil
	h.mu.Unlock()

	tasks, err := h.api.List(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false
	if err != nil {
		h.err = err
		return err
	}
	h.tasks = tasks
	return nil
}

func (h *Hook) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// Err is the error of the last Load, if any.
func (h *Hook) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// Tasks returns a copy of the local list in fetch order.
func (h *Hook) Tasks() []model.Task {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.tasks)
}

// Task looks up a task by id in the local list.
func (h *Hook) Task(id string) (model.Task, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i := slices.IndexFunc(h.tasks, func(t model.Task) bool { return t.ID == id })
	if i < 0 {
		return model.Task{}, false
	}
	return h.tasks[i], true
}

func (h *Hook) Create(ctx context.Context, task model.NewTask) (model.Task, error) {
	created, err := h.api.Create(ctx, task)
	if err != nil {
		return model.Task{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.tasks = append(h.tasks, created)
	return created, nil
}

func (h *Hook) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	updated, err := h.api.Update(ctx, id, patch)
	if err != nil {
		return model.Task{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.tasks {
		if h.tasks[i].ID == id {
			h.tasks[i] = updated
		}
	}
	return updated, nil
}

func (h *Hook) Delete(ctx context.Context, id string) error {
	if err := h.api.Delete(ctx, id); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.tasks = slices.DeleteFunc(h.tasks, func(t model.Task) bool { return t.ID == id })
	return nil
}
