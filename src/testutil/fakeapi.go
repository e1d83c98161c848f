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

// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"eisenhower/src/model"
	"eisenhower/src/store"
)

// FakeAPI is an in-memory implementation of client.API for testing.
type FakeAPI struct {
	mu     sync.RWMutex
	tasks  []model.Task
	nextID int

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Calls records every mutating call as "create", "update:<id>" or
	// "delete:<id>".
	Calls []string
}

func NewFakeAPI(tasks ...model.Task) *FakeAPI {
	return &FakeAPI{tasks: slices.Clone(tasks)}
}

// Stored returns the server-side list.
func (f *FakeAPI) Stored() []model.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks)
}

// UpdateCalls counts update requests.
func (f *FakeAPI) UpdateCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c, "update:") {
			n++
		}
	}
	return n
}

func (f *FakeAPI) List(ctx context.Context) ([]model.Task, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Stored(), nil
}

func (f *FakeAPI) Create(ctx context.Context, nt model.NewTask) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "create")
	if f.CreateErr != nil {
		return model.Task{}, f.CreateErr
	}
	nt, err := nt.Normalize()
	if err != nil {
		return model.Task{}, err
	}
	f.nextID++
	task := model.Task{
		ID:       fmt.Sprintf("task-%d", f.nextID),
		Text:     nt.Text,
		X:        nt.X,
		Y:        nt.Y,
		Quadrant: nt.Quadrant,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *FakeAPI) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "update:"+id)
	if f.UpdateErr != nil {
		return model.Task{}, f.UpdateErr
	}
	if err := patch.Validate(); err != nil {
		return model.Task{}, err
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = patch.Apply(t)
			return f.tasks[i], nil
		}
	}
	return model.Task{}, store.ErrNotFound
}

func (f *FakeAPI) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "delete:"+id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	n := len(f.tasks)
	f.tasks = slices.DeleteFunc(f.tasks, func(t model.Task) bool { return t.ID == id })
	if len(f.tasks) == n {
		return store.ErrNotFound
	}
	return nil
}
