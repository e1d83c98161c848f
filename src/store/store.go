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

// Package store persists task records.
package store

import (
	"context"
	"errors"

	"eisenhower/src/model"
)

// ErrNotFound is returned when an operation targets a missing task id.
var ErrNotFound = errors.New("task not found")

// Store is the task persistence contract.
type Store interface {
	// List returns every task in insertion order.
	List(ctx context.Context) ([]model.Task, error)

	Get(ctx context.Context, id string) (model.Task, error)

	// Create stores a new task under a generated id.
	Create(ctx context.Context, task model.NewTask) (model.Task, error)

	// Update merges the present fields of patch into the task and returns
	// the full record. Absent fields keep their stored values.
	Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)

	Delete(ctx context.Context, id string) error

	// Counts returns per-quadrant totals.
	Counts(ctx context.Context) (model.MatrixStats, error)

	// Reset removes every task.
	Reset(ctx context.Context) error
}
