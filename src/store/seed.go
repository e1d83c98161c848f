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

package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"eisenhower/src/model"
)

// SeedFile is the YAML layout accepted by LoadSeedFile:
//
//	tasks:
//	  - text: Prayer
//	    x: 50
//	    y: 50
//	    quadrant: urgent-important
type SeedFile struct {
	Tasks []model.NewTask `yaml:"tasks"`
}

// DefaultSeed is the single task a fresh development database starts with.
func DefaultSeed() []model.NewTask {
	return []model.NewTask{
		{Text: "Prayer", X: 50, Y: 50, Quadrant: model.UrgentImportant},
	}
}

func LoadSeedFile(path string) ([]model.NewTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	for i, task := range file.Tasks {
		if _, err := task.Normalize(); err != nil {
			return nil, fmt.Errorf("seed task %d: %w", i, err)
		}
	}
	return file.Tasks, nil
}

// Seed clears the store and inserts tasks in order.
func Seed(ctx context.Context, s Store, tasks []model.NewTask) ([]model.Task, error) {
	if err := s.Reset(ctx); err != nil {
		return nil, err
	}

	created := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		t, err := s.Create(ctx, task)
		if err != nil {
			return created, fmt.Errorf("seeding %q: %w", task.Text, err)
		}
		created = append(created, t)
	}
	return created, nil
}
