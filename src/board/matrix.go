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

package board

import "eisenhower/src/model"

type Cell struct {
	Info  model.QuadrantInfo
	Tasks []model.Task
}

// Layout splits tasks into the four cells in display order. Each cell gets
// exactly the tasks whose quadrant matches, in the order given.
func Layout(tasks []model.Task) []Cell {
	cells := make([]Cell, 0, 4)
	for _, info := range model.Quadrants() {
		cell := Cell{Info: info}
		for _, t := range tasks {
			if t.Quadrant == info.ID {
				cell.Tasks = append(cell.Tasks, t)
			}
		}
		cells = append(cells, cell)
	}
	return cells
}

// Cards keeps one Card per task id in step with a task list.
type Cards map[string]*Card

// Sync adds cards for new tasks, refreshes existing ones and drops cards
// whose task is gone.
func (cs Cards) Sync(tasks []model.Task) {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		seen[t.ID] = true
		if c, ok := cs[t.ID]; ok {
			c.SetTask(t)
		} else {
			cs[t.ID] = NewCard(t)
		}
	}
	for id := range cs {
		if !seen[id] {
			delete(cs, id)
		}
	}
}
