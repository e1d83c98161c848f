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

package model

import "slices"

// QuadrantInfo describes how a quadrant is presented. It is never stored.
type QuadrantInfo struct {
	ID     Quadrant
	Name   string
	Action string
	Class  string
	Legend string
}

// Display order is fixed: top-left, top-right, bottom-left, bottom-right.
var quadrants = []QuadrantInfo{
	{
		ID:     UrgentImportant,
		Name:   "Important & Urgent",
		Action: "Do First",
		Class:  "q-do",
		Legend: "Green (top-left)",
	},
	{
		ID:     NotUrgentImportant,
		Name:   "Important & Not Urgent",
		Action: "Schedule",
		Class:  "q-schedule",
		Legend: "Light green (top-right)",
	},
	{
		ID:     UrgentNotImportant,
		Name:   "Not Important & Urgent",
		Action: "Delegate",
		Class:  "q-delegate",
		Legend: "Blue (bottom-left)",
	},
	{
		ID:     NotUrgentNotImportant,
		Name:   "Not Important & Not Urgent",
		Action: "Eliminate",
		Class:  "q-eliminate",
		Legend: "Gray (bottom-right)",
	},
}

// Quadrants returns the four quadrants in display order.
func Quadrants() []QuadrantInfo {
	return slices.Clone(quadrants)
}

// Info looks up the presentation record for q.
func Info(q Quadrant) (QuadrantInfo, bool) {
	for _, info := range quadrants {
		if info.ID == q {
			return info, true
		}
	}
	return QuadrantInfo{}, false
}

// Index is the display position of q, or -1.
func Index(q Quadrant) int {
	return slices.IndexFunc(quadrants, func(info QuadrantInfo) bool { return info.ID == q })
}

// MatrixStats counts tasks per quadrant.
type MatrixStats struct {
	TotalTasks int              `json:"total_tasks"`
	ByQuadrant map[Quadrant]int `json:"by_quadrant"`
}
