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

import (
	"fmt"
	"strings"
)

type Quadrant string

const (
	UrgentImportant       Quadrant = "urgent-important"
	NotUrgentImportant    Quadrant = "not-urgent-important"
	UrgentNotImportant    Quadrant = "urgent-not-important"
	NotUrgentNotImportant Quadrant = "not-urgent-not-important"
)

// DefaultQuadrant is where new tasks land when no quadrant is given.
const DefaultQuadrant = UrgentImportant

func (q Quadrant) Valid() bool {
	switch q {
	case UrgentImportant, NotUrgentImportant, UrgentNotImportant, NotUrgentNotImportant:
		return true
	}
	return false
}

// ParseQuadrant accepts a quadrant id ("urgent-important") or a
// one-based position in display order ("1".."4") or an action name
// ("schedule").
func ParseQuadrant(s string) (Quadrant, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if q := Quadrant(s); q.Valid() {
		return q, nil
	}
	for i, info := range quadrants {
		if s == fmt.Sprint(i+1) || s == strings.ToLower(info.Action) {
			return info.ID, nil
		}
	}
	return "", &ValidationError{Field: "quadrant", Reason: fmt.Sprintf("unknown quadrant %q", s)}
}

type Task struct {
	ID       string   `json:"id" db:"id"`
	Text     string   `json:"text" db:"text"`
	X        float64  `json:"x" db:"x"`
	Y        float64  `json:"y" db:"y"`
	Quadrant Quadrant `json:"quadrant" db:"quadrant"`
}

// NewTask carries the fields supplied on creation; the store assigns the id.
type NewTask struct {
	Text     string   `json:"text" yaml:"text"`
	X        float64  `json:"x" yaml:"x"`
	Y        float64  `json:"y" yaml:"y"`
	Quadrant Quadrant `json:"quadrant" yaml:"quadrant"`
}

// Normalize fills in the default quadrant and validates the result.
func (n NewTask) Normalize() (NewTask, error) {
	if n.Quadrant == "" {
		n.Quadrant = DefaultQuadrant
	}
	if !n.Quadrant.Valid() {
		return n, &ValidationError{Field: "quadrant", Reason: fmt.Sprintf("unknown quadrant %q", n.Quadrant)}
	}
	return n, nil
}

// TaskPatch is a partial update. A nil field is absent and must be left
// untouched; it is never written as a zero value.
type TaskPatch struct {
	Text     *string   `json:"text,omitempty"`
	X        *float64  `json:"x,omitempty"`
	Y        *float64  `json:"y,omitempty"`
	Quadrant *Quadrant `json:"quadrant,omitempty"`
}

func (p TaskPatch) Empty() bool {
	return p.Text == nil && p.X == nil && p.Y == nil && p.Quadrant == nil
}

func (p TaskPatch) Validate() error {
	if p.Quadrant != nil && !p.Quadrant.Valid() {
		return &ValidationError{Field: "quadrant", Reason: fmt.Sprintf("unknown quadrant %q", *p.Quadrant)}
	}
	return nil
}

// Apply returns t with the present fields of p merged in.
func (p TaskPatch) Apply(t Task) Task {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.X != nil {
		t.X = *p.X
	}
	if p.Y != nil {
		t.Y = *p.Y
	}
	if p.Quadrant != nil {
		t.Quadrant = *p.Quadrant
	}
	return t
}

// TextPatch and MovePatch build the two patches the matrix UIs send.
func TextPatch(text string) TaskPatch {
	return TaskPatch{Text: &text}
}

func MovePatch(q Quadrant) TaskPatch {
	return TaskPatch{Quadrant: &q}
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
