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

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"eisenhower/src/board"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	armedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)

	cellColors = map[string]lipgloss.Color{
		"q-do":        lipgloss.Color("#059669"),
		"q-schedule":  lipgloss.Color("#34d399"),
		"q-delegate":  lipgloss.Color("#3b82f6"),
		"q-eliminate": lipgloss.Color("#94a3b8"),
	}
)

func (m Model) View() string {
	if !m.loaded {
		return "Loading tasks...\n"
	}
	if m.loadErr != nil {
		return errorStyle.Render("Error: "+m.loadErr.Error()) + "\n" +
			helpStyle.Render("r reload • q quit") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Eisenhower Matrix"))
	sb.WriteString("\n")

	if m.mode == adding {
		sb.WriteString("New task: " + m.input.View() + "\n\n")
	}

	cellWidth := max((m.width-4)/2, 24)
	cells := board.Layout(m.hook.Tasks())
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = m.renderCell(i, cell, cellWidth)
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], rendered[1]))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered[2], rendered[3]))
	sb.WriteString("\n")

	if m.message != "" {
		sb.WriteString(errorStyle.Render(m.message) + "\n")
	}
	sb.WriteString(helpStyle.Render("←↑↓→ select • 1-4 move • a add • e edit • d delete • r reload • q quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderCell(index int, cell board.Cell, width int) string {
	color := cellColors[cell.Info.Class]
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(width).
		Height(8).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(color).Render(cell.Info.Name))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(cell.Info.Action))
	sb.WriteString("\n\n")

	now := m.now()
	for row, task := range cell.Tasks {
		card := m.cards[task.ID]
		line := task.Text
		if card != nil {
			switch card.State(now) {
			case board.Editing:
				line = m.input.View()
			case board.Armed:
				line += " " + armedStyle.Render("[d again to delete]")
			}
		}
		if index == m.cell && row == m.row && m.mode != editing {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}
	return style.Render(strings.TrimRight(sb.String(), "\n"))
}
