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

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"eisenhower/src/board"
	"eisenhower/src/client"
	"eisenhower/src/logging"
	"eisenhower/src/model"
	"eisenhower/src/tui"
)

func (a *app) client() *client.Client {
	return client.New(a.cfg.APIURL)
}

func (a *app) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and change tasks through the API",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print tasks grouped by quadrant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.client().List(cmd.Context())
			if err != nil {
				return err
			}
			printMatrix(cmd.OutOrStdout(), tasks)
			return nil
		},
	}

	var quadrant string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return errors.New("task text cannot be empty")
			}
			q, err := model.ParseQuadrant(quadrant)
			if err != nil {
				return err
			}
			task, err := a.client().Create(cmd.Context(), model.NewTask{Text: text, Quadrant: q})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), task.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&quadrant, "quadrant", "q", string(model.DefaultQuadrant), "quadrant id, position 1-4 or action name")

	move := &cobra.Command{
		Use:   "move <id> <quadrant>",
		Short: "Move a task to another quadrant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := model.ParseQuadrant(args[1])
			if err != nil {
				return err
			}
			task, err := a.client().Update(cmd.Context(), args[0], model.MovePatch(q))
			if err != nil {
				return err
			}
			info, _ := model.Info(task.Quadrant)
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", task.ID, info.Action)
			return nil
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.client()
			id := args[0]
			tasks, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			current, ok := findTask(tasks, id)
			if !ok {
				return fmt.Errorf("no task with id %s", id)
			}
			text, save := board.CommitText(current.Text, strings.Join(args[1:], " "))
			if !save {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to change.")
				return nil
			}
			if _, err := c.Update(cmd.Context(), id, model.TextPatch(text)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Task deleted successfully")
			return nil
		},
	}

	cmd.AddCommand(list, add, move, edit, rm)
	return cmd
}

func findTask(tasks []model.Task, id string) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func printMatrix(w io.Writer, tasks []model.Task) {
	for _, cell := range board.Layout(tasks) {
		fmt.Fprintf(w, "%s (%s)\n", cell.Info.Action, cell.Info.Name)
		if len(cell.Tasks) == 0 {
			fmt.Fprintln(w, "  -")
		}
		for _, t := range cell.Tasks {
			fmt.Fprintf(w, "  %s  %s\n", t.ID, t.Text)
		}
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server uptime and task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.client().Status(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Uptime:      %s\n", status.Uptime)
			fmt.Fprintf(w, "Total tasks: %d\n", status.TotalTasks)
			for _, info := range model.Quadrants() {
				fmt.Fprintf(w, "  %-10s %d\n", info.Action+":", status.ByQuadrant[info.ID])
			}
			return nil
		},
	}
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the matrix in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would tear the alternate screen.
			logging.UseWriter(io.Discard, slog.LevelError)

			hook := client.NewHook(a.client())
			p := tea.NewProgram(tui.New(hook),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()))
			_, err := p.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
}
