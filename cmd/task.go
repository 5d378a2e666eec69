package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	boardrender "github.com/bnema/taskflow-cli/internal/adapters/render/board"
	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const dueDateLayout = "2006-01-02"

func newTaskCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "List, inspect and edit tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskGetCmd(app),
		newTaskCreateCmd(app),
		newTaskUpdateCmd(app),
		newTaskMoveCmd(app),
		newTaskDeleteCmd(app),
	)

	return cmd
}

func newTaskListCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			var tasks []domain.Task
			fetch := func(ctx context.Context) error {
				var listErr error
				tasks, listErr = app.tasks.ListTasks(ctx)
				return listErr
			}
			if err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching tasks...", fetch); err != nil {
				return err
			}

			return writeOutput(cmd, format, tasks, func() (string, error) {
				return renderTaskTable(tasks, app.now()), nil
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}

func newTaskGetCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			task, err := app.tasks.GetTask(cmd.Context(), domain.TaskID(args[0]))
			if err != nil {
				return err
			}

			return writeOutput(cmd, format, task, func() (string, error) {
				return app.renderTask(task, boardrender.RenderOptions{Now: app.now()})
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}

func newTaskCreateCmd(app *app) *cobra.Command {
	var title, description, priority, workflow, due, output string
	var assignees []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			parsedPriority, err := domain.ParsePriority(priority)
			if err != nil {
				return err
			}
			dueDate, err := parseDueDate(due)
			if err != nil {
				return err
			}

			task, err := app.tasks.CreateTask(cmd.Context(), domain.CreateTaskRequest{
				Title:         title,
				Description:   description,
				Priority:      parsedPriority,
				WorkflowID:    domain.WorkflowID(workflow),
				AssignedUsers: userIDs(assignees),
				DueDate:       dueDate,
			})
			if err != nil {
				return err
			}

			return writeOutput(cmd, format, task, func() (string, error) {
				return fmt.Sprintf("Created task %s (%s)", task.ID, task.Title), nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&priority, "priority", string(domain.PriorityMedium), "Priority (low|medium|high)")
	cmd.Flags().StringVar(&workflow, "workflow", "", "Workflow ID")
	cmd.Flags().StringSliceVar(&assignees, "assign", nil, "User IDs to assign (repeatable or comma separated)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC3339)")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("workflow")

	return cmd
}

func newTaskUpdateCmd(app *app) *cobra.Command {
	var title, description, priority, stage, due, output string
	var assignees []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			var req domain.UpdateTaskRequest
			flags := cmd.Flags()
			if flags.Changed("title") {
				req.Title = &title
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("priority") {
				parsed, err := domain.ParsePriority(priority)
				if err != nil {
					return err
				}
				req.Priority = &parsed
			}
			if flags.Changed("stage") {
				req.CurrentStage = &stage
			}
			if flags.Changed("assign") {
				ids := userIDs(assignees)
				if ids == nil {
					ids = []domain.UserID{}
				}
				req.AssignedUsers = &ids
			}
			if flags.Changed("due") {
				req.DueDate, err = parseDueDate(due)
				if err != nil {
					return err
				}
			}

			task, err := app.tasks.UpdateTask(cmd.Context(), domain.TaskID(args[0]), req)
			if err != nil {
				return err
			}

			return writeOutput(cmd, format, task, func() (string, error) {
				return fmt.Sprintf("Updated task %s (%s)", task.ID, task.Title), nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority (low|medium|high)")
	cmd.Flags().StringVar(&stage, "stage", "", "New workflow stage")
	cmd.Flags().StringSliceVar(&assignees, "assign", nil, "Replace assigned user IDs")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD or RFC3339)")
	addOutputFlag(cmd, &output)

	return cmd
}

func newTaskMoveCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "move <id> <stage>",
		Short: "Move a task to another workflow stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			task, err := app.tasks.MoveTask(cmd.Context(), domain.MoveTaskRequest{
				TaskID:   domain.TaskID(args[0]),
				NewStage: args[1],
			})
			if err != nil {
				return fmt.Errorf("move task %s: %w", args[0], err)
			}

			return writeOutput(cmd, format, task, func() (string, error) {
				return fmt.Sprintf("Moved task %s to %s", task.ID, task.CurrentStage), nil
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}

func newTaskDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.tasks.DeleteTask(cmd.Context(), domain.TaskID(args[0])); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return err
		},
	}
}

func renderTaskTable(tasks []domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("No tasks.")
	}

	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, []string{
			string(task.ID),
			task.Title,
			task.CurrentStage,
			string(task.Priority),
			dueCell(task, now),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241"))
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "STAGE", "PRIORITY", "DUE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

func dueCell(task domain.Task, now time.Time) string {
	if task.DueDate == nil {
		return "-"
	}
	cell := task.DueDate.UTC().Format(dueDateLayout)
	if task.CompletedAt == nil && task.DueDate.Before(now) {
		cell += " (overdue)"
	}
	return cell
}

func parseDueDate(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, dueDateLayout} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			utc := parsed.UTC()
			return &utc, nil
		}
	}

	return nil, fmt.Errorf("%w: invalid due date %q (want YYYY-MM-DD or RFC3339)", domain.ErrInvalidTask, raw)
}

func userIDs(raw []string) []domain.UserID {
	if raw == nil {
		return nil
	}
	ids := make([]domain.UserID, 0, len(raw))
	for _, id := range raw {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, domain.UserID(trimmed))
		}
	}
	return ids
}
