package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const defaultColumnWidth = 28

type RenderOptions struct {
	Now         time.Time
	ColumnWidth int
	// Stale marks output drawn from a cache entry that is being refetched.
	Stale bool
}

func (o RenderOptions) columnWidth() int {
	if o.ColumnWidth <= 0 {
		return defaultColumnWidth
	}
	return o.ColumnWidth
}

func renderBoard(columns []domain.Column, opts RenderOptions, s styles) string {
	total := 0
	for _, column := range columns {
		total += len(column.Tasks)
	}

	lines := []string{
		s.title.Render("Task Board"),
		s.header.Render(fmt.Sprintf("stages: %d  tasks: %d", len(columns), total)),
	}
	if opts.Stale {
		lines = append(lines, s.warning.Render("stale: refreshing"))
	}

	if len(columns) == 0 {
		lines = append(lines, s.empty.Render("No tasks on the board."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rendered := make([]string, 0, len(columns))
	for _, column := range columns {
		rendered = append(rendered, renderColumn(column, opts, s))
	}

	lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderColumn(column domain.Column, opts RenderOptions, s styles) string {
	width := opts.columnWidth()
	stage := column.Stage
	if strings.TrimSpace(stage) == "" {
		stage = "(no stage)"
	}

	parts := []string{
		s.stage.Render(fmt.Sprintf("%s (%d)", truncate(stage, width), len(column.Tasks))),
	}
	for _, task := range column.Tasks {
		parts = append(parts, s.card.Render(renderCard(task, opts, s)))
	}

	return s.column.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func renderCard(task domain.Task, opts RenderOptions, s styles) string {
	width := opts.columnWidth()
	lines := []string{
		s.priorityStyle(task.Priority).Render(priorityMarker(task.Priority)) + " " +
			s.taskName.Render(truncate(task.Title, width-2)),
		s.detail.Render(truncate(string(task.ID), width)),
	}
	if due := dueLine(task, opts.Now, s); due != "" {
		lines = append(lines, due)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTask(task domain.Task, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(task.Title),
		s.header.Render(string(task.ID)),
	}
	if opts.Stale {
		lines = append(lines, s.warning.Render("stale: refreshing"))
	}

	field := func(name, value string) {
		if value == "" {
			return
		}
		lines = append(lines, s.label.Render(name+": ")+s.taskName.Render(value))
	}

	field("stage", task.CurrentStage)
	lines = append(lines, s.label.Render("priority: ")+s.priorityStyle(task.Priority).Render(string(task.Priority)))
	field("workflow", string(task.WorkflowID))
	field("assigned", joinUsers(task.AssignedUsers))
	field("created by", string(task.CreatedBy))
	if due := dueLine(task, opts.Now, s); due != "" {
		lines = append(lines, due)
	}
	if task.CompletedAt != nil {
		field("completed", task.CompletedAt.UTC().Format(time.RFC3339))
	}
	if !task.CreatedAt.IsZero() {
		field("created", task.CreatedAt.UTC().Format(time.RFC3339))
	}
	if !task.UpdatedAt.IsZero() {
		field("updated", task.UpdatedAt.UTC().Format(time.RFC3339))
	}
	if desc := strings.TrimSpace(task.Description); desc != "" {
		lines = append(lines, "", s.detail.Render(desc))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func dueLine(task domain.Task, now time.Time, s styles) string {
	if task.DueDate == nil {
		return ""
	}

	due := task.DueDate.UTC()
	text := "due " + due.Format("02 Jan 2006")
	if task.CompletedAt == nil && !now.IsZero() && due.Before(now) {
		return s.overdue.Render(text + " (overdue)")
	}

	return s.detail.Render(text)
}

func priorityMarker(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return "!!!"
	case domain.PriorityMedium:
		return "!!"
	case domain.PriorityLow:
		return "!"
	default:
		return "-"
	}
}

func joinUsers(users []domain.UserID) string {
	names := make([]string, 0, len(users))
	for _, user := range users {
		names = append(names, string(user))
	}
	return strings.Join(names, ", ")
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if width <= 1 || len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}
