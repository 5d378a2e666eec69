package board

import (
	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	column   lipgloss.Style
	stage    lipgloss.Style
	card     lipgloss.Style
	taskName lipgloss.Style
	detail   lipgloss.Style
	label    lipgloss.Style
	overdue  lipgloss.Style
	warning  lipgloss.Style
	empty    lipgloss.Style
	priority map[domain.Priority]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		column:   lipgloss.NewStyle().MarginRight(2),
		stage:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Underline(true),
		card:     lipgloss.NewStyle().MarginTop(1),
		taskName: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		overdue:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		empty:    lipgloss.NewStyle().Faint(true),
		priority: map[domain.Priority]lipgloss.Style{
			domain.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
			domain.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			domain.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
		},
	}
}

func (s styles) priorityStyle(p domain.Priority) lipgloss.Style {
	if style, ok := s.priority[p]; ok {
		return style
	}
	return s.detail
}
