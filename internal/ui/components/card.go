package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaboard/internal/ui/theme"
)

// StatCard renders a titled number in a rounded-border card of the given
// outer width.
func StatCard(title, value string, width int) string {
	body := lipgloss.NewStyle().Foreground(theme.TextDim).Render(title) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(value)
	return theme.Card.
		Width(max(width-2, 8)).
		Render(body)
}

// CardRow lays out cards side by side, splitting width evenly.
func CardRow(width int, cards ...[2]string) string {
	if len(cards) == 0 {
		return ""
	}
	w := width / len(cards)
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, StatCard(c[0], c[1], w))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// Panel wraps content in a titled rounded-border panel.
func Panel(title, content string, width int) string {
	heading := theme.Title.Render(title)
	return theme.Panel.
		Width(max(width-2, 8)).
		Render(heading + "\n\n" + content)
}
