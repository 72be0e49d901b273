package components

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaboard/internal/ui/theme"
)

// Bar is one row of a BarChart.
type Bar struct {
	Label    string
	Fraction float64 // 0.0-1.0 of the full bar width
	Value    string  // shown after the bar, e.g. "12  24.0%"
	Color    color.Color
}

// BarChart renders labelled horizontal bars.
type BarChart struct {
	Bars       []Bar
	Width      int
	LabelWidth int
}

// NewBarChart creates a chart whose label column fits the longest label,
// capped at a third of width.
func NewBarChart(bars []Bar, width int) BarChart {
	lw := 0
	for _, b := range bars {
		lw = max(lw, lipgloss.Width(b.Label))
	}
	return BarChart{Bars: bars, Width: width, LabelWidth: min(lw, width/3)}
}

// View renders the chart, one bar per line.
func (c BarChart) View() string {
	valueWidth := 0
	for _, b := range c.Bars {
		valueWidth = max(valueWidth, lipgloss.Width(b.Value))
	}

	barWidth := max(c.Width-c.LabelWidth-valueWidth-4, 4)

	rows := make([]string, 0, len(c.Bars))
	for _, b := range c.Bars {
		filled := int(float64(barWidth) * b.Fraction)
		filled = min(max(filled, 0), barWidth)
		if b.Fraction > 0 && filled == 0 {
			filled = 1
		}

		label := truncate(b.Label, c.LabelWidth)
		row := lipgloss.NewStyle().Foreground(theme.Text).Width(c.LabelWidth).Render(label) + "  " +
			lipgloss.NewStyle().Background(b.Color).Render(strings.Repeat(" ", filled)) +
			theme.BarEmpty.Render(strings.Repeat(" ", barWidth-filled)) + "  " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(b.Value)
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
