package board

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaboard/internal/dashboard"
	"github.com/abhisek/triviaboard/internal/palette"
	"github.com/abhisek/triviaboard/internal/stats"
	"github.com/abhisek/triviaboard/internal/trivia"
	"github.com/abhisek/triviaboard/internal/ui/components"
	"github.com/abhisek/triviaboard/internal/ui/layout"
	"github.com/abhisek/triviaboard/internal/ui/theme"
)

func (s *BoardScreen) View(width, height int) string {
	switch s.phase {
	case dashboard.PhaseIdle, dashboard.PhaseLoading:
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Render("\n\n" + s.spinner.View() + " " + theme.Subtitle.Render("Loading trivia data..."))
	case dashboard.PhaseFailed:
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Render("\n\n" + theme.ErrorText.Render("Failed to load trivia data.") + "\n\n" +
				theme.Subtitle.Render(s.err.Error()) + "\n\n" +
				theme.Hint.Render("Press r to try again."))
	}

	cw := max(width-2, 20)
	all := s.result.Questions
	filtered := s.selection.Apply(all)

	var sections []string
	sections = append(sections, renderCards(all, len(filtered) > 0, layout.IsCompactHeight(height), cw))
	if note := filteredStatus(s.result); note != "" {
		sections = append(sections, theme.Hint.Render("  "+note))
	}
	sections = append(sections, components.Panel("Choose Categories", s.filters.View(cw-4), cw))

	if layout.IsCompactWidth(width) {
		sections = append(sections,
			renderCategoryChart(filtered, cw),
			renderDifficultyChart(filtered, cw))
	} else {
		half := cw / 2
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			renderCategoryChart(filtered, half),
			renderDifficultyChart(filtered, cw-half)))
	}

	content := strings.Join(sections, "\n")
	view, offset := layout.Viewport(content, s.offset, height)
	s.offset = offset
	return view
}

// renderCards shows the summary over every loaded question. Values are
// blank when the current filter matches nothing. Short screens get a
// single line instead of cards.
func renderCards(all []trivia.Question, show, compact bool, width int) string {
	sum := stats.Compute(all)
	value := func(n int) string {
		if !show {
			return "-"
		}
		return stats.FormatCount(n)
	}
	if compact {
		return theme.Body.Render(fmt.Sprintf("  Categories %s · Questions %s · Easy %s · Medium %s · Hard %s",
			value(sum.TotalCategories), value(sum.TotalQuestions),
			value(sum.EasyCount), value(sum.MediumCount), value(sum.HardCount)))
	}
	return components.CardRow(width,
		[2]string{"TOTAL CATEGORIES", value(sum.TotalCategories)},
		[2]string{"TOTAL QUESTIONS", value(sum.TotalQuestions)},
		[2]string{"EASY QUESTIONS", value(sum.EasyCount)},
		[2]string{"MEDIUM QUESTIONS", value(sum.MediumCount)},
		[2]string{"HARD QUESTIONS", value(sum.HardCount)},
	)
}

func renderCategoryChart(qs []trivia.Question, width int) string {
	const title = "Questions by category"
	if len(qs) == 0 {
		return components.Panel(title, theme.Hint.Render("No questions available."), width)
	}
	return components.Panel(title, chart(stats.CategoryDistribution(qs), len(qs), width-4), width)
}

func renderDifficultyChart(qs []trivia.Question, width int) string {
	const title = "Questions by difficulty"
	if len(qs) == 0 {
		return components.Panel(title, theme.Hint.Render("No questions available."), width)
	}
	return components.Panel(title, chart(stats.DifficultyDistribution(qs), len(qs), width-4), width)
}

// chart colors bucket i with palette entry i.
func chart(buckets []stats.Bucket, total, width int) string {
	bars := make([]components.Bar, 0, len(buckets))
	for i, b := range buckets {
		bars = append(bars, components.Bar{
			Label:    b.Name,
			Fraction: stats.Percent(b.Count, total) / 100,
			Value:    fmt.Sprintf("%3d %6s", b.Count, stats.FormatPercent(b.Count, total)),
			Color:    lipgloss.Color(palette.Hex(i)),
		})
	}
	return components.NewBarChart(bars, width).View()
}
