// Package questions lists loaded questions and lets the user try one.
package questions

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaboard/internal/router"
	"github.com/abhisek/triviaboard/internal/screen"
	"github.com/abhisek/triviaboard/internal/stats"
	"github.com/abhisek/triviaboard/internal/trivia"
	"github.com/abhisek/triviaboard/internal/ui/components"
	"github.com/abhisek/triviaboard/internal/ui/layout"
	"github.com/abhisek/triviaboard/internal/ui/theme"
)

// ListScreen is a searchable list of questions.
type ListScreen struct {
	title    string
	all      []trivia.Question
	visible  []int // indexes into all
	selected int
	search   components.SearchInput
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)
var _ screen.InputCapturer = (*ListScreen)(nil)

// New creates a ListScreen over qs.
func New(title string, qs []trivia.Question) *ListScreen {
	s := &ListScreen{
		title:  title,
		all:    qs,
		search: components.NewSearchInput("search questions and categories", 64),
	}
	s.refilter()
	return s
}

func (s *ListScreen) Init() tea.Cmd {
	return nil
}

func (s *ListScreen) Title() string {
	return s.title
}

func (s *ListScreen) KeyHints() []layout.KeyHint {
	if s.search.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Try it"},
		{Key: "/", Description: "Search"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ListScreen) CapturingInput() bool {
	return s.search.Focused()
}

// Visible returns the questions matching the current search.
func (s *ListScreen) Visible() []trivia.Question {
	out := make([]trivia.Question, 0, len(s.visible))
	for _, i := range s.visible {
		out = append(out, s.all[i])
	}
	return out
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.search.Focused() {
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.search.Focused() {
		switch kmsg.String() {
		case "enter":
			s.search.Blur()
			return s, nil
		case "esc":
			s.search.Clear()
			s.search.Blur()
			s.refilter()
			return s, nil
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.refilter()
		return s, cmd
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "/":
		return s, s.search.Focus()
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.visible)-1 {
			s.selected++
		}
	case "enter":
		if len(s.visible) == 0 {
			return s, nil
		}
		detail := NewDetail(s.Visible(), s.selected)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
	}
	return s, nil
}

func (s *ListScreen) refilter() {
	s.visible = s.visible[:0]
	for i, q := range s.all {
		if s.search.Matches(trivia.DecodeHTML(q.Question)) || s.search.Matches(q.DecodedCategory()) {
			s.visible = append(s.visible, i)
		}
	}
	s.selected = min(s.selected, max(len(s.visible)-1, 0))
}

func (s *ListScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n  " + s.search.View() + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %s of %s questions",
		stats.FormatCount(len(s.visible)), stats.FormatCount(len(s.all)))) + "\n\n")

	if len(s.visible) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No questions match."))
		return b.String()
	}

	rowWidth := max(width-6, 20)
	rows := make([]string, 0, len(s.visible))
	for n, i := range s.visible {
		q := s.all[i]
		prefix := "  "
		style := theme.Unselected
		if n == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		meta := theme.Hint.Render(fmt.Sprintf("%s · %s", q.DecodedCategory(), q.Difficulty))
		text := truncate(trivia.DecodeHTML(q.Question), rowWidth)
		rows = append(rows, "  "+style.Render(prefix+text)+"\n    "+meta)
	}

	header := b.String()
	listHeight := max(height-lipgloss.Height(header), 2)
	// Each row is two lines; keep the cursor on screen.
	perPage := max(listHeight/2, 1)
	start := 0
	if s.selected >= perPage {
		start = s.selected - perPage + 1
	}
	end := min(start+perPage, len(rows))
	return header + strings.Join(rows[start:end], "\n")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
