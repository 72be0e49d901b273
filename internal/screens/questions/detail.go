package questions

import (
	"fmt"
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaboard/internal/router"
	"github.com/abhisek/triviaboard/internal/screen"
	"github.com/abhisek/triviaboard/internal/trivia"
	"github.com/abhisek/triviaboard/internal/ui/components"
	"github.com/abhisek/triviaboard/internal/ui/layout"
	"github.com/abhisek/triviaboard/internal/ui/theme"
)

// DetailScreen shows one question with its answers shuffled.
type DetailScreen struct {
	questions []trivia.Question
	index     int
	choices   components.Choices
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// NewDetail creates a DetailScreen for qs[index].
func NewDetail(qs []trivia.Question, index int) *DetailScreen {
	q := qs[index]
	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	options = append(options, trivia.DecodeHTML(q.CorrectAnswer))
	for _, a := range q.IncorrectAnswers {
		options = append(options, trivia.DecodeHTML(a))
	}

	correct := 0
	perm := rand.Perm(len(options))
	shuffled := make([]string, len(options))
	for from, to := range perm {
		shuffled[to] = options[from]
		if from == 0 {
			correct = to
		}
	}

	return &DetailScreen{
		questions: qs,
		index:     index,
		choices:   components.NewChoices(shuffled, correct),
	}
}

func (s *DetailScreen) Init() tea.Cmd {
	return nil
}

func (s *DetailScreen) Title() string {
	return fmt.Sprintf("Question %d of %d", s.index+1, len(s.questions))
}

func (s *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "n/p", Description: "Next/Prev"},
		{Key: "Esc", Description: "Back"},
	}
}

// Answered reports whether the question was answered.
func (s *DetailScreen) Answered() bool {
	return s.choices.Answered()
}

// Correct reports whether the given answer was right.
func (s *DetailScreen) Correct() bool {
	return s.choices.IsCorrect()
}

func (s *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n":
			if s.index < len(s.questions)-1 {
				next := NewDetail(s.questions, s.index+1)
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
			return s, nil
		case "p":
			if s.index > 0 {
				prev := NewDetail(s.questions, s.index-1)
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: prev} }
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	return s, cmd
}

func (s *DetailScreen) View(width, height int) string {
	q := s.questions[s.index]
	cw := min(max(width-8, 20), 90)

	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%s · %s", q.DecodedCategory(), q.Difficulty)) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).
		Render(trivia.DecodeHTML(q.Question)) + "\n\n")
	b.WriteString(s.choices.View())

	if s.choices.Answered() {
		b.WriteString("\n")
		if s.choices.IsCorrect() {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite. The answer is " + trivia.DecodeHTML(q.CorrectAnswer) + "."))
		}
	}

	return lipgloss.NewStyle().Padding(1, 4).Render(b.String())
}
