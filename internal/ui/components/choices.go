package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaboard/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D", "E", "F"}

// Choices is a multiple-choice answer picker. Once an answer is chosen the
// correct option is revealed.
type Choices struct {
	Options      []string
	CorrectIndex int
	Selected     int
	ChosenIndex  int // -1 until an answer is chosen
}

// NewChoices creates a picker over options.
func NewChoices(options []string, correctIndex int) Choices {
	return Choices{
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Answered reports whether an option was chosen.
func (c Choices) Answered() bool {
	return c.ChosenIndex >= 0
}

// IsCorrect reports whether the chosen option is the correct one.
func (c Choices) IsCorrect() bool {
	return c.Answered() && c.ChosenIndex == c.CorrectIndex
}

// Update handles keyboard navigation and selection.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	if c.Answered() {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.ChosenIndex = c.Selected
	}

	return c, nil
}

// View renders the options.
func (c Choices) View() string {
	var s string
	for i, opt := range c.Options {
		label := "?"
		if i < len(choiceLabels) {
			label = choiceLabels[i]
		}
		prefix := "  "
		if i == c.Selected && !c.Answered() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		var style lipgloss.Style
		switch {
		case c.Answered() && i == c.CorrectIndex:
			style = theme.Correct
		case c.Answered() && i == c.ChosenIndex:
			style = theme.Incorrect
		case c.Answered():
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		s += style.Render(line) + "\n"
	}
	return s
}
