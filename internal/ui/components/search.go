package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// SearchInput wraps bubbles/textinput as a case-insensitive search box.
type SearchInput struct {
	Model textinput.Model
}

// NewSearchInput creates an unfocused search box.
func NewSearchInput(placeholder string, maxLen int) SearchInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if maxLen > 0 {
		ti.CharLimit = maxLen
	}
	return SearchInput{Model: ti}
}

// Focus starts capturing keystrokes.
func (s *SearchInput) Focus() tea.Cmd {
	return s.Model.Focus()
}

// Blur stops capturing keystrokes, keeping the query.
func (s *SearchInput) Blur() {
	s.Model.Blur()
}

// Focused reports whether the box captures keystrokes.
func (s SearchInput) Focused() bool {
	return s.Model.Focused()
}

// Clear empties the query.
func (s *SearchInput) Clear() {
	s.Model.SetValue("")
}

// Update handles messages.
func (s SearchInput) Update(msg tea.Msg) (SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the search box.
func (s SearchInput) View() string {
	return s.Model.View()
}

// Value returns the current query.
func (s SearchInput) Value() string {
	return s.Model.Value()
}

// Matches reports whether text contains the query, ignoring case. An empty
// query matches everything.
func (s SearchInput) Matches(text string) bool {
	q := strings.TrimSpace(s.Model.Value())
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(q))
}
