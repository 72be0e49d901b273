package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaboard/internal/ui/theme"
)

// FilterItem is one toggleable chip in a FilterBar.
type FilterItem struct {
	Key    string // value passed to OnToggle
	Label  string
	Count  int
	Active bool
}

// ToggleFilterMsg reports that the chip with Key was toggled.
type ToggleFilterMsg struct {
	Key string
}

// FilterBar is a wrapping row of category chips with a cursor.
type FilterBar struct {
	Items  []FilterItem
	Cursor int
}

// NewFilterBar creates a filter bar with the cursor on the first item.
func NewFilterBar(items []FilterItem) FilterBar {
	return FilterBar{Items: items}
}

// SetItems replaces the items, keeping the cursor in range.
func (f FilterBar) SetItems(items []FilterItem) FilterBar {
	f.Items = items
	f.Cursor = min(f.Cursor, max(len(items)-1, 0))
	return f
}

// Update handles cursor movement. Enter or space emits a ToggleFilterMsg
// for the item under the cursor.
func (f FilterBar) Update(msg tea.Msg) (FilterBar, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(f.Items) == 0 {
		return f, nil
	}

	switch kmsg.String() {
	case "left", "h", "up", "k":
		if f.Cursor > 0 {
			f.Cursor--
		}
	case "right", "l", "down", "j":
		if f.Cursor < len(f.Items)-1 {
			f.Cursor++
		}
	case "home":
		f.Cursor = 0
	case "end":
		f.Cursor = len(f.Items) - 1
	case "enter", "space":
		key := f.Items[f.Cursor].Key
		return f, func() tea.Msg { return ToggleFilterMsg{Key: key} }
	}
	return f, nil
}

// View renders the chips, wrapping lines at width.
func (f FilterBar) View(width int) string {
	var lines []string
	var line string
	for i, item := range f.Items {
		chip := renderChip(item, i == f.Cursor)
		switch {
		case line == "":
			line = chip
		case lipgloss.Width(line)+1+lipgloss.Width(chip) > width:
			lines = append(lines, line)
			line = chip
		default:
			line += " " + chip
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderChip(item FilterItem, focused bool) string {
	label := item.Label
	if item.Count > 0 {
		label = fmt.Sprintf("%s (%d)", item.Label, item.Count)
	}
	style := theme.ChipInactive
	if item.Active {
		style = theme.ChipActive
	}
	if focused {
		label = "▸ " + label
	}
	return style.Render(label)
}
