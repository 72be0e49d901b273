package dashboard

import (
	"slices"

	"github.com/abhisek/triviaboard/internal/trivia"
)

// All is the selection sentinel meaning "no filtering". The name is
// reserved: a category literally called "all" cannot be selected on its
// own. The trivia API has no such category.
const All = "all"

// Selection is the set of selected categories. It is never empty: when
// nothing is selected it holds only All.
type Selection struct {
	names []string
}

// NewSelection returns a selection of All.
func NewSelection() Selection {
	return Selection{names: []string{All}}
}

// Toggle flips name in the selection. Toggling All resets the selection.
// Selecting a category drops All; deselecting the last category reverts
// to All.
func (s Selection) Toggle(name string) Selection {
	if name == All {
		return NewSelection()
	}

	var next []string
	if s.Contains(name) {
		next = slices.DeleteFunc(slices.Clone(s.names), func(n string) bool { return n == name })
	} else {
		next = slices.DeleteFunc(slices.Clone(s.names), func(n string) bool { return n == All })
		next = append(next, name)
	}

	if len(next) == 0 {
		return NewSelection()
	}
	return Selection{names: next}
}

// Reset returns a selection of All.
func (s Selection) Reset() Selection {
	return NewSelection()
}

// IsAll reports whether the selection applies no filtering.
func (s Selection) IsAll() bool {
	return len(s.names) == 0 || s.Contains(All)
}

// Contains reports whether name is selected.
func (s Selection) Contains(name string) bool {
	return slices.Contains(s.names, name)
}

// Names returns the selected names in selection order.
func (s Selection) Names() []string {
	if len(s.names) == 0 {
		return []string{All}
	}
	return slices.Clone(s.names)
}

// Apply returns the questions whose decoded category is selected, or qs
// unchanged when the selection is All.
func (s Selection) Apply(qs []trivia.Question) []trivia.Question {
	if s.IsAll() {
		return qs
	}
	out := []trivia.Question{}
	for _, q := range qs {
		if s.Contains(q.DecodedCategory()) {
			out = append(out, q)
		}
	}
	return out
}
