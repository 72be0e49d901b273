package dashboard

import (
	"slices"
	"testing"

	"github.com/abhisek/triviaboard/internal/trivia"
)

func TestNewSelection(t *testing.T) {
	s := NewSelection()
	if !s.IsAll() || !slices.Equal(s.Names(), []string{All}) {
		t.Fatalf("NewSelection = %v", s.Names())
	}
}

func TestSelection_ZeroValueIsAll(t *testing.T) {
	var s Selection
	if !s.IsAll() || !slices.Equal(s.Names(), []string{All}) {
		t.Fatalf("zero Selection = %v", s.Names())
	}
}

func TestSelection_SelectThenDeselectRevertsToAll(t *testing.T) {
	s := NewSelection().Toggle("Science")
	if !slices.Equal(s.Names(), []string{"Science"}) {
		t.Fatalf("after select: %v", s.Names())
	}
	if s.IsAll() {
		t.Fatal("selecting a category must drop all")
	}

	s = s.Toggle("Science")
	if !slices.Equal(s.Names(), []string{All}) {
		t.Fatalf("after deselect: %v, want [all]", s.Names())
	}
}

func TestSelection_MultiSelect(t *testing.T) {
	s := NewSelection().Toggle("History").Toggle("Art").Toggle("Music")
	if !slices.Equal(s.Names(), []string{"History", "Art", "Music"}) {
		t.Fatalf("got %v", s.Names())
	}
	s = s.Toggle("Art")
	if !slices.Equal(s.Names(), []string{"History", "Music"}) {
		t.Fatalf("got %v", s.Names())
	}
}

func TestSelection_ToggleAllResets(t *testing.T) {
	s := NewSelection().Toggle("History").Toggle("Art").Toggle(All)
	if !slices.Equal(s.Names(), []string{All}) {
		t.Fatalf("got %v", s.Names())
	}
	// Toggling all again keeps it selected.
	if s = s.Toggle(All); !s.IsAll() {
		t.Fatal("toggling all twice must keep all selected")
	}
}

func TestSelection_Reset(t *testing.T) {
	s := NewSelection().Toggle("History").Reset()
	if !slices.Equal(s.Names(), []string{All}) {
		t.Fatalf("got %v", s.Names())
	}
}

func TestSelection_ToggleDoesNotMutateReceiver(t *testing.T) {
	base := NewSelection().Toggle("History")
	_ = base.Toggle("Art")
	_ = base.Toggle("History")
	if !slices.Equal(base.Names(), []string{"History"}) {
		t.Fatalf("receiver changed: %v", base.Names())
	}
}

func TestSelection_Apply(t *testing.T) {
	qs := []trivia.Question{
		{Category: "History"},
		{Category: "Science &amp; Nature"},
		{Category: "Art"},
		{Category: "History"},
	}

	if got := NewSelection().Apply(qs); len(got) != 4 {
		t.Errorf("all: got %d questions, want 4", len(got))
	}

	got := NewSelection().Toggle("History").Toggle("Science & Nature").Apply(qs)
	if len(got) != 3 {
		t.Fatalf("got %d questions, want 3", len(got))
	}
	for _, q := range got {
		if q.Category == "Art" {
			t.Error("Art should have been filtered out")
		}
	}

	none := NewSelection().Toggle("Sports").Apply(qs)
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestSelection_AllNameIsReserved(t *testing.T) {
	qs := []trivia.Question{{Category: "all"}, {Category: "History"}}

	s := NewSelection().Toggle("History").Toggle(All)
	if !s.IsAll() {
		t.Fatalf("toggling %q must reset, got %v", All, s.Names())
	}
	if got := s.Apply(qs); len(got) != len(qs) {
		t.Errorf("reserved name must not filter, got %d questions", len(got))
	}
}
