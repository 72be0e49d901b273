// Package board is the main dashboard screen: summary cards, category
// filters and distribution charts for the loaded questions.
package board

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/triviaboard/internal/dashboard"
	"github.com/abhisek/triviaboard/internal/router"
	"github.com/abhisek/triviaboard/internal/screen"
	"github.com/abhisek/triviaboard/internal/screens/questions"
	"github.com/abhisek/triviaboard/internal/screens/requests"
	"github.com/abhisek/triviaboard/internal/stats"
	"github.com/abhisek/triviaboard/internal/store"
	"github.com/abhisek/triviaboard/internal/trivia"
	"github.com/abhisek/triviaboard/internal/ui/components"
	"github.com/abhisek/triviaboard/internal/ui/layout"
	"github.com/abhisek/triviaboard/internal/ui/theme"
)

type loadedMsg struct {
	Result dashboard.Result
	Err    error
}

// BoardScreen shows the dashboard for the most recent load cycle.
type BoardScreen struct {
	loader    *dashboard.Loader
	eventRepo store.EventRepo

	spinner   spinner.Model
	phase     dashboard.Phase
	result    dashboard.Result
	err       error
	selection dashboard.Selection
	filters   components.FilterBar
	offset    int
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)
var _ screen.StatusProvider = (*BoardScreen)(nil)

// New creates a BoardScreen. eventRepo may be nil, which disables the
// request log.
func New(loader *dashboard.Loader, eventRepo store.EventRepo) *BoardScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Selected

	return &BoardScreen{
		loader:    loader,
		eventRepo: eventRepo,
		spinner:   sp,
		selection: dashboard.NewSelection(),
		filters:   components.NewFilterBar(nil),
	}
}

func (s *BoardScreen) Init() tea.Cmd {
	return s.reload()
}

func (s *BoardScreen) Title() string {
	return "Dashboard"
}

func (s *BoardScreen) Status() string {
	if s.phase != dashboard.PhaseReady {
		return s.phase.String()
	}
	return fmt.Sprintf("%s questions", stats.FormatCount(len(s.result.Questions)))
}

func (s *BoardScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Move"},
		{Key: "Space", Description: "Toggle"},
		{Key: "a", Description: "All"},
		{Key: "q", Description: "Questions"},
	}
	if s.eventRepo != nil {
		hints = append(hints, layout.KeyHint{Key: "l", Description: "Requests"})
	}
	return append(hints, layout.KeyHint{Key: "r", Description: "Reload"})
}

// reload starts a load cycle unless one is running.
func (s *BoardScreen) reload() tea.Cmd {
	if s.phase == dashboard.PhaseLoading {
		return nil
	}
	s.phase = dashboard.PhaseLoading
	s.err = nil
	loader := s.loader
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		res, err := loader.Load(context.Background())
		return loadedMsg{Result: res, Err: err}
	})
}

func (s *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if errors.Is(msg.Err, dashboard.ErrLoadInFlight) {
			return s, nil
		}
		s.result = msg.Result
		s.err = msg.Err
		if msg.Err != nil {
			s.phase = dashboard.PhaseFailed
		} else {
			s.phase = dashboard.PhaseReady
		}
		s.selection = keepPresent(s.selection, stats.UniqueCategories(s.result.Questions))
		s.refreshFilters()
		return s, nil

	case spinner.TickMsg:
		if s.phase != dashboard.PhaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case components.ToggleFilterMsg:
		s.selection = s.selection.Toggle(msg.Key)
		s.refreshFilters()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return s, s.reload()
		}
		if s.phase != dashboard.PhaseReady {
			return s, nil
		}
		switch msg.String() {
		case "a":
			s.selection = s.selection.Reset()
			s.refreshFilters()
			return s, nil
		case "q":
			title := "Questions"
			if !s.selection.IsAll() {
				title = "Filtered questions"
			}
			list := questions.New(title, s.selection.Apply(s.result.Questions))
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: list} }
		case "l":
			if s.eventRepo == nil {
				return s, nil
			}
			log := requests.New(s.eventRepo, s.result.CycleID)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: log} }
		case "pgdown":
			s.offset += 5
			return s, nil
		case "pgup":
			s.offset = max(s.offset-5, 0)
			return s, nil
		}
		var cmd tea.Cmd
		s.filters, cmd = s.filters.Update(msg)
		return s, cmd
	}
	return s, nil
}

// refreshFilters rebuilds the chips from the loaded questions and the
// current selection.
func (s *BoardScreen) refreshFilters() {
	qs := s.result.Questions
	items := []components.FilterItem{{
		Key:    dashboard.All,
		Label:  "All Categories",
		Active: s.selection.IsAll(),
	}}
	for _, name := range stats.UniqueCategories(qs) {
		items = append(items, components.FilterItem{
			Key:    name,
			Label:  name,
			Count:  stats.CountByCategory(qs, name),
			Active: s.selection.Contains(name),
		})
	}
	s.filters = s.filters.SetItems(items)
}

// keepPresent drops selected names that are no longer offered.
func keepPresent(sel dashboard.Selection, offered []string) dashboard.Selection {
	next := dashboard.NewSelection()
	if sel.IsAll() {
		return next
	}
	for _, name := range sel.Names() {
		for _, o := range offered {
			if o == name {
				next = next.Toggle(name)
				break
			}
		}
	}
	return next
}

// Selection returns the current category filter.
func (s *BoardScreen) Selection() dashboard.Selection {
	return s.selection
}

// Phase returns the phase of the displayed load cycle.
func (s *BoardScreen) Phase() dashboard.Phase {
	return s.phase
}

func filteredStatus(res dashboard.Result) string {
	switch res.QuestionStatus {
	case trivia.StatusEmpty:
		return "No questions were found for this request."
	case trivia.StatusFailed:
		return fmt.Sprintf("Questions could not be loaded: %v", res.QuestionErr)
	default:
		return ""
	}
}
