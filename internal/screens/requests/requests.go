// Package requests shows the recorded trivia API request log.
package requests

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaboard/internal/router"
	"github.com/abhisek/triviaboard/internal/screen"
	"github.com/abhisek/triviaboard/internal/store"
	"github.com/abhisek/triviaboard/internal/ui/layout"
	"github.com/abhisek/triviaboard/internal/ui/theme"
)

const pageSize = 100

type requestsLoadedMsg struct {
	Events []store.RequestEvent
	Usage  []store.EndpointUsage
	Err    error
}

// RequestsScreen lists recent request events, newest first.
type RequestsScreen struct {
	eventRepo store.EventRepo
	cycleID   string
	events    []store.RequestEvent
	usage     []store.EndpointUsage
	selected  int
	expanded  map[int]bool
	onlyCycle bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*RequestsScreen)(nil)
var _ screen.KeyHintProvider = (*RequestsScreen)(nil)

// New creates a RequestsScreen. cycleID, when set, lets the user narrow
// the log to one load cycle.
func New(eventRepo store.EventRepo, cycleID string) *RequestsScreen {
	return &RequestsScreen{
		eventRepo: eventRepo,
		cycleID:   cycleID,
		expanded:  make(map[int]bool),
	}
}

func (s *RequestsScreen) Init() tea.Cmd {
	repo := s.eventRepo
	opts := store.QueryOpts{Limit: pageSize}
	if s.onlyCycle {
		opts.CycleID = s.cycleID
	}
	return func() tea.Msg {
		ctx := context.Background()

		events, err := repo.QueryRequestEvents(ctx, opts)
		if err != nil {
			return requestsLoadedMsg{Err: err}
		}
		usage, err := repo.UsageByEndpoint(ctx)
		if err != nil {
			return requestsLoadedMsg{Events: events}
		}
		return requestsLoadedMsg{Events: events, Usage: usage}
	}
}

func (s *RequestsScreen) Title() string {
	return "Requests"
}

func (s *RequestsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
	}
	if s.cycleID != "" {
		label := "This cycle"
		if s.onlyCycle {
			label = "All cycles"
		}
		hints = append(hints, layout.KeyHint{Key: "c", Description: label})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *RequestsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case requestsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.usage = msg.Usage
		}
		s.loaded = true
		s.selected = min(s.selected, max(len(s.events)-1, 0))
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		case "c":
			if s.cycleID == "" {
				return s, nil
			}
			s.onlyCycle = !s.onlyCycle
			s.expanded = make(map[int]bool)
			s.loaded = false
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *RequestsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading request log...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No requests recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, u := range s.usage {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %-10s %4d calls  %3d failed  %3d rate limited  avg %dms",
			u.Endpoint, u.Calls, u.Failures, u.RateLimited, u.AvgLatencyMs)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, ev := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-10s  %s  %5dms",
			prefix, ev.Timestamp.Local().Format("Jan 02 15:04:05"), ev.Endpoint, outcome(ev), ev.LatencyMs)

		style := lipgloss.NewStyle().Foreground(statusColor(ev))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := []string{"    " + ev.URL}
			if ev.CycleID != "" {
				detail = append(detail, "    cycle "+ev.CycleID)
			}
			if ev.ErrorMessage != "" {
				detail = append(detail, "    "+ev.ErrorMessage)
			}
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Width(max(width-4, 20)).Render(strings.Join(detail, "\n")))
			b.WriteString("\n")
		}
	}

	view, _ := layout.Viewport(b.String(), s.scrollOffset(height), height)
	return view
}

// scrollOffset keeps the selected row roughly centered.
func (s *RequestsScreen) scrollOffset(height int) int {
	return max(s.selected+len(s.usage)+2-height/2, 0)
}

// outcome summarizes an event as HTTP status plus response code.
func outcome(ev store.RequestEvent) string {
	status := "---"
	if ev.StatusCode != 0 {
		status = fmt.Sprintf("%d", ev.StatusCode)
	}
	code := "-"
	if ev.ResponseCode >= 0 {
		code = fmt.Sprintf("%d", ev.ResponseCode)
	}
	return fmt.Sprintf("HTTP %s  code %s", status, code)
}

func statusColor(ev store.RequestEvent) color.Color {
	switch {
	case ev.Success:
		return theme.Success
	case ev.StatusCode == 429:
		return theme.Accent
	default:
		return theme.Error
	}
}
