// Package dashboard drives the dashboard's load cycle and category filter.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/triviaboard/internal/trivia"
)

// ErrLoadInFlight is returned by Load while another cycle is running.
var ErrLoadInFlight = errors.New("a load cycle is already in progress")

// Phase is the state of the load cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetcher is the subset of trivia.Client a load cycle needs.
type Fetcher interface {
	FetchCategories(ctx context.Context) ([]trivia.Category, error)
	FetchQuestions(ctx context.Context, categoryID *int, amount int) trivia.Outcome
}

// Result is the data produced by one completed load cycle.
type Result struct {
	CycleID    string
	Categories []trivia.Category
	Questions  []trivia.Question

	// QuestionStatus and QuestionErr report how the questions request
	// ended. A failed questions request still yields a ready dashboard.
	QuestionStatus trivia.Status
	QuestionErr    error
}

// Loader runs load cycles: categories first, then questions across all
// categories. At most one cycle runs at a time.
type Loader struct {
	fetcher Fetcher
	amount  int

	mu    sync.Mutex
	phase Phase
	last  Result
	err   error
}

// NewLoader creates a Loader that requests amount questions per cycle.
func NewLoader(f Fetcher, amount int) *Loader {
	return &Loader{fetcher: f, amount: amount}
}

// Phase returns the current phase.
func (l *Loader) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// Last returns the result and error of the most recent finished cycle.
func (l *Loader) Last() (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last, l.err
}

// Load runs one cycle. It returns ErrLoadInFlight without doing anything
// if a cycle is already running. A categories failure fails the cycle;
// a questions failure does not.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	l.mu.Lock()
	if l.phase == PhaseLoading {
		l.mu.Unlock()
		return Result{}, ErrLoadInFlight
	}
	l.phase = PhaseLoading
	l.mu.Unlock()

	res := Result{CycleID: uuid.NewString()}
	ctx = trivia.WithCycle(ctx, res.CycleID)

	categories, err := l.fetcher.FetchCategories(ctx)
	if err != nil {
		err = fmt.Errorf("load cycle %s: %w", res.CycleID, err)
		l.finish(PhaseFailed, res, err)
		return res, err
	}
	res.Categories = categories

	outcome := l.fetcher.FetchQuestions(ctx, nil, l.amount)
	res.Questions = outcome.Questions
	res.QuestionStatus = outcome.Status
	res.QuestionErr = outcome.Err

	l.finish(PhaseReady, res, nil)
	return res, nil
}

func (l *Loader) finish(phase Phase, res Result, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.phase = phase
	l.last = res
	l.err = err
}
