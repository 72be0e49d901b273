package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
)

// Status classifies the outcome of a questions request.
type Status int

const (
	// StatusOK means the API returned questions.
	StatusOK Status = iota
	// StatusEmpty means the API had no questions for the query.
	StatusEmpty
	// StatusFailed means the request failed; Err holds the cause.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of FetchQuestions. Questions is never nil.
type Outcome struct {
	Status    Status
	Questions []Question
	Err       error
}

// Client fetches categories and questions from the trivia API.
type Client struct {
	cfg       Config
	transport Transport
	tokens    *TokenManager
	retrier   *Retrier
	warn      io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithWarnings sets where warnings are written. Default: os.Stderr.
func WithWarnings(w io.Writer) Option {
	return func(c *Client) { c.warn = w }
}

// NewClient creates a Client. tokens persists the session token; pass a
// *MemoryTokenStore to keep it for the process lifetime only.
func NewClient(cfg Config, t Transport, tokens TokenStore, opts ...Option) *Client {
	c := &Client{cfg: cfg, transport: t, warn: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}
	c.tokens = NewTokenManager(t, tokens, c.warn)
	c.tokens.timeout = cfg.RequestTimeout
	c.retrier = NewRetrier(cfg.Retry, c.tokens)
	return c
}

// Tokens returns the client's session token manager.
func (c *Client) Tokens() *TokenManager {
	return c.tokens
}

// FetchCategories returns every category the API knows. Errors, including
// exhausted retries, are returned to the caller.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	env, err := c.retrier.Do(ctx, func(ctx context.Context) (*Envelope, error) {
		return c.get(ctx, Request{Endpoint: EndpointCategories}, categoriesSchema)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	if env.ResponseCode != CodeSuccess {
		return nil, fmt.Errorf("fetch categories: %w", &ErrResponseCode{Code: env.ResponseCode})
	}

	var payload struct {
		Categories []Category `json:"trivia_categories"`
	}
	if err := json.Unmarshal(env.Body, &payload); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", &ErrInvalidResponse{Content: env.Body, Err: err})
	}
	if payload.Categories == nil {
		payload.Categories = []Category{}
	}
	return payload.Categories, nil
}

// FetchQuestions requests amount multiple-choice questions, from one
// category or from all when categoryID is nil. It never returns an error:
// failures are reported through the Outcome.
func (c *Client) FetchQuestions(ctx context.Context, categoryID *int, amount int) Outcome {
	if amount <= 0 {
		return c.failed(categoryID, ErrInvalidAmount)
	}
	amount = min(amount, MaxAmount)

	env, err := c.retrier.Do(ctx, func(ctx context.Context) (*Envelope, error) {
		// Read the token per attempt: a rejected token is cleared before
		// the retry and replaced here.
		query := url.Values{
			"amount": {strconv.Itoa(amount)},
			"type":   {QuestionTypeMultiple},
		}
		if categoryID != nil {
			query.Set("category", strconv.Itoa(*categoryID))
		}
		if token, ok := c.tokens.Get(ctx); ok {
			query.Set("token", token)
		}
		return c.get(ctx, Request{Endpoint: EndpointQuestions, Query: query}, questionsSchema)
	})
	if err != nil {
		return c.failed(categoryID, err)
	}

	switch env.ResponseCode {
	case CodeSuccess:
		var payload struct {
			Results []Question `json:"results"`
		}
		if err := json.Unmarshal(env.Body, &payload); err != nil {
			return c.failed(categoryID, &ErrInvalidResponse{Content: env.Body, Err: err})
		}
		if payload.Results == nil {
			payload.Results = []Question{}
		}
		return Outcome{Status: StatusOK, Questions: payload.Results}
	case CodeNoResults:
		fmt.Fprintf(c.warn, "warning: no questions were found for category %s\n", categoryLabel(categoryID))
		return Outcome{Status: StatusEmpty, Questions: []Question{}}
	default:
		return c.failed(categoryID, &ErrResponseCode{Code: env.ResponseCode})
	}
}

func (c *Client) failed(categoryID *int, err error) Outcome {
	err = fmt.Errorf("fetch questions for category %s: %w", categoryLabel(categoryID), err)
	fmt.Fprintf(c.warn, "error: %v\n", err)
	return Outcome{Status: StatusFailed, Questions: []Question{}, Err: err}
}

// get performs one attempt bounded by the per-request timeout.
func (c *Client) get(ctx context.Context, req Request, schema *Schema) (*Envelope, error) {
	resp, err := getWithTimeout(ctx, c.transport, req, c.cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return validatePayload(schema, resp.Body)
}

func categoryLabel(categoryID *int) string {
	if categoryID == nil {
		return "all"
	}
	return strconv.Itoa(*categoryID)
}
