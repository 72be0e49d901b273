package trivia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Endpoint identifies one of the trivia API endpoints.
type Endpoint string

const (
	EndpointQuestions  Endpoint = "questions"
	EndpointCategories Endpoint = "categories"
	EndpointToken      Endpoint = "token"
)

// Request is a GET against one endpoint.
type Request struct {
	Endpoint Endpoint
	Query    url.Values
}

// Response is a successful (2xx) HTTP response with its body fully read.
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Transport performs a single HTTP attempt. Implementations return
// *ErrRateLimit for HTTP 429 and *ErrTransport for any other failure.
type Transport interface {
	Get(ctx context.Context, req Request) (*Response, error)
}

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// HTTPTransport is the net/http Transport for the configured endpoints.
type HTTPTransport struct {
	client    *http.Client
	endpoints map[Endpoint]string
}

// NewHTTPTransport creates a Transport for the endpoints in cfg. A nil
// client means http.DefaultClient.
func NewHTTPTransport(cfg Config, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		client: client,
		endpoints: map[Endpoint]string{
			EndpointQuestions:  cfg.QuestionsURL,
			EndpointCategories: cfg.CategoriesURL,
			EndpointToken:      cfg.TokenURL,
		},
	}
}

// URL renders the full request URL.
func (t *HTTPTransport) URL(req Request) (string, error) {
	base, ok := t.endpoints[req.Endpoint]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q", req.Endpoint)
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse %s URL: %w", req.Endpoint, err)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (t *HTTPTransport) Get(ctx context.Context, req Request) (*Response, error) {
	target, err := t.URL(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, &ErrTransport{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &ErrRateLimit{
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("HTTP 429 for %s", target),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ErrTransport{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status for %s", target),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &ErrTransport{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	return &Response{URL: target, StatusCode: resp.StatusCode, Body: body}, nil
}

// getWithTimeout performs one attempt through t, bounded by timeout when it
// is positive. Running out of time is an *ErrTransport; cancellation of ctx
// itself is returned unchanged.
func getWithTimeout(ctx context.Context, t Transport, req Request, timeout time.Duration) (*Response, error) {
	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := t.Get(attemptCtx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, &ErrTransport{Err: fmt.Errorf("%s request timed out after %s: %w", req.Endpoint, timeout, err)}
		}
		return nil, err
	}
	return resp, nil
}

// parseRetryAfter understands the delay-seconds form of Retry-After.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
