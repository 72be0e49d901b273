package trivia

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidAmount is returned for a non-positive question amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNoToken is returned when a token operation needs a cached token.
	ErrNoToken = errors.New("no session token cached")
)

// ErrRateLimit indicates the API answered with HTTP 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrTransport indicates a network failure or an unexpected HTTP status.
// StatusCode is 0 when no response was received.
type ErrTransport struct {
	StatusCode int
	Err        error
}

func (e *ErrTransport) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("trivia API returned HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("trivia API unreachable: %v", e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// ErrTokenInvalid indicates the API rejected the session token
// (response code 3 or 4).
type ErrTokenInvalid struct {
	Code ResponseCode
}

func (e *ErrTokenInvalid) Error() string {
	return fmt.Sprintf("session token expired or invalid (response code %d: %s)", int(e.Code), e.Code)
}

// ErrResponseCode indicates a response code the caller cannot treat as
// success.
type ErrResponseCode struct {
	Code ResponseCode
}

func (e *ErrResponseCode) Error() string {
	return fmt.Sprintf("trivia API response code %d (%s)", int(e.Code), e.Code)
}

// ErrInvalidResponse indicates a payload that does not match the API
// contract.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid trivia API response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }
