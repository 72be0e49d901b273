package trivia

import (
	"context"
	"errors"
	"math"
	"time"
)

// Operation performs one attempt of a retry-wrapped request.
type Operation func(ctx context.Context) (*Envelope, error)

// Retrier retries rate-limited requests and requests whose session token
// was rejected, with exponential backoff.
type Retrier struct {
	config RetryConfig
	tokens *TokenManager
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetrier creates a Retrier. tokens may be nil, in which case rejected
// tokens are retried without clearing anything.
func NewRetrier(cfg RetryConfig, tokens *TokenManager) *Retrier {
	return &Retrier{config: cfg, tokens: tokens, sleep: sleepContext}
}

// Do runs op until it succeeds, fails with a non-retryable error, or
// MaxAttempts is reached. A response carrying CodeNoResults is a success.
func (r *Retrier) Do(ctx context.Context, op Operation) (*Envelope, error) {
	attempts := max(r.config.MaxAttempts, 1)
	var lastErr error

	for attempt := range attempts {
		env, err := op(ctx)
		if err == nil && env.ResponseCode.TokenInvalid() {
			if r.tokens != nil {
				r.tokens.Invalidate(ctx)
			}
			err = &ErrTokenInvalid{Code: env.ResponseCode}
		}
		if err == nil && env.ResponseCode == CodeRateLimit {
			err = &ErrRateLimit{Err: &ErrResponseCode{Code: env.ResponseCode}}
		}
		if err == nil {
			return env, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}

		// Last attempt: no sleep, report the error.
		if attempt == attempts-1 {
			break
		}

		if err := r.sleep(ctx, r.backoff(attempt, err)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// shouldRetry reports whether err is a rate limit or a rejected token.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var ti *ErrTokenInvalid
	return errors.As(err, &ti)
}

// backoff computes InitialWait * Multiplier^attempt, raised to the
// server's Retry-After when that is longer.
func (r *Retrier) backoff(attempt int, err error) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxWait > 0 && wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}
	d := time.Duration(wait)

	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > d {
		d = rl.RetryAfter
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
