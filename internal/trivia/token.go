package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"
	"time"
)

// TokenStore persists the session token. store.Entry satisfies it.
type TokenStore interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TokenManager acquires, caches and invalidates the API session token.
// The token only reduces duplicate questions; every failure here degrades
// to requesting without a token.
type TokenManager struct {
	transport Transport
	store     TokenStore
	warn      io.Writer
	timeout   time.Duration // per request; 0 = unbounded
}

// NewTokenManager creates a TokenManager. warn receives warnings
// (os.Stderr when nil).
func NewTokenManager(t Transport, s TokenStore, warn io.Writer) *TokenManager {
	if warn == nil {
		warn = os.Stderr
	}
	return &TokenManager{transport: t, store: s, warn: warn}
}

// Get returns the cached token or requests a new one. It reports false when
// no token could be obtained.
func (m *TokenManager) Get(ctx context.Context) (string, bool) {
	token, ok, err := m.store.Get(ctx)
	if err != nil {
		fmt.Fprintf(m.warn, "warning: failed to read cached session token: %v\n", err)
	} else if ok {
		return token, true
	}

	token, err = m.request(ctx, url.Values{"command": {"request"}})
	if err != nil {
		fmt.Fprintf(m.warn, "warning: failed to get session token: %v\n", err)
		return "", false
	}

	if err := m.store.Set(ctx, token); err != nil {
		fmt.Fprintf(m.warn, "warning: failed to cache session token: %v\n", err)
	}
	return token, true
}

// Cached returns the stored token without contacting the API.
func (m *TokenManager) Cached(ctx context.Context) (string, bool, error) {
	return m.store.Get(ctx)
}

// Invalidate removes the cached token so the next Get requests a fresh one.
func (m *TokenManager) Invalidate(ctx context.Context) {
	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		fmt.Fprintf(m.warn, "warning: failed to clear session token: %v\n", err)
	}
}

// Reset asks the API to forget the questions already served for the cached
// token. The token itself stays valid and cached.
func (m *TokenManager) Reset(ctx context.Context) error {
	token, ok, err := m.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("read cached token: %w", err)
	}
	if !ok {
		return ErrNoToken
	}

	_, err = m.request(ctx, url.Values{"command": {"reset"}, "token": {token}})
	if err != nil {
		var ti *ErrTokenInvalid
		if errors.As(err, &ti) {
			m.Invalidate(ctx)
		}
		return fmt.Errorf("reset session token: %w", err)
	}
	return nil
}

func (m *TokenManager) request(ctx context.Context, query url.Values) (string, error) {
	resp, err := getWithTimeout(ctx, m.transport, Request{Endpoint: EndpointToken, Query: query}, m.timeout)
	if err != nil {
		return "", err
	}

	env, err := validatePayload(tokenSchema, resp.Body)
	if err != nil {
		return "", err
	}
	if env.ResponseCode.TokenInvalid() {
		return "", &ErrTokenInvalid{Code: env.ResponseCode}
	}
	if env.ResponseCode != CodeSuccess {
		return "", &ErrResponseCode{Code: env.ResponseCode}
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Body, &payload); err != nil {
		return "", &ErrInvalidResponse{Content: env.Body, Err: err}
	}
	if payload.Token == "" {
		return "", &ErrInvalidResponse{Content: env.Body, Err: fmt.Errorf("empty token")}
	}
	return payload.Token, nil
}

// MemoryTokenStore is an in-process TokenStore.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	ok    bool
}

func (s *MemoryTokenStore) Get(context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.ok, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.ok = token, true
	return nil
}

func (s *MemoryTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.ok = "", false
	return nil
}
