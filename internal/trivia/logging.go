package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abhisek/triviaboard/internal/store"
)

// LoggingTransport is a decorator that records every HTTP attempt as an
// event.
type LoggingTransport struct {
	inner     Transport
	eventRepo store.EventRepo
	warn      io.Writer
}

// WithLogging wraps a Transport with event logging. Failures to record an
// event are reported to warn (os.Stderr when nil) and never fail the request.
func WithLogging(t Transport, repo store.EventRepo, warn io.Writer) Transport {
	if warn == nil {
		warn = os.Stderr
	}
	return &LoggingTransport{inner: t, eventRepo: repo, warn: warn}
}

func (l *LoggingTransport) Get(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Get(ctx, req)

	data := store.RequestEventData{
		CycleID:      CycleFrom(ctx),
		Endpoint:     string(req.Endpoint),
		URL:          requestLabel(req),
		ResponseCode: -1,
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      err == nil,
	}

	if resp != nil {
		data.StatusCode = resp.StatusCode
		data.URL = resp.URL
		data.ResponseBody = string(resp.Body)
		if code, ok := peekResponseCode(resp.Body); ok {
			data.ResponseCode = int(code)
			data.Success = code == CodeSuccess || code == CodeNoResults
		}
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		var rl *ErrRateLimit
		var te *ErrTransport
		switch {
		case errors.As(err, &rl):
			data.StatusCode = 429
		case errors.As(err, &te):
			data.StatusCode = te.StatusCode
		}
	}

	if logErr := l.eventRepo.AppendRequest(context.WithoutCancel(ctx), data); logErr != nil {
		fmt.Fprintf(l.warn, "warning: failed to log request event: %v\n", logErr)
	}

	return resp, err
}

// requestLabel describes a request whose URL was never resolved.
func requestLabel(req Request) string {
	if len(req.Query) == 0 {
		return string(req.Endpoint)
	}
	return string(req.Endpoint) + "?" + req.Query.Encode()
}

// peekResponseCode reads the response_code field without validating the
// rest of the payload.
func peekResponseCode(body []byte) (ResponseCode, bool) {
	var head struct {
		ResponseCode *int `json:"response_code"`
	}
	if err := json.Unmarshal(body, &head); err != nil || head.ResponseCode == nil {
		return 0, false
	}
	return ResponseCode(*head.ResponseCode), true
}
