package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int    // max results (0 = unlimited)
	Endpoint string // exact endpoint match ("" = any)
	CycleID  string // exact load cycle match ("" = any)
}

// RequestEventData captures the data for a single HTTP attempt against
// the trivia API.
type RequestEventData struct {
	CycleID      string
	Endpoint     string
	URL          string
	StatusCode   int
	ResponseCode int // -1 when the body carried no response code
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	ResponseBody string
}

// RequestEvent is a persisted RequestEventData.
type RequestEvent struct {
	ID        int
	Timestamp time.Time
	RequestEventData
}

// EndpointUsage aggregates request events for one endpoint.
type EndpointUsage struct {
	Endpoint     string
	Calls        int
	Failures     int
	RateLimited  int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to request events.
type EventRepo interface {
	// AppendRequest records one HTTP attempt.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// QueryRequestEvents returns events newest first.
	QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	// GetRequestEvent returns the event with the given ID, or nil if absent.
	GetRequestEvent(ctx context.Context, id int) (*RequestEvent, error)

	// UsageByEndpoint aggregates events per endpoint.
	UsageByEndpoint(ctx context.Context) ([]EndpointUsage, error)
}
