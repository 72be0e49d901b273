package trivia

import (
	"context"
	"errors"
	"sync"
)

// MockResponse is a canned reply for the MockTransport.
type MockResponse struct {
	Body []byte
	Err  error
}

// MockTransport is a deterministic Transport for testing. Each endpoint has
// its own FIFO queue of canned replies; all requests are recorded.
type MockTransport struct {
	mu        sync.Mutex
	responses map[Endpoint][]MockResponse
	Calls     []Request
}

// NewMockTransport creates an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{responses: make(map[Endpoint][]MockResponse)}
}

// AddResponse appends a canned reply for endpoint.
func (m *MockTransport) AddResponse(endpoint Endpoint, resp MockResponse) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[endpoint] = append(m.responses[endpoint], resp)
	return m
}

// Get returns the next canned reply for the endpoint, or an *ErrTransport
// when its queue is empty.
func (m *MockTransport) Get(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	queue := m.responses[req.Endpoint]
	if len(queue) == 0 {
		return nil, &ErrTransport{StatusCode: 503, Err: errors.New("no canned response")}
	}
	resp := queue[0]
	m.responses[req.Endpoint] = queue[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{URL: string(req.Endpoint), StatusCode: 200, Body: resp.Body}, nil
}

// CallCount returns the number of requests made to endpoint.
func (m *MockTransport) CallCount(endpoint Endpoint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Endpoint == endpoint {
			n++
		}
	}
	return n
}

// CallsTo returns the recorded requests made to endpoint.
func (m *MockTransport) CallsTo(endpoint Endpoint) []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Request
	for _, c := range m.Calls {
		if c.Endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}
