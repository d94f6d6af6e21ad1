package llm

import (
	"context"
	"sync"
)

// MockClient is a scriptable completion client for tests. Responses are
// dequeued per purpose; when the script runs out the last entry repeats.
type MockClient struct {
	mu        sync.Mutex
	responses map[Purpose][]mockResponse
	calls     []MockCall
}

type mockResponse struct {
	payload *Payload
	err     error
}

// MockCall records one Generate invocation.
type MockCall struct {
	Message string
	Purpose Purpose
}

// NewMockClient creates an empty mock client.
func NewMockClient() *MockClient {
	return &MockClient{responses: make(map[Purpose][]mockResponse)}
}

// Queue appends a successful response for a purpose.
func (m *MockClient) Queue(purpose Purpose, content string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[purpose] = append(m.responses[purpose], mockResponse{payload: &Payload{Content: content}})
	return m
}

// QueueError appends a failure for a purpose.
func (m *MockClient) QueueError(purpose Purpose, err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[purpose] = append(m.responses[purpose], mockResponse{err: err})
	return m
}

// Calls returns all recorded invocations.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of invocations for one purpose.
func (m *MockClient) CallCount(purpose Purpose) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Purpose == purpose {
			n++
		}
	}
	return n
}

func (m *MockClient) Generate(ctx context.Context, message string, purpose Purpose) (*Payload, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Message: message, Purpose: purpose})
	queue := m.responses[purpose]
	var resp mockResponse
	switch len(queue) {
	case 0:
		resp = mockResponse{payload: &Payload{Content: "mock response"}}
	case 1:
		resp = queue[0]
	default:
		resp = queue[0]
		m.responses[purpose] = queue[1:]
	}
	m.mu.Unlock()

	if resp.err != nil {
		return nil, resp.err
	}
	payload := *resp.payload
	return &payload, nil
}
