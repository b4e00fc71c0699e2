package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of QueryClientInterface for testing
type MockClient struct {
	// Mock return values
	Answer      string
	Err         error
	EndpointVal string

	// QueryFunc, when set, overrides Answer/Err
	QueryFunc func(ctx context.Context, query string) (string, error)

	// Call counters/recorders
	mu          sync.Mutex
	Queries     []string
	CloseCalled bool
}

// Ensure MockClient implements QueryClientInterface
var _ QueryClientInterface = (*MockClient)(nil)

func (m *MockClient) Query(ctx context.Context, query string) (string, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	m.mu.Unlock()

	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, query)
	}
	return m.Answer, m.Err
}

func (m *MockClient) Endpoint() string {
	if m.EndpointVal == "" {
		return "http://127.0.0.1:8000/query"
	}
	return m.EndpointVal
}

func (m *MockClient) Close() {
	m.CloseCalled = true
}

// QueryCount returns how many queries were recorded
func (m *MockClient) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}
