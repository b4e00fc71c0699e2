// Package api provides the RAG backend query client.
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/longevai/ragchat/internal/models"
)

// Doer is the part of tls_client.HttpClient the query client needs
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// QueryClientInterface is implemented by QueryClient and MockClient
type QueryClientInterface interface {
	Query(ctx context.Context, query string) (string, error)
	Endpoint() string
	Close()
}

// QueryClient sends questions to the backend's query endpoint
type QueryClient struct {
	httpClient Doer
	endpoint   string
	timeout    time.Duration
	logger     zerolog.Logger
	newID      func() string
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*QueryClient)

// WithEndpoint sets the query endpoint URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *QueryClient) {
		c.endpoint = endpoint
	}
}

// WithTimeout bounds each query. Zero means no deadline.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *QueryClient) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the TLS client, mainly for tests
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *QueryClient) {
		c.httpClient = doer
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *QueryClient) {
		c.logger = logger
	}
}

// WithRequestIDFunc overrides request id generation
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *QueryClient) {
		c.newID = fn
	}
}

// NewClient creates a new QueryClient
func NewClient(opts ...ClientOption) (*QueryClient, error) {
	client := &QueryClient{
		endpoint: models.EndpointQuery,
		timeout:  300 * time.Second,
		logger:   zerolog.Nop(),
		newID:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// tls-client reads 0 as no timeout; leaving the option out means 30s
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the query endpoint URL
func (c *QueryClient) Endpoint() string {
	return c.endpoint
}

// Close marks the client closed; later queries fail
func (c *QueryClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *QueryClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
