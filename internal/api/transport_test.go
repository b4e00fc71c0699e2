package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/longevai/ragchat/internal/errors"
)

// slowBackend answers {"answer": "late"} after delay, or gives up when the
// test ends
func slowBackend(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-time.After(delay):
		case <-release:
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"answer":"late"}`)
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	return srv
}

func TestQuery_RealTransport(t *testing.T) {
	srv := slowBackend(t, 0)

	client, err := NewClient(WithEndpoint(srv.URL+"/query"), WithTimeout(5*time.Second))
	require.NoError(t, err)

	answer, err := client.Query(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "late", answer)
}

func TestQuery_RealTransportTimeout(t *testing.T) {
	srv := slowBackend(t, 10*time.Second)

	client, err := NewClient(WithEndpoint(srv.URL+"/query"), WithTimeout(time.Second))
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Query(context.Background(), "X")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, apierrors.IsNetworkError(err))
	assert.True(t, apierrors.IsTimeoutError(err))
}

func TestQuery_ZeroTimeoutOutlastsTransportDefault(t *testing.T) {
	if testing.Short() {
		t.Skip("waits past the tls-client 30s default")
	}
	srv := slowBackend(t, 33*time.Second)

	client, err := NewClient(WithEndpoint(srv.URL+"/query"), WithTimeout(0))
	require.NoError(t, err)

	answer, err := client.Query(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "late", answer)
}
