package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/longevai/ragchat/internal/errors"
	"github.com/longevai/ragchat/internal/models"
)

const (
	// PathAnswer is the gjson path of the answer in a query response
	PathAnswer = "answer"

	maxErrorBody    = 4096
	maxResponseBody = 8 << 20
)

// Query sends one question to the endpoint and returns the answer text
func (c *QueryClient) Query(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", apierrors.ErrEmptyQuery
	}

	if c.IsClosed() {
		return "", fmt.Errorf("client is closed")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(models.QueryRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	requestID := c.newID()
	req.Header.Set(models.HeaderRequestID, requestID)

	log := c.logger.With().Str("request_id", requestID).Str("endpoint", c.endpoint).Logger()
	log.Debug().Int("query_len", len(query)).Msg("sending query")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", apierrors.NewTimeoutError(c.timeout.String()), err)
		}
		return "", apierrors.NewNetworkErrorWithEndpoint("query", c.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	log = log.With().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Logger()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Debug().Msg("query rejected")
		return "", apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, "query failed", string(errorBody))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("read response", c.endpoint, err)
	}

	answer, err := ParseAnswer(body)
	if err != nil {
		return "", err
	}

	log.Debug().Int("answer_len", len(answer)).Msg("query answered")
	return answer, nil
}

// ParseAnswer extracts the answer from a query response body. Only a JSON
// object with a string "answer" field is accepted.
func ParseAnswer(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return "", apierrors.NewParseError("response is not a JSON object", "")
	}

	answer := root.Get(PathAnswer)
	if !answer.Exists() {
		return "", apierrors.NewMissingFieldError(PathAnswer)
	}
	if answer.Type != gjson.String {
		return "", apierrors.NewParseError(fmt.Sprintf("expected string, got %s", answer.Type), PathAnswer)
	}

	return answer.String(), nil
}
