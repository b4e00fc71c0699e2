package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(500, "http://127.0.0.1:8000/query", "query failed")

	expected := "API error [500] at http://127.0.0.1:8000/query: query failed"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "ep", "boom")
	if noStatus.Error() != "API error at ep: boom" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestAPIErrorWithBody(t *testing.T) {
	err := NewAPIErrorWithBody(502, "ep", "bad gateway", "upstream down")

	wrapped := fmt.Errorf("query: %w", err)
	if got := GetHTTPStatus(wrapped); got != 502 {
		t.Errorf("GetHTTPStatus() = %d, want 502", got)
	}
	if got := GetResponseBody(wrapped); got != "upstream down" {
		t.Errorf("GetResponseBody() = %q", got)
	}
	if got := GetEndpoint(wrapped); got != "ep" {
		t.Errorf("GetEndpoint() = %q", got)
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkErrorWithEndpoint("query", "http://localhost/query", cause)

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if !IsNetworkError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsNetworkError should see through wrapping")
	}
	if GetEndpoint(err) != "http://localhost/query" {
		t.Errorf("GetEndpoint() = %q", GetEndpoint(err))
	}
	if GetHTTPStatus(err) != 0 {
		t.Error("network errors carry no HTTP status")
	}
}

func TestTimeoutError(t *testing.T) {
	if NewTimeoutError("").Error() != "request timed out" {
		t.Error("unexpected empty-message text")
	}
	if !IsTimeoutError(NewTimeoutError("slow")) {
		t.Error("TimeoutError should be a timeout")
	}

	netErr := NewNetworkErrorWithEndpoint("query", "ep", context.DeadlineExceeded)
	if !IsTimeoutError(netErr) {
		t.Error("deadline exceeded inside a NetworkError should count as a timeout")
	}
	if IsTimeoutError(errors.New("plain")) {
		t.Error("plain error is not a timeout")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("expected string, got Number", "answer")

	if err.Error() != `parse error at "answer": expected string, got Number` {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}
	if errors.Is(err, ErrNoAnswer) {
		t.Error("a wrongly typed answer is not a missing answer")
	}

	invalidJSON := NewParseError("body is not valid JSON", "")
	if errors.Is(invalidJSON, ErrNoAnswer) {
		t.Error("ParseError without a path should not match ErrNoAnswer")
	}
	if !IsParseError(fmt.Errorf("x: %w", invalidJSON)) {
		t.Error("IsParseError should see through wrapping")
	}
}

func TestMissingFieldError(t *testing.T) {
	err := NewMissingFieldError("answer")

	if err.Error() != `parse error at "answer": missing field` {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(fmt.Errorf("query: %w", err), ErrNoAnswer) {
		t.Error("missing field should match ErrNoAnswer through wrapping")
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("missing field should match ErrInvalidResponse")
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"timeout", NewTimeoutError("x"), "timeout"},
		{"network", NewNetworkErrorWithEndpoint("q", "ep", errors.New("refused")), "network"},
		{"status", NewAPIError(404, "ep", "not found"), "status"},
		{"parse", NewParseError("bad", ""), "parse"},
		{"wrong type", NewParseError("expected string, got Number", "answer"), "parse"},
		{"no answer", NewMissingFieldError("answer"), "no_answer"},
		{"other", errors.New("other"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
