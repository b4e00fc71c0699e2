package commands

import (
	"errors"
	"fmt"
	"strings"

	apierrors "github.com/longevai/ragchat/internal/errors"
	"github.com/longevai/ragchat/internal/tui"
)

// errorHints are tried in order; the first match is shown
var errorHints = []struct {
	match func(error) bool
	hint  string
}{
	{apierrors.IsTimeoutError, "The backend did not answer in time. Raise timeout_seconds or try again"},
	{apierrors.IsNetworkError, "Check that the backend is running and the endpoint is correct"},
	{isNoAnswer, `The reply has no "answer" field. Check that the endpoint is the backend's query route`},
	{isInvalidResponse, `The backend must reply with a JSON object like {"answer": "..."}`},
}

func isNoAnswer(err error) bool        { return errors.Is(err, apierrors.ErrNoAnswer) }
func isInvalidResponse(err error) bool { return errors.Is(err, apierrors.ErrInvalidResponse) }

// formatErrorMessage explains a failed query for --verbose output
func formatErrorMessage(err error, action string) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(tui.Notice(fmt.Sprintf("✗ %s: %v", action, err), true))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n" + tui.Hint(fmt.Sprintf("  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString("\n" + tui.Hint("  Endpoint: "+endpoint))
	}

	// A rejected request's body usually names the backend's problem
	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString("\n\n" + tui.Hint("  "+strings.ReplaceAll(body, "\n", "\n  ")))
		return sb.String()
	}

	for _, h := range errorHints {
		if h.match(err) {
			sb.WriteString("\n" + tui.Hint("  Hint: "+h.hint))
			break
		}
	}
	return sb.String()
}
