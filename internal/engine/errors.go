package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors for remote operations. These are part of the Client's
// public API and should be checked with errors.Is().
var (
	// ErrNotFound indicates the resolved resource does not exist remotely.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the credential was rejected by the
	// remote endpoint.
	ErrUnauthorized = errors.New("credential rejected")

	// ErrUnavailable indicates a transport-level failure or a server
	// error; the remote endpoint could not serve the request.
	ErrUnavailable = errors.New("remote endpoint unavailable")

	// ErrInvalidAgentID indicates the agent identifier is empty or
	// contains whitespace or control characters.
	ErrInvalidAgentID = errors.New("invalid agent ID")
)

// apiErrorBody is the error envelope returned by the remote endpoint.
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// statusError maps an HTTP response to the error taxonomy. The response
// body is consumed for the remote message; callers must not read it again.
func statusError(op string, resp *http.Response) error {
	msg := remoteMessage(resp.Body)

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		sentinel = ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		sentinel = ErrNotFound
	case resp.StatusCode >= 500:
		sentinel = ErrUnavailable
	default:
		if msg == "" {
			return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
		}
		return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, msg)
	}

	if msg == "" {
		return fmt.Errorf("%s (HTTP %d): %w", op, resp.StatusCode, sentinel)
	}
	return fmt.Errorf("%s (HTTP %d): %w: %s", op, resp.StatusCode, sentinel, msg)
}

// remoteMessage extracts the human-readable message from an error body.
// Returns empty string when the body is missing or not the expected shape.
func remoteMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body apiErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Error.Message
}
