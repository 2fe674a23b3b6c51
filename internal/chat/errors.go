package chat

import "errors"

// ErrEmptyInput indicates the user message was empty after trimming
// whitespace. It is raised locally, before any remote call.
var ErrEmptyInput = errors.New("empty input")

// TurnError reports a turn that failed after partial streaming. The
// partial text has already been rendered to the user; the loop reports
// the error and continues, leaving the session usable.
type TurnError struct {
	// Partial is the response text accumulated before the failure.
	Partial string

	// Err is the underlying stream or remote error.
	Err error
}

func (e *TurnError) Error() string {
	return "turn failed: " + e.Err.Error()
}

func (e *TurnError) Unwrap() error { return e.Err }
