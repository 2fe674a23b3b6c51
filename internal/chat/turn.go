package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kdelane/enginectl/internal/engine"
)

// Turn is one user message paired with the agent's finalized response.
type Turn struct {
	User     string
	Response string
}

// Executor sends one user message per call and renders the streamed
// response incrementally. Exactly one turn is in flight at a time; the
// Executor owns the response buffer while a turn is executing.
type Executor struct {
	provider  Provider
	out       io.Writer
	logger    *slog.Logger
	agentName string
	userID    string
}

// NewExecutor creates a turn executor writing rendered output to out.
func NewExecutor(provider Provider, out io.Writer, logger *slog.Logger, agentName, userID string) *Executor {
	return &Executor{
		provider:  provider,
		out:       out,
		logger:    logger,
		agentName: agentName,
		userID:    userID,
	}
}

// Send sends one user message on the session and consumes the streamed
// fragment sequence, rendering each fragment as it arrives:
//
//   - text deltas are appended to the response buffer and written
//     immediately, unbatched
//   - tool-invocation notices are rendered as a distinct marker line and
//     never enter the response buffer
//
// On success the finalized response text is returned. Empty input (after
// trimming) returns ErrEmptyInput without a remote call. A mid-stream
// remote error returns *TurnError carrying the partial text. Context
// cancellation returns the context error; the partial buffer is
// discarded by the caller.
func (e *Executor) Send(ctx context.Context, sessionID, userText string) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", ErrEmptyInput
	}

	frags, errs, err := e.provider.StreamQuery(ctx, e.agentName, sessionID, e.userID, userText)
	if err != nil {
		e.logger.Debug("opening turn stream", "error", err)
		return "", &TurnError{Err: err}
	}

	// Drain the fragment channel to exhaustion before looking at the
	// error channel. The fragment channel is buffered and closed after
	// any stream error is enqueued, so consuming the error first would
	// drop deltas the remote already delivered.
	var buf strings.Builder
	for frags != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case frag, ok := <-frags:
			if !ok {
				frags = nil
				continue
			}
			e.render(&buf, frag)
		}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()

	case streamErr, ok := <-errs:
		if ok && streamErr != nil {
			e.logger.Debug("turn stream failed", "rendered", buf.Len(), "error", streamErr)
			fmt.Fprintln(e.out)
			return "", &TurnError{Partial: buf.String(), Err: streamErr}
		}
	}

	fmt.Fprintln(e.out)
	return buf.String(), nil
}

func (e *Executor) render(buf *strings.Builder, frag engine.Fragment) {
	switch frag.Kind {
	case engine.FragmentText:
		buf.WriteString(frag.Text)
		fmt.Fprint(e.out, frag.Text)
	case engine.FragmentTool:
		// Rendered distinctly from body text; the buffer position is
		// not disturbed.
		fmt.Fprintf(e.out, "\n%s\n", ToolMarker(frag.ToolName))
	}
}

// ToolMarker formats the visual marker for a tool-invocation notice.
func ToolMarker(name string) string {
	return fmt.Sprintf("⚙ [tool: %s]", name)
}

// IsTurnError reports whether err is a recoverable turn failure and
// returns it when so.
func IsTurnError(err error) (*TurnError, bool) {
	var te *TurnError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
