package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SSE event types produced by the remote streaming endpoint.
const (
	eventChunk = "chunk"
	eventTool  = "tool"
	eventDone  = "done"
	eventError = "error"
)

// chunkData is the payload of "chunk" events.
type chunkData struct {
	Text string `json:"text"`
}

// toolData is the payload of "tool" events.
type toolData struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// errorData is the payload of "error" events.
type errorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// streamQueryRequest is the body of a :streamQuery call.
type streamQueryRequest struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Message   string `json:"message"`
}

// StreamQuery sends one user message on a session and returns the
// response as a lazily-consumed fragment sequence.
//
// Fragments are delivered in arrival order on the first channel. The
// error channel receives at most one value: a mid-stream remote error or
// a malformed-stream error. Both channels are closed when the stream
// ends. The reading goroutine stops promptly when ctx is cancelled, and
// the underlying network stream is released.
func (c *Client) StreamQuery(ctx context.Context, agentName, sessionID, userID, message string) (<-chan Fragment, <-chan error, error) {
	const op = "streaming query"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	body := streamQueryRequest{SessionID: sessionID, UserID: userID, Message: message}
	req, err := c.newRequest(ctx, http.MethodPost, agentName+":streamQuery", body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}
		return nil, nil, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, nil, statusError(op, resp)
	}

	frags := make(chan Fragment, 10)
	errs := make(chan error, 1)

	go func() {
		defer close(frags)
		defer close(errs)
		defer resp.Body.Close()
		c.consumeStream(ctx, resp.Body, frags, errs)
	}()

	return frags, errs, nil
}

// consumeStream parses the SSE stream line by line as data arrives and
// forwards fragments in order. Returns on stream end, remote error, or
// context cancellation.
func (c *Client) consumeStream(ctx context.Context, r io.Reader, frags chan<- Fragment, errs chan<- error) {
	scanner := bufio.NewScanner(r)

	// Large tool arguments can exceed the default token size.
	const maxScanTokenSize = 1 << 20
	scanner.Buffer(make([]byte, 64<<10), maxScanTokenSize)

	event := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || strings.HasPrefix(line, ":"):
			continue

		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")

		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return
			}

			frag, done, err := parseEvent(event, data)
			event = ""
			if err != nil {
				errs <- err
				return
			}
			if done {
				return
			}
			if frag == nil {
				continue
			}

			select {
			case frags <- *frag:
			case <-ctx.Done():
				return
			}
		}

		// A cancelled context must stop consumption even when the
		// remote keeps producing lines.
		if ctx.Err() != nil {
			return
		}
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		if ctx.Err() == nil {
			errs <- fmt.Errorf("reading stream: %w: %v", ErrUnavailable, err)
		}
	}
}

// parseEvent maps one SSE event onto the fragment union. The "done"
// event terminates the stream; "error" surfaces as a stream error.
func parseEvent(event, data string) (frag *Fragment, done bool, err error) {
	switch event {
	case eventChunk, "": // bare data lines default to chunks
		var d chunkData
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, false, fmt.Errorf("malformed chunk event: %w", err)
		}
		return &Fragment{Kind: FragmentText, Text: d.Text}, false, nil

	case eventTool:
		var d toolData
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, false, fmt.Errorf("malformed tool event: %w", err)
		}
		return &Fragment{Kind: FragmentTool, ToolName: d.Name, ToolArgs: d.Args}, false, nil

	case eventDone:
		return nil, true, nil

	case eventError:
		var d errorData
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, false, fmt.Errorf("malformed error event: %w", err)
		}
		return nil, false, fmt.Errorf("remote error %s: %s", d.Code, d.Message)

	default:
		// Unknown event types are skipped for forward compatibility.
		return nil, false, nil
	}
}
