package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/kdelane/enginectl/internal/engine"
)

const testAgent = "projects/p/locations/l/reasoningEngines/abc123"

func nopLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestExecutorSendConcatenatesDeltas(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{script: []scriptedTurn{
		{frags: []engine.Fragment{textFrag("Hel"), textFrag("lo"), textFrag(" there")}},
	}}
	var out strings.Builder
	exec := NewExecutor(provider, &out, nopLogger(), testAgent, "u1")

	got, err := exec.Send(context.Background(), "s1", "Hi there!")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got != "Hello there" {
		t.Errorf("response = %q, want %q", got, "Hello there")
	}
	if !strings.Contains(out.String(), "Hello there") {
		t.Errorf("output %q missing rendered response", out.String())
	}
	if provider.messages[0] != "Hi there!" {
		t.Errorf("sent message = %q", provider.messages[0])
	}
}

func TestExecutorSendToolMarker(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{script: []scriptedTurn{
		{frags: []engine.Fragment{
			textFrag("Hi"),
			textFrag(" there"),
			toolFrag("search"),
			textFrag("!"),
		}},
	}}
	var out strings.Builder
	exec := NewExecutor(provider, &out, nopLogger(), testAgent, "u1")

	got, err := exec.Send(context.Background(), "s1", "Hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	// The marker appears between the surrounding deltas in the rendered
	// output but never enters the response text.
	if got != "Hi there!" {
		t.Errorf("response = %q, want %q", got, "Hi there!")
	}
	marker := ToolMarker("search")
	rendered := out.String()
	idx := strings.Index(rendered, marker)
	if idx < 0 {
		t.Fatalf("output %q missing tool marker", rendered)
	}
	if before := rendered[:idx]; !strings.Contains(before, "Hi there") {
		t.Errorf("marker rendered before preceding deltas: %q", rendered)
	}
	if after := rendered[idx:]; !strings.Contains(after, "!") {
		t.Errorf("marker rendered before following delta: %q", rendered)
	}
}

func TestExecutorSendEmptyInput(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{} // empty script: any remote call fails the test
	exec := NewExecutor(provider, &strings.Builder{}, nopLogger(), testAgent, "u1")

	for _, input := range []string{"", "   ", "\t"} {
		_, err := exec.Send(context.Background(), "s1", input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Send(%q) error = %v, want ErrEmptyInput", input, err)
		}
	}
	if provider.streams() != 0 {
		t.Errorf("empty input reached the provider %d times", provider.streams())
	}
}

func TestExecutorSendMidStreamError(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{script: []scriptedTurn{
		{
			frags: []engine.Fragment{textFrag("partial ans")},
			err:   errors.New("remote error INTERNAL: model crashed"),
		},
	}}
	var out strings.Builder
	exec := NewExecutor(provider, &out, nopLogger(), testAgent, "u1")

	_, err := exec.Send(context.Background(), "s1", "hello")
	te, ok := IsTurnError(err)
	if !ok {
		t.Fatalf("Send error = %v, want *TurnError", err)
	}
	if te.Partial != "partial ans" {
		t.Errorf("Partial = %q, want %q", te.Partial, "partial ans")
	}
	if !strings.Contains(out.String(), "partial ans") {
		t.Errorf("partial output not rendered: %q", out.String())
	}
}

func TestExecutorSendErrorKeepsDeliveredDeltas(t *testing.T) {
	t.Parallel()

	// Both channels are ready before Send starts consuming: deltas sit
	// in the fragment buffer and the error is already enqueued. The
	// delivered text must be rendered and carried in Partial no matter
	// which channel the scheduler would offer first.
	provider := &fakeProvider{script: []scriptedTurn{
		{
			preload: true,
			frags:   []engine.Fragment{textFrag("deliv"), textFrag("ered")},
			err:     errors.New("remote error INTERNAL: late failure"),
		},
	}}
	var out strings.Builder
	exec := NewExecutor(provider, &out, nopLogger(), testAgent, "u1")

	_, err := exec.Send(context.Background(), "s1", "hello")
	te, ok := IsTurnError(err)
	if !ok {
		t.Fatalf("Send error = %v, want *TurnError", err)
	}
	if te.Partial != "delivered" {
		t.Errorf("Partial = %q, want %q", te.Partial, "delivered")
	}
	if !strings.Contains(out.String(), "delivered") {
		t.Errorf("delivered deltas not rendered: %q", out.String())
	}
}

func TestExecutorSendLogsStreamFailure(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{script: []scriptedTurn{
		{err: errors.New("remote error INTERNAL: boom")},
	}}
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	exec := NewExecutor(provider, &strings.Builder{}, logger, testAgent, "u1")

	_, err := exec.Send(context.Background(), "s1", "hello")
	if _, ok := IsTurnError(err); !ok {
		t.Fatalf("Send error = %v, want *TurnError", err)
	}
	if !strings.Contains(logBuf.String(), "turn stream failed") {
		t.Errorf("stream failure not logged: %q", logBuf.String())
	}
}

func TestExecutorSendStartFailure(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{script: []scriptedTurn{
		{startErr: errors.New("dial refused")},
	}}
	exec := NewExecutor(provider, &strings.Builder{}, nopLogger(), testAgent, "u1")

	_, err := exec.Send(context.Background(), "s1", "hello")
	te, ok := IsTurnError(err)
	if !ok {
		t.Fatalf("Send error = %v, want *TurnError", err)
	}
	if te.Partial != "" {
		t.Errorf("Partial = %q, want empty", te.Partial)
	}
}

func TestExecutorSendCancellation(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	provider := &fakeProvider{
		script:  []scriptedTurn{{block: true}},
		started: started,
	}
	exec := NewExecutor(provider, &strings.Builder{}, nopLogger(), testAgent, "u1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := exec.Send(ctx, "s1", "hello")
		done <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Send error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return after cancellation")
	}
}

func TestTurnErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	err := &TurnError{Partial: "p", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("TurnError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q missing cause", err.Error())
	}
}
