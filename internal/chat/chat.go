package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kdelane/enginectl/internal/engine"
)

const (
	userPrompt  = "you> "
	agentPrompt = "agent> "

	// endTimeout bounds memory persistence at shutdown. Ending may be
	// entered with an already-cancelled parent context (interrupt), so
	// persistence runs on a detached context with its own deadline.
	endTimeout = 10 * time.Second
)

// Config contains the required parameters for a chat Loop.
type Config struct {
	Provider Provider
	Logger   *slog.Logger

	// AgentName is the agent's full resource name.
	AgentName string
	UserID    string

	Input     io.Reader
	Output    io.Writer
	ErrOutput io.Writer

	// StateDir holds session state files. Empty disables resumption.
	StateDir string
}

func (cfg Config) validate() error {
	if cfg.Provider == nil {
		return errors.New("provider is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.AgentName == "" {
		return errors.New("agent name is required")
	}
	if cfg.UserID == "" {
		return errors.New("user ID is required")
	}
	if cfg.Input == nil || cfg.Output == nil || cfg.ErrOutput == nil {
		return errors.New("input and output streams are required")
	}
	return nil
}

// Loop is the interactive read-eval loop: it reads a line of input,
// dispatches to the turn executor, handles exit commands and interrupts,
// and triggers memory persistence on termination.
type Loop struct {
	cfg      Config
	sessions *Manager
	turns    *Executor
	history  []Turn
}

// New creates a chat loop. The loop owns the turn history; completed
// turns are appended after each successful exchange.
func New(cfg Config) (*Loop, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sessions, err := NewManager(ManagerConfig{
		Provider:  cfg.Provider,
		Logger:    cfg.Logger,
		AgentName: cfg.AgentName,
		UserID:    cfg.UserID,
		StateDir:  cfg.StateDir,
	})
	if err != nil {
		return nil, err
	}
	return &Loop{
		cfg:      cfg,
		sessions: sessions,
		turns:    NewExecutor(cfg.Provider, cfg.Output, cfg.Logger, cfg.AgentName, cfg.UserID),
	}, nil
}

// Run drives the chat until the user quits, input ends, or ctx is
// cancelled (interrupt). Session persistence runs exactly once on every
// exit path after startup succeeded. A startup failure is returned and
// no interactive loop begins; in-loop turn errors are reported and the
// loop continues.
func (l *Loop) Run(ctx context.Context) error {
	// Derived so returning from Run releases the input reader goroutine.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess, resumed, err := l.sessions.Start(ctx)
	if err != nil {
		return fmt.Errorf("starting chat: %w", err)
	}
	// The single guaranteed cleanup path: runs on quit, EOF, and
	// interrupt alike. Detached from ctx so an interrupt cannot cancel
	// persistence itself.
	defer func() {
		endCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), endTimeout)
		defer cancel()
		l.sessions.End(endCtx)
	}()

	l.printWelcome(sess, resumed)

	// Input is read on its own goroutine so an interrupt at the prompt
	// reaches Ending immediately instead of waiting for the next line.
	// The goroutine exits on EOF or when ctx is cancelled; scanner is
	// only touched from the main flow again after lines has closed.
	scanner := bufio.NewScanner(l.cfg.Input)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	sawEOF := false
loop:
	for {
		fmt.Fprint(l.cfg.Output, userPrompt)

		var input string
		select {
		case <-ctx.Done():
			// Interrupt at the prompt.
			fmt.Fprintln(l.cfg.Output)
			return nil
		case line, ok := <-lines:
			if !ok {
				// EOF (Ctrl+D) behaves like quit.
				fmt.Fprintln(l.cfg.Output)
				sawEOF = true
				break loop
			}
			input = strings.TrimSpace(line)
		}

		if input == "" {
			continue
		}
		if isQuit(input) {
			break
		}

		fmt.Fprint(l.cfg.Output, agentPrompt)
		response, err := l.turns.Send(ctx, sess.ID(), input)
		switch {
		case err == nil:
			l.history = append(l.history, Turn{User: input, Response: response})

		case ctx.Err() != nil || errors.Is(err, context.Canceled):
			// Interrupt mid-stream: the partial buffer is discarded
			// from the turn history and the session is torn down.
			fmt.Fprintln(l.cfg.Output)
			l.cfg.Logger.Debug("turn aborted by interrupt")
			return nil

		case errors.Is(err, engine.ErrUnauthorized):
			// A rejected credential will not recover by retrying; end
			// the session instead of re-prompting.
			fmt.Fprintf(l.cfg.ErrOutput, "error: %v\n", err)
			return nil

		default:
			// Recoverable: report and re-prompt; the session stays
			// usable and the partial output remains visible.
			fmt.Fprintf(l.cfg.ErrOutput, "warning: %v (retry, or type 'quit' to leave)\n", err)
		}
	}

	// scanner is safe to inspect only once its goroutine has exited.
	if sawEOF {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
	fmt.Fprintln(l.cfg.Output, "Goodbye.")
	return nil
}

// History returns the completed turns exchanged so far.
func (l *Loop) History() []Turn { return l.history }

func (l *Loop) printWelcome(sess engine.Session, resumed bool) {
	fmt.Fprintf(l.cfg.Output, "Chatting with agent %s (session %s)\n", engine.ShortID(l.cfg.AgentName), sess.ID())
	if resumed {
		fmt.Fprintln(l.cfg.Output, "Resumed previous session.")
	}
	fmt.Fprintln(l.cfg.Output, "Type 'quit' or 'exit' to leave.")
	fmt.Fprintln(l.cfg.Output)
}

// isQuit recognizes the exit commands, case-insensitively.
func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit":
		return true
	}
	return false
}
