package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/kdelane/enginectl/internal/engine"
)

// scriptedTurn describes one StreamQuery response from the fake
// provider: fragments delivered in order, optionally followed by a
// mid-stream error. startErr fails the call before any stream opens;
// block keeps the stream open until the context is cancelled; preload
// fills and closes both channels before StreamQuery returns, so the
// consumer sees every value ready at once regardless of scheduling.
type scriptedTurn struct {
	frags    []engine.Fragment
	err      error
	startErr error
	block    bool
	preload  bool
}

// fakeProvider is an in-memory Provider. It records calls so tests can
// assert on session lifecycle and turn dispatch.
type fakeProvider struct {
	mu sync.Mutex

	sessionName string
	createErr   error
	getErr      error

	script      []scriptedTurn
	streamCalls int
	messages    []string
	started     chan struct{} // closed when the first stream opens, if set

	generateCalls int
	generateErr   error
	generatedIDs  []string
}

func (p *fakeProvider) CreateSession(ctx context.Context, agentName, userID string) (engine.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return engine.Session{}, p.createErr
	}
	name := p.sessionName
	if name == "" {
		name = agentName + "/sessions/fresh"
	}
	return engine.Session{Name: name, UserID: userID}, nil
}

func (p *fakeProvider) GetSession(ctx context.Context, sessionName string) (engine.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.getErr != nil {
		return engine.Session{}, p.getErr
	}
	return engine.Session{Name: sessionName}, nil
}

func (p *fakeProvider) StreamQuery(ctx context.Context, agentName, sessionID, userID, message string) (<-chan engine.Fragment, <-chan error, error) {
	p.mu.Lock()
	if p.streamCalls >= len(p.script) {
		p.mu.Unlock()
		return nil, nil, errors.New("unexpected stream call")
	}
	turn := p.script[p.streamCalls]
	p.streamCalls++
	p.messages = append(p.messages, message)
	started := p.started
	p.started = nil
	p.mu.Unlock()

	if started != nil {
		close(started)
	}
	if turn.startErr != nil {
		return nil, nil, turn.startErr
	}

	// Same channel shape as the real client: buffered fragments, one
	// error slot, error channel closed before the fragment channel.
	frags := make(chan engine.Fragment, 10)
	errs := make(chan error, 1)

	if turn.preload {
		for _, f := range turn.frags {
			frags <- f
		}
		if turn.err != nil {
			errs <- turn.err
		}
		close(errs)
		close(frags)
		return frags, errs, nil
	}

	go func() {
		defer close(frags)
		defer close(errs)
		if turn.block {
			<-ctx.Done()
			return
		}
		for _, f := range turn.frags {
			select {
			case frags <- f:
			case <-ctx.Done():
				return
			}
		}
		if turn.err != nil {
			errs <- turn.err
		}
	}()
	return frags, errs, nil
}

func (p *fakeProvider) GenerateMemories(ctx context.Context, agentName, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generateCalls++
	p.generatedIDs = append(p.generatedIDs, sessionID)
	return p.generateErr
}

func (p *fakeProvider) streams() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamCalls
}

func (p *fakeProvider) generated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generateCalls
}

func textFrag(s string) engine.Fragment {
	return engine.Fragment{Kind: engine.FragmentText, Text: s}
}

func toolFrag(name string) engine.Fragment {
	return engine.Fragment{Kind: engine.FragmentTool, ToolName: name}
}
