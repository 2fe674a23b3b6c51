package chat

import (
	"context"

	"github.com/kdelane/enginectl/internal/engine"
)

// Provider is the session-and-turn capability the chat subsystem needs
// from the remote endpoint. engine.Client satisfies it; tests use an
// in-memory fake.
type Provider interface {
	// CreateSession creates a new conversation session scoped to the
	// agent and user.
	CreateSession(ctx context.Context, agentName, userID string) (engine.Session, error)

	// GetSession fetches a session by full resource name, used to
	// validate a resumed session before reuse.
	GetSession(ctx context.Context, sessionName string) (engine.Session, error)

	// StreamQuery sends one user message and returns the streamed
	// fragment sequence for that turn.
	StreamQuery(ctx context.Context, agentName, sessionID, userID, message string) (<-chan engine.Fragment, <-chan error, error)

	// GenerateMemories persists the session into the agent's long-term
	// memory store.
	GenerateMemories(ctx context.Context, agentName, sessionID string) error
}
