package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kdelane/enginectl/internal/engine"
)

// managerState tracks the session lifecycle:
// Uninitialized → Active → Closed, no transitions back.
type managerState int

const (
	stateUninitialized managerState = iota
	stateActive
	stateClosed
)

// Manager owns session identity for the lifetime of a chat. Start
// creates a new session or resumes the one recorded in the local state
// file; End persists the conversation into the agent's long-term memory
// exactly once, best-effort.
type Manager struct {
	provider  Provider
	logger    *slog.Logger
	agentName string
	userID    string
	stateDir  string

	state managerState
	sess  engine.Session
}

// ManagerConfig contains the required parameters for a Manager.
type ManagerConfig struct {
	Provider  Provider
	Logger    *slog.Logger
	AgentName string // full resource name
	UserID    string

	// StateDir holds session state files. Empty disables resumption.
	StateDir string
}

// NewManager creates a session manager. A chat process always creates a
// fresh Manager; instances are not reusable across chats.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Provider == nil {
		return nil, errors.New("provider is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.AgentName == "" {
		return nil, errors.New("agent name is required")
	}
	if cfg.UserID == "" {
		return nil, errors.New("user ID is required")
	}
	return &Manager{
		provider:  cfg.Provider,
		logger:    cfg.Logger,
		agentName: cfg.AgentName,
		userID:    cfg.UserID,
		stateDir:  cfg.StateDir,
	}, nil
}

// Start creates or resumes a session. resumed reports whether a prior
// session was picked up from local state. Failure is fatal to the chat:
// no interactive loop begins.
func (m *Manager) Start(ctx context.Context) (sess engine.Session, resumed bool, err error) {
	if m.state != stateUninitialized {
		return engine.Session{}, false, errors.New("session already started")
	}

	if prior := m.loadPrior(ctx); prior != nil {
		m.sess = *prior
		m.state = stateActive
		return m.sess, true, nil
	}

	sess, err = m.provider.CreateSession(ctx, m.agentName, m.userID)
	if err != nil {
		return engine.Session{}, false, fmt.Errorf("creating session: %w", err)
	}
	m.sess = sess
	m.state = stateActive

	if m.stateDir != "" {
		if err := saveSessionState(m.stateDir, m.agentName, m.userID, sess.Name); err != nil {
			m.logger.Warn("saving session state", "error", err)
		}
	}
	return sess, false, nil
}

// loadPrior returns a validated prior session, or nil when none exists
// or the recorded session is no longer usable. Validation failures fall
// back to creating a fresh session; only the create path decides whether
// the remote is reachable enough to chat.
func (m *Manager) loadPrior(ctx context.Context) *engine.Session {
	if m.stateDir == "" {
		return nil
	}
	name, err := loadSessionState(m.stateDir, m.agentName, m.userID)
	if err != nil {
		m.logger.Warn("loading session state", "error", err)
		return nil
	}
	if name == "" {
		return nil
	}

	sess, err := m.provider.GetSession(ctx, name)
	if err != nil {
		m.logger.Debug("recorded session not resumable", "session", name, "error", err)
		return nil
	}
	return &sess
}

// Session returns the active session. Valid only between Start and End.
func (m *Manager) Session() engine.Session { return m.sess }

// End persists the conversation into the agent's memory store.
// Best-effort: failure is logged, never returned, since the interactive
// session has already delivered its value. End runs at most once; later
// calls are no-ops.
func (m *Manager) End(ctx context.Context) {
	if m.state != stateActive {
		return
	}
	m.state = stateClosed

	if err := m.provider.GenerateMemories(ctx, m.agentName, m.sess.ID()); err != nil {
		m.logger.Warn("persisting session to memory", "session", m.sess.ID(), "error", err)
		// Keep the state file so the next chat can resume and retry
		// persistence on its own exit.
		return
	}
	m.logger.Debug("session persisted to memory", "session", m.sess.ID())

	if m.stateDir != "" {
		if err := clearSessionState(m.stateDir, m.agentName, m.userID); err != nil {
			m.logger.Warn("clearing session state", "error", err)
		}
	}
}
