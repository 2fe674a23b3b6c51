// Package engine provides a typed client for the remote Agent Engine
// API: agent deployment CRUD, session lifecycle, streamed queries, and
// memory persistence.
//
// The client is a thin HTTP/JSON wrapper. All operations take a
// context.Context, map HTTP failures onto the package's sentinel errors,
// and pass through a proactive rate limiter so a misbehaving loop cannot
// hammer the remote endpoint.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAPIVersion is used when Config.APIVersion is empty.
const DefaultAPIVersion = "v1beta1"

// defaultUnaryTimeout bounds unary calls when Config.UnaryTimeout is
// zero. Streamed queries are exempt; their lifetime is the caller's
// context.
const defaultUnaryTimeout = 30 * time.Second

// DefaultBaseURL returns the per-location endpoint used when no override
// is configured.
func DefaultBaseURL(location, apiVersion string) string {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return fmt.Sprintf("https://%s-agentengine.googleapis.com/%s", location, apiVersion)
}

// Config contains the required parameters for a Client.
type Config struct {
	Project  string
	Location string

	// BaseURL overrides the per-location endpoint (tests, emulators).
	BaseURL string

	// APIVersion selects the remote API version segment when BaseURL is
	// derived. Default: DefaultAPIVersion.
	APIVersion string

	// Token is the bearer token attached to every request.
	Token string

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// Logger receives client diagnostics. Required.
	Logger *slog.Logger

	// Debug installs a logging interceptor on the transport. The hook is
	// configured once at construction and passed explicitly to every
	// call; nothing global is modified.
	Debug bool

	// Limiter overrides the default client-side rate limiter
	// (10 req/s sustained, burst 20).
	Limiter *rate.Limiter

	// UnaryTimeout bounds each non-streaming call. Zero means
	// defaultUnaryTimeout.
	UnaryTimeout time.Duration
}

func (cfg Config) validate() error {
	if cfg.Project == "" {
		return errors.New("project is required")
	}
	if cfg.Location == "" {
		return errors.New("location is required")
	}
	if cfg.Token == "" {
		return errors.New("token is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Client issues typed calls against the remote Agent Engine API.
type Client struct {
	project  string
	location string
	baseURL  string
	token    string
	httpc    *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
	unaryTO  time.Duration
}

// New creates a Client with the given configuration.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL(cfg.Location, cfg.APIVersion)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if u, err := url.Parse(baseURL); err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		// No client-wide timeout; it would sever long-lived streams.
		// Unary calls get a per-call deadline in do instead.
		httpc = &http.Client{Timeout: 0}
	}
	if cfg.Debug {
		base := httpc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		wrapped := *httpc
		wrapped.Transport = &loggingTransport{base: base, logger: cfg.Logger}
		httpc = &wrapped
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(10, 20)
	}

	unaryTO := cfg.UnaryTimeout
	if unaryTO == 0 {
		unaryTO = defaultUnaryTimeout
	}

	return &Client{
		project:  cfg.Project,
		location: cfg.Location,
		baseURL:  baseURL,
		token:    cfg.Token,
		httpc:    httpc,
		limiter:  limiter,
		logger:   cfg.Logger,
		unaryTO:  unaryTO,
	}, nil
}

// ResourceName resolves an agent ID against the client's project and
// location. Purely syntactic; see ResolveResourceName.
func (c *Client) ResourceName(agentID string) (string, error) {
	return ResolveResourceName(c.project, c.location, agentID)
}

// parent returns the resource path of the agent collection.
func (c *Client) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s/%s", c.project, c.location, agentCollection)
}

// newRequest builds an authenticated request for the given resource path.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes a unary call and decodes the JSON response into out
// (skipped when out is nil). Every call carries a deadline so a hung
// remote cannot stall the CLI. Transport failures map to
// ErrUnavailable; non-2xx statuses map through statusError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.unaryTO)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// CreateAgentParams are the inputs to CreateAgent.
type CreateAgentParams struct {
	DisplayName string
	// IdentityType is IdentityAgent or IdentityServiceAccount.
	IdentityType string
	// ServiceAccount is only used with IdentityServiceAccount.
	ServiceAccount string
}

// ListAgents lists all agent deployments in the project and location.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	var out struct {
		Agents []Agent `json:"reasoningEngines"`
	}
	if err := c.do(ctx, "listing agents", http.MethodGet, c.parent(), nil, &out); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

// GetAgent fetches one agent by short ID or full resource name.
func (c *Client) GetAgent(ctx context.Context, agentID string) (Agent, error) {
	name, err := c.ResourceName(agentID)
	if err != nil {
		return Agent{}, err
	}
	var agent Agent
	if err := c.do(ctx, "getting agent", http.MethodGet, name, nil, &agent); err != nil {
		return Agent{}, err
	}
	return agent, nil
}

// CreateAgent creates a new agent deployment without deploying code.
func (c *Client) CreateAgent(ctx context.Context, params CreateAgentParams) (Agent, error) {
	if params.IdentityType != IdentityAgent && params.IdentityType != IdentityServiceAccount {
		return Agent{}, fmt.Errorf("unsupported identity type %q", params.IdentityType)
	}
	spec := &AgentSpec{IdentityType: params.IdentityType}
	if params.IdentityType == IdentityServiceAccount && params.ServiceAccount != "" {
		spec.ServiceAccount = params.ServiceAccount
	}
	body := map[string]any{
		"displayName": params.DisplayName,
		"spec":        spec,
	}
	var agent Agent
	if err := c.do(ctx, "creating agent", http.MethodPost, c.parent(), body, &agent); err != nil {
		return Agent{}, err
	}
	return agent, nil
}

// DeleteAgent deletes an agent. With force, associated sessions,
// sandboxes, and memories are removed as well.
func (c *Client) DeleteAgent(ctx context.Context, agentID string, force bool) error {
	name, err := c.ResourceName(agentID)
	if err != nil {
		return err
	}
	path := name
	if force {
		path += "?force=true"
	}
	return c.do(ctx, "deleting agent", http.MethodDelete, path, nil, nil)
}

// ListSessions lists all sessions for an agent.
func (c *Client) ListSessions(ctx context.Context, agentID string) ([]Session, error) {
	name, err := c.ResourceName(agentID)
	if err != nil {
		return nil, err
	}
	var out struct {
		Sessions []Session `json:"sessions"`
	}
	if err := c.do(ctx, "listing sessions", http.MethodGet, name+"/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// ListSandboxes lists all sandboxes for an agent.
func (c *Client) ListSandboxes(ctx context.Context, agentID string) ([]Sandbox, error) {
	name, err := c.ResourceName(agentID)
	if err != nil {
		return nil, err
	}
	var out struct {
		Sandboxes []Sandbox `json:"sandboxes"`
	}
	if err := c.do(ctx, "listing sandboxes", http.MethodGet, name+"/sandboxes", nil, &out); err != nil {
		return nil, err
	}
	return out.Sandboxes, nil
}

// ListMemories lists all memories for an agent.
func (c *Client) ListMemories(ctx context.Context, agentID string) ([]Memory, error) {
	name, err := c.ResourceName(agentID)
	if err != nil {
		return nil, err
	}
	var out struct {
		Memories []Memory `json:"memories"`
	}
	if err := c.do(ctx, "listing memories", http.MethodGet, name+"/memories", nil, &out); err != nil {
		return nil, err
	}
	return out.Memories, nil
}

// CreateSession creates a new conversation session scoped to the given
// agent and user.
func (c *Client) CreateSession(ctx context.Context, agentName, userID string) (Session, error) {
	var sess Session
	body := map[string]string{"userId": userID}
	if err := c.do(ctx, "creating session", http.MethodPost, agentName+"/sessions", body, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// GetSession fetches one session by full resource name.
func (c *Client) GetSession(ctx context.Context, sessionName string) (Session, error) {
	var sess Session
	if err := c.do(ctx, "getting session", http.MethodGet, sessionName, nil, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// GenerateMemories persists a finished session into the agent's
// long-term memory store.
func (c *Client) GenerateMemories(ctx context.Context, agentName, sessionID string) error {
	body := map[string]string{"sessionId": sessionID}
	return c.do(ctx, "generating memories", http.MethodPost, agentName+"/memories:generate", body, nil)
}

// loggingTransport is the injectable debug interceptor. It logs request
// metadata and timing, never bodies, so secrets in payloads stay out of
// logs.
type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("http request failed",
			"method", req.Method,
			"url", req.URL.Redacted(),
			"duration", time.Since(start),
			"error", err)
		return nil, err
	}
	t.logger.Debug("http request",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"duration", time.Since(start))
	return resp, nil
}
