package engine

import (
	"encoding/json"
	"time"
)

// Identity types accepted by CreateAgent.
const (
	IdentityAgent          = "agent_identity"
	IdentityServiceAccount = "service_account"
)

// AgentSpec carries the identity configuration of an agent deployment.
type AgentSpec struct {
	IdentityType      string `json:"identityType,omitempty"`
	ServiceAccount    string `json:"serviceAccount,omitempty"`
	EffectiveIdentity string `json:"effectiveIdentity,omitempty"`
}

// Agent is a deployed agent resource, normalized from the wire format.
type Agent struct {
	// Name is the full resource name
	// (projects/{p}/locations/{l}/reasoningEngines/{id}).
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName,omitempty"`
	Description string     `json:"description,omitempty"`
	CreateTime  time.Time  `json:"createTime,omitzero"`
	UpdateTime  time.Time  `json:"updateTime,omitzero"`
	Spec        *AgentSpec `json:"spec,omitempty"`
}

// ID returns the agent's short resource ID.
func (a Agent) ID() string { return ShortID(a.Name) }

// EffectiveIdentity returns the agent's effective identity, or "" when
// the spec is absent.
func (a Agent) EffectiveIdentity() string {
	if a.Spec == nil {
		return ""
	}
	return a.Spec.EffectiveIdentity
}

// agentPayload is the wire shape of an agent. Older API versions send
// "resourceName" where newer ones send "name"; normalization happens
// here, in exactly one place, so call sites never see the fallback.
type agentPayload struct {
	Name         string     `json:"name"`
	ResourceName string     `json:"resourceName"`
	DisplayName  string     `json:"displayName"`
	Description  string     `json:"description"`
	CreateTime   *time.Time `json:"createTime"`
	UpdateTime   *time.Time `json:"updateTime"`
	Spec         *AgentSpec `json:"spec"`
}

func (p agentPayload) normalize() Agent {
	a := Agent{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Description: p.Description,
		Spec:        p.Spec,
	}
	if a.Name == "" {
		a.Name = p.ResourceName
	}
	if p.CreateTime != nil {
		a.CreateTime = *p.CreateTime
	}
	if p.UpdateTime != nil {
		a.UpdateTime = *p.UpdateTime
	}
	return a
}

// UnmarshalJSON decodes the wire format and normalizes field fallbacks.
func (a *Agent) UnmarshalJSON(data []byte) error {
	var p agentPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = p.normalize()
	return nil
}

// Session is a conversation context scoped to one agent and one user.
type Session struct {
	// Name is the full resource name
	// (.../reasoningEngines/{id}/sessions/{sid}).
	Name       string    `json:"name"`
	UserID     string    `json:"userId,omitempty"`
	CreateTime time.Time `json:"createTime,omitzero"`
	UpdateTime time.Time `json:"updateTime,omitzero"`
}

// ID returns the session's short resource ID.
func (s Session) ID() string { return ShortID(s.Name) }

// Sandbox is an execution sandbox owned by an agent.
type Sandbox struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName,omitempty"`
	State       string    `json:"state,omitempty"`
	CreateTime  time.Time `json:"createTime,omitzero"`
	ExpireTime  time.Time `json:"expireTime,omitzero"`
}

// ID returns the sandbox's short resource ID.
func (s Sandbox) ID() string { return ShortID(s.Name) }

// Memory is one entry in an agent's long-term memory store.
type Memory struct {
	Name       string    `json:"name"`
	Fact       string    `json:"fact,omitempty"`
	CreateTime time.Time `json:"createTime,omitzero"`
}

// ID returns the memory's short resource ID.
func (m Memory) ID() string { return ShortID(m.Name) }

// FragmentKind discriminates the streamed fragment union.
type FragmentKind int

const (
	// FragmentText is a text delta to append to the current response.
	FragmentText FragmentKind = iota

	// FragmentTool is a tool-invocation notice.
	FragmentTool
)

// Fragment is the atomic unit delivered by a streamed query: either a
// text delta or a tool-invocation notice. Fragments arrive in delivery
// order and must be rendered in that order.
type Fragment struct {
	Kind     FragmentKind
	Text     string          // set when Kind == FragmentText
	ToolName string          // set when Kind == FragmentTool
	ToolArgs json.RawMessage // optional tool arguments
}
