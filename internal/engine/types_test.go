package engine

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAgentUnmarshalNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		payload  string
		wantName string
	}{
		{
			name:     "name field",
			payload:  `{"name":"projects/p/locations/l/reasoningEngines/a1","displayName":"one"}`,
			wantName: "projects/p/locations/l/reasoningEngines/a1",
		},
		{
			name:     "resourceName fallback",
			payload:  `{"resourceName":"projects/p/locations/l/reasoningEngines/a2","displayName":"two"}`,
			wantName: "projects/p/locations/l/reasoningEngines/a2",
		},
		{
			name:     "name wins over resourceName",
			payload:  `{"name":"projects/p/locations/l/reasoningEngines/a3","resourceName":"projects/p/locations/l/reasoningEngines/old"}`,
			wantName: "projects/p/locations/l/reasoningEngines/a3",
		},
		{
			name:     "both absent",
			payload:  `{"displayName":"ghost"}`,
			wantName: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var a Agent
			if err := json.Unmarshal([]byte(tt.payload), &a); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if a.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", a.Name, tt.wantName)
			}
		})
	}
}

func TestAgentUnmarshalTimestamps(t *testing.T) {
	t.Parallel()

	payload := `{
		"name": "projects/p/locations/l/reasoningEngines/a1",
		"createTime": "2026-01-05T10:00:00Z",
		"spec": {"identityType": "agent_identity", "effectiveIdentity": "agent-a1@system"}
	}`

	var a Agent
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	if !a.CreateTime.Equal(want) {
		t.Errorf("CreateTime = %v, want %v", a.CreateTime, want)
	}
	if !a.UpdateTime.IsZero() {
		t.Errorf("UpdateTime = %v, want zero", a.UpdateTime)
	}
	if got := a.EffectiveIdentity(); got != "agent-a1@system" {
		t.Errorf("EffectiveIdentity() = %q", got)
	}
}

func TestAgentAccessors(t *testing.T) {
	t.Parallel()

	a := Agent{Name: "projects/p/locations/l/reasoningEngines/abc123"}
	if got := a.ID(); got != "abc123" {
		t.Errorf("ID() = %q, want %q", got, "abc123")
	}
	if got := a.EffectiveIdentity(); got != "" {
		t.Errorf("EffectiveIdentity() without spec = %q, want empty", got)
	}
}
