package engine

import (
	"errors"
	"testing"
)

func TestResolveResourceName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		agentID string
		want    string
		wantErr error
	}{
		{
			name:    "short ID",
			agentID: "abc123",
			want:    "projects/proj/locations/us-central1/reasoningEngines/abc123",
		},
		{
			name:    "full resource name passes through",
			agentID: "projects/other/locations/eu/reasoningEngines/xyz",
			want:    "projects/other/locations/eu/reasoningEngines/xyz",
		},
		{
			name:    "empty",
			agentID: "",
			wantErr: ErrInvalidAgentID,
		},
		{
			name:    "whitespace only",
			agentID: "   ",
			wantErr: ErrInvalidAgentID,
		},
		{
			name:    "embedded space",
			agentID: "abc 123",
			wantErr: ErrInvalidAgentID,
		},
		{
			name:    "tab",
			agentID: "abc\t123",
			wantErr: ErrInvalidAgentID,
		},
		{
			name:    "control character",
			agentID: "abc\x01",
			wantErr: ErrInvalidAgentID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveResourceName("proj", "us-central1", tt.agentID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveResourceName(%q) error = %v, want %v", tt.agentID, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveResourceName(%q) error = %v", tt.agentID, err)
			}
			if got != tt.want {
				t.Errorf("ResolveResourceName(%q) = %q, want %q", tt.agentID, got, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"full resource name", "projects/p/locations/l/reasoningEngines/abc123", "abc123"},
		{"session name", "projects/p/locations/l/reasoningEngines/a/sessions/s1", "s1"},
		{"bare ID", "abc123", "abc123"},
		{"empty", "", ""},
		{"trailing slash", "projects/p/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ShortID(tt.input); got != tt.want {
				t.Errorf("ShortID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
