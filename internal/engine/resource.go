package engine

import (
	"fmt"
	"strings"
)

// agentCollection is the resource collection name for agent deployments
// on the remote service.
const agentCollection = "reasoningEngines"

// ResolveResourceName resolves an agent ID or full resource name to the
// canonical resource path.
//
// Resolution is purely syntactic and performs no network round trip: an
// input already containing "/" is assumed to be a full resource name and
// returned unchanged; otherwise the path is synthesized from project,
// location, and the short ID. Whether the resource actually exists is
// discovered when the resolved name is used.
func ResolveResourceName(project, location, agentID string) (string, error) {
	if strings.TrimSpace(agentID) == "" {
		return "", fmt.Errorf("%w: must not be empty", ErrInvalidAgentID)
	}
	for _, c := range agentID {
		if c < 32 || c == ' ' || c == '\t' {
			return "", fmt.Errorf("%w: %q contains whitespace or control characters", ErrInvalidAgentID, agentID)
		}
	}
	if strings.Contains(agentID, "/") {
		return agentID, nil
	}
	return fmt.Sprintf("projects/%s/locations/%s/%s/%s", project, location, agentCollection, agentID), nil
}

// ShortID returns the final path segment of a resource name, or the
// input unchanged when it contains no slash.
func ShortID(resourceName string) string {
	if i := strings.LastIndexByte(resourceName, '/'); i >= 0 {
		return resourceName[i+1:]
	}
	return resourceName
}
