package mqtt

import (
	"fmt"
	"strings"
)

// expected: {prefix}/triage/{kind}
func ParseEventKind(topic, prefix string) (string, error) {
	parts := strings.Split(topic, "/")
	prefixParts := strings.Split(prefix, "/")
	if len(parts) != len(prefixParts)+2 {
		return "", fmt.Errorf("invalid topic: %s", topic)
	}
	for i, p := range prefixParts {
		if parts[i] != p {
			return "", fmt.Errorf("topic prefix mismatch: %s", topic)
		}
	}
	if parts[len(prefixParts)] != "triage" {
		return "", fmt.Errorf("invalid topic pattern: %s", topic)
	}
	kind := parts[len(prefixParts)+1]
	if kind == "" {
		return "", fmt.Errorf("empty event kind: %s", topic)
	}
	return kind, nil
}
