package mqtt

import "fmt"

func TopicTriageEvent(prefix, kind string) string {
	return fmt.Sprintf("%s/triage/%s", prefix, kind)
}

func TopicTriageEvents(prefix string) string {
	return fmt.Sprintf("%s/triage/+", prefix)
}

// TopicServerStatus carries the retained online/offline flag of a server.
func TopicServerStatus(prefix, clientID string) string {
	return fmt.Sprintf("%s/server/%s/status", prefix, clientID)
}
