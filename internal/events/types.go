// Package events is the observer channel between the chat queue and whatever
// renders it.
package events

// Type identifies the type of event
type Type string

const (
	UserMessage      Type = "message.user"
	AssistantMessage Type = "message.assistant"
	RequestStarted   Type = "request.started"
	RequestCompleted Type = "request.completed"
	RequestFailed    Type = "request.failed"
	QueueChanged     Type = "queue.changed"
	ErrorDismissed   Type = "error.dismissed"

	wildcard Type = "*"
)

// Event represents an event in the system. Payload carries the publisher's
// state snapshot taken right after the change.
type Event struct {
	Type    Type
	Payload interface{}
}
