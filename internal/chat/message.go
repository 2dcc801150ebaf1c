package chat

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrorPrefix marks an assistant message that reports a failed request.
// Such messages stay in the transcript but are never replayed to the model.
const ErrorPrefix = "Error:"

// ID identifies a message. IDs are handed out in increasing order, so
// comparing two IDs tells which message was created first.
type ID uint64

// String returns the display form of the ID.
func (id ID) String() string {
	return fmt.Sprintf("msg-%d", uint64(id))
}

// Message is one entry in the visible transcript.
type Message struct {
	ID        ID        `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// IsError reports whether the message is an assistant failure report.
func (m Message) IsError() bool {
	return m.Role == RoleAssistant && strings.HasPrefix(m.Content, ErrorPrefix)
}

// Replayable reports whether the message belongs in a backend payload.
// Error reports and blank assistant replies are left out.
func (m Message) Replayable() bool {
	if m.Role != RoleAssistant {
		return true
	}
	return !m.IsError() && strings.TrimSpace(m.Content) != ""
}

// Turn returns the role/content pair sent to the backend.
func (m Message) Turn() Turn {
	return Turn{Role: m.Role, Content: m.Content}
}

// Turn is a single role/content pair in a backend chat payload.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ErrorContent formats a failure description as transcript content.
func ErrorContent(description string) string {
	return ErrorPrefix + " " + description
}

// IDSource hands out message IDs in generation order.
// The zero value starts at 1 and is safe for concurrent use.
type IDSource struct {
	last atomic.Uint64
}

// NewIDSource returns a source whose next ID is greater than after.
// Pass the highest ID of any restored history.
func NewIDSource(after ID) *IDSource {
	s := &IDSource{}
	s.last.Store(uint64(after))
	return s
}

// Next returns a fresh ID.
func (s *IDSource) Next() ID {
	return ID(s.last.Add(1))
}
