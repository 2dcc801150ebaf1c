// Package llm contains the completion providers behind the chat gateway.
package llm

import (
	"context"
	"errors"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyCompletion is returned when a provider answers with no choices.
var ErrEmptyCompletion = errors.New("model returned an empty response")

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces one assistant reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// CompleteOptions contains options for completion requests.
type CompleteOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// DefaultCompleteOptions returns default options.
func DefaultCompleteOptions() CompleteOptions {
	return CompleteOptions{
		Model:       "qwen3",
		Temperature: 0.7,
		MaxTokens:   2048,
	}
}
