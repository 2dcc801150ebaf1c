package llm

import "context"

// PlaceholderReply is returned when no model provider is configured.
const PlaceholderReply = "This is a placeholder response from the backend. Integrate your AI provider here."

// PlaceholderClient answers every conversation with PlaceholderReply.
type PlaceholderClient struct{}

// Complete returns the placeholder reply.
func (PlaceholderClient) Complete(ctx context.Context, _ []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return PlaceholderReply, nil
}
