package interfaces

import "context"

// Generator turns user text into a reply. Implementations never fail:
// every error path yields a placeholder string.
type Generator interface {
	Generate(ctx context.Context, text string) string
}

// Messenger delivers an outbound text through the messaging provider.
type Messenger interface {
	SendMessage(ctx context.Context, from, to, body string) error
}
