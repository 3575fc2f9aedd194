package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// CompletionAdapter is the port for LLM chat completions.
type CompletionAdapter interface {
	// Complete returns only the assistant text.
	Complete(ctx context.Context, messages []Message) (string, error)

	// Suggest returns short follow-up suggestions for the given assistant
	// reply. Implementations fall back to a static set when the model
	// output cannot be parsed.
	Suggest(ctx context.Context, reply string) ([]string, error)
}
