package llm

import "context"

// ChatRequest is one system/user message pair sent to the completion API.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// JSONMode asks the API for a response that parses as a single JSON object.
	JSONMode bool
}

// ChatCompleter generates a single text completion for a prompt pair.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
