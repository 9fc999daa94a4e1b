package llm

import "context"

// Client abstracts completion providers for thought analysis.
// Analyze sends one prompt and returns the raw reply text of the first
// completion choice. Implementations perform exactly one outbound request
// per call: no retries, no caching, no deduplication.
type Client interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}
