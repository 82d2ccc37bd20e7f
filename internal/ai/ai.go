package ai

import "context"

// Generator produces a free-text completion for a prompt. This is the only
// contract the recommendation engine has on the relevance oracle; any
// text-in/text-out backend satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
