package chatdoc

import "context"

// Generator produces a model response for a prompt.
type Generator interface {
	// Generate sends prompt to the language model and returns its answer.
	// Returns EUNAVAILABLE if the model service fails.
	Generate(ctx context.Context, prompt string) (string, error)
}
