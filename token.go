package chatdoc

import "context"

// TokenCounter counts tokens in text for the configured model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
