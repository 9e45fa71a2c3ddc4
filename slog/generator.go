package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/chatdoc"
)

// Ensure LoggingGenerator implements chatdoc.Generator.
var _ chatdoc.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging. Prompt and answer text
// are not logged, only their sizes.
type LoggingGenerator struct {
	next   chatdoc.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next chatdoc.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs the call.
func (g *LoggingGenerator) Generate(ctx context.Context, prompt string) (answer string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		g.logger.Log(ctx, level, "generate",
			"prompt_chars", len([]rune(prompt)),
			"answer_chars", len([]rune(answer)),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, prompt)
}
