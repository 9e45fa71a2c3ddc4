package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/chatdoc"
)

// Ensure LoggingDocumentReader implements chatdoc.DocumentReader.
var _ chatdoc.DocumentReader = (*LoggingDocumentReader)(nil)

// LoggingDocumentReader wraps a DocumentReader with logging.
type LoggingDocumentReader struct {
	next   chatdoc.DocumentReader
	logger *slog.Logger
}

// NewLoggingDocumentReader creates a new LoggingDocumentReader.
func NewLoggingDocumentReader(next chatdoc.DocumentReader, logger *slog.Logger) *LoggingDocumentReader {
	return &LoggingDocumentReader{next: next, logger: logger}
}

// ReadDocument delegates to the wrapped reader and logs the result.
func (r *LoggingDocumentReader) ReadDocument(ctx context.Context, source string) (doc *chatdoc.Document, err error) {
	defer func(begin time.Time) {
		var pages, chars int
		var hash string
		if doc != nil {
			pages = len(doc.Pages)
			chars = len([]rune(doc.Text()))
			hash = doc.ContentHash
		}
		r.logger.Info("read document",
			"source", source,
			"pages", pages,
			"chars", chars,
			"hash", hash,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadDocument(ctx, source)
}
