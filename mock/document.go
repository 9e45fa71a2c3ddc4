package mock

import (
	"context"

	"github.com/fwojciec/chatdoc"
)

var _ chatdoc.DocumentReader = (*DocumentReader)(nil)

// DocumentReader is a mock implementation of chatdoc.DocumentReader.
type DocumentReader struct {
	ReadDocumentFn func(ctx context.Context, source string) (*chatdoc.Document, error)
}

func (r *DocumentReader) ReadDocument(ctx context.Context, source string) (*chatdoc.Document, error) {
	return r.ReadDocumentFn(ctx, source)
}
