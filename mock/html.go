package mock

import (
	"context"

	"github.com/fwojciec/chatdoc"
)

var (
	_ chatdoc.Extractor = (*Extractor)(nil)
	_ chatdoc.Converter = (*Converter)(nil)
	_ chatdoc.Fetcher   = (*Fetcher)(nil)
)

// Extractor is a mock implementation of chatdoc.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*chatdoc.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*chatdoc.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of chatdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// Fetcher is a mock implementation of chatdoc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}
