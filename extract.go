package chatdoc

import "context"

// ExtractResult holds the main content found in an HTML document.
type ExtractResult struct {
	Title       string
	ContentHTML string
}

// Extractor strips boilerplate (navigation, footers, sidebars) from HTML.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter turns clean HTML into Markdown text.
type Converter interface {
	Convert(html string) (string, error)
}

// Fetcher retrieves the raw body of a remote document.
type Fetcher interface {
	// Fetch returns the body served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (string, error)
}
