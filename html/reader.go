package html

import (
	"context"
	"os"
	"strings"

	"github.com/fwojciec/chatdoc"
)

var _ chatdoc.DocumentReader = (*Reader)(nil)

// Reader reads an HTML document into a single page of Markdown text.
type Reader struct {
	// Fetcher retrieves http(s) sources. Local paths are read from disk.
	Fetcher chatdoc.Fetcher

	// Extractors are tried in order until one yields content.
	Extractors []chatdoc.Extractor

	// Converter turns extracted HTML into Markdown.
	Converter chatdoc.Converter
}

// NewReader creates a Reader using trafilatura, then readability, and the
// Markdown converter. fetcher may be nil when only local files are read.
func NewReader(fetcher chatdoc.Fetcher) *Reader {
	return &Reader{
		Fetcher:    fetcher,
		Extractors: []chatdoc.Extractor{TrafilaturaExtractor{}, ReadabilityExtractor{}},
		Converter:  NewMarkdownConverter(),
	}
}

// ReadDocument loads source and extracts its main text. When no extractor
// produces content the visible body text is used instead.
func (r *Reader) ReadDocument(ctx context.Context, source string) (*chatdoc.Document, error) {
	raw, err := r.load(ctx, source)
	if err != nil {
		return nil, err
	}

	var title string
	for _, ext := range r.Extractors {
		res, err := ext.Extract(raw)
		if err != nil {
			continue
		}
		if title == "" {
			title = res.Title
		}
		if strings.TrimSpace(res.ContentHTML) == "" {
			continue
		}
		md, err := r.Converter.Convert(res.ContentHTML)
		if err != nil || strings.TrimSpace(md) == "" {
			continue
		}
		return chatdoc.NewDocument(source, title, []string{strings.TrimSpace(md)}), nil
	}

	bodyTitle, text, err := PlainText(raw)
	if err != nil {
		return nil, chatdoc.Errorf(chatdoc.EDOCUMENT, "parse HTML %q: %v", source, err)
	}
	if title == "" {
		title = bodyTitle
	}
	return chatdoc.NewDocument(source, title, []string{text}), nil
}

func (r *Reader) load(ctx context.Context, source string) (string, error) {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if r.Fetcher == nil {
			return "", chatdoc.Errorf(chatdoc.EDOCUMENT, "remote documents are not supported")
		}
		body, err := r.Fetcher.Fetch(ctx, source)
		if err != nil {
			return "", chatdoc.Errorf(chatdoc.EDOCUMENT, "fetch %q: %v", source, err)
		}
		return body, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return "", chatdoc.Errorf(chatdoc.EDOCUMENT, "read %q: %v", source, err)
	}
	return string(data), nil
}
