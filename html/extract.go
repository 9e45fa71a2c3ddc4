// Package html implements chatdoc.DocumentReader for HTML documents, read
// from disk or fetched over HTTP. Boilerplate is removed with go-trafilatura
// (falling back to go-readability), the remaining HTML is converted to
// Markdown, and goquery provides a plain-text fallback.
package html

import (
	"bytes"
	"strings"

	"github.com/fwojciec/chatdoc"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	nethtml "golang.org/x/net/html"
)

var (
	_ chatdoc.Extractor = (*TrafilaturaExtractor)(nil)
	_ chatdoc.Extractor = (*ReadabilityExtractor)(nil)
)

// TrafilaturaExtractor extracts main content with go-trafilatura.
type TrafilaturaExtractor struct{}

// Extract returns the title and main content HTML of rawHTML.
func (TrafilaturaExtractor) Extract(rawHTML string) (*chatdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, chatdoc.Errorf(chatdoc.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{EnableFallback: true})
	if err != nil {
		return nil, err
	}

	res := &chatdoc.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := nethtml.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		res.ContentHTML = buf.String()
	}
	return res, nil
}

// ReadabilityExtractor extracts main content with go-readability.
type ReadabilityExtractor struct{}

// Extract returns the title and main content HTML of rawHTML.
func (ReadabilityExtractor) Extract(rawHTML string) (*chatdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, chatdoc.Errorf(chatdoc.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}
	return &chatdoc.ExtractResult{Title: article.Title, ContentHTML: article.Content}, nil
}
