// Package pdf implements chatdoc.DocumentReader for PDF files.
package pdf

import (
	"context"

	"github.com/fwojciec/chatdoc"
	"github.com/ledongthuc/pdf"
)

// Ensure Reader implements chatdoc.DocumentReader at compile time.
var _ chatdoc.DocumentReader = (*Reader)(nil)

// Reader extracts plain text from each page of a PDF file.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadDocument extracts page text in order. Pages with no extractable text
// become placeholders.
func (r *Reader) ReadDocument(ctx context.Context, path string) (doc *chatdoc.Document, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, chatdoc.Errorf(chatdoc.EDOCUMENT, "read PDF %q: %v", path, rec)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, chatdoc.Errorf(chatdoc.EDOCUMENT, "open PDF %q: %v", path, err)
	}
	defer f.Close()

	n := reader.NumPage()
	pages := make([]string, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages[i-1] = pageText(reader.Page(i))
	}
	return chatdoc.NewDocument(path, "", pages), nil
}

// pageText returns the page's plain text, or "" if it has none or cannot be
// decoded; the caller substitutes a placeholder.
func pageText(p pdf.Page) string {
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
