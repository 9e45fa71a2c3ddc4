package chatdoc

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Document is the text of the source document the assistant answers about.
type Document struct {
	// Source is the file path or URL the document was read from.
	Source string `json:"source"`

	// Title comes from document metadata when available.
	Title string `json:"title,omitempty"`

	// Pages holds the extracted text of each page in order. Pages without
	// extractable text hold a placeholder so the page count is preserved.
	Pages []string `json:"pages"`

	// ContentHash is a hash of Text(), used to identify the loaded content.
	ContentHash string `json:"contentHash"`
}

// NewDocument creates a Document from page-ordered text, replacing blank
// pages with PagePlaceholder and computing ContentHash.
func NewDocument(source, title string, pages []string) *Document {
	doc := &Document{
		Source: source,
		Title:  title,
		Pages:  make([]string, len(pages)),
	}
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			text = PagePlaceholder(i + 1)
		}
		doc.Pages[i] = text
	}
	doc.ContentHash = hashContent(doc.Text())
	return doc
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// Text returns the pages joined by newlines.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	return strings.Join(d.Pages, "\n")
}

// PagePlaceholder returns the text used for a page with no extractable text.
// Page numbers are 1-based.
func PagePlaceholder(page int) string {
	return fmt.Sprintf("<Página %d sin texto>", page)
}

// DocumentReader reads a document into page-ordered text.
type DocumentReader interface {
	// ReadDocument reads the document at source.
	// Returns EDOCUMENT if the source cannot be read or parsed.
	ReadDocument(ctx context.Context, source string) (*Document, error)
}
