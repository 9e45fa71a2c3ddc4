// Package fs provides file-based document reading and writing.
package fs

import (
	"context"
	"os"
	"strings"

	"github.com/fwojciec/chatdoc"
)

// PageBreak separates pages in plain-text documents.
const PageBreak = "\f"

// Ensure TextReader implements chatdoc.DocumentReader at compile time.
var _ chatdoc.DocumentReader = (*TextReader)(nil)

// TextReader reads plain-text and Markdown files. Form feeds split pages.
// A leading YAML frontmatter block is stripped and its title kept.
type TextReader struct{}

// NewTextReader creates a new TextReader.
func NewTextReader() *TextReader {
	return &TextReader{}
}

// ReadDocument reads the file at path.
func (r *TextReader) ReadDocument(_ context.Context, path string) (*chatdoc.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, chatdoc.Errorf(chatdoc.EDOCUMENT, "read %q: %v", path, err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	title, body := splitFrontmatter(text)
	return chatdoc.NewDocument(path, title, strings.Split(body, PageBreak)), nil
}

// splitFrontmatter separates a "---" delimited frontmatter block from the
// body and returns its title field.
func splitFrontmatter(text string) (title, body string) {
	if !strings.HasPrefix(text, "---\n") {
		return "", text
	}
	end := strings.Index(text[4:], "\n---\n")
	if end < 0 {
		return "", text
	}
	front := text[4 : 4+end]
	body = strings.TrimLeft(text[4+end+5:], "\n")
	for _, line := range strings.Split(front, "\n") {
		if v, ok := strings.CutPrefix(line, "title:"); ok {
			title = strings.Trim(strings.TrimSpace(v), `"'`)
		}
	}
	return title, body
}
