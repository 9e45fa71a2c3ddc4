package fs

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/chatdoc"
)

var _ chatdoc.DocumentReader = (*Router)(nil)

// Router dispatches ReadDocument to a reader chosen by the source's file
// extension. Sources starting with http:// or https:// go to the URL reader.
type Router struct {
	readers map[string]chatdoc.DocumentReader
	url     chatdoc.DocumentReader
}

// NewRouter creates a new Router with no readers registered.
func NewRouter() *Router {
	return &Router{readers: make(map[string]chatdoc.DocumentReader)}
}

// Register adds a reader for a file extension such as ".pdf".
// An existing reader for the extension is replaced.
func (r *Router) Register(ext string, reader chatdoc.DocumentReader) {
	r.readers[strings.ToLower(ext)] = reader
}

// RegisterURL sets the reader used for http(s) sources.
func (r *Router) RegisterURL(reader chatdoc.DocumentReader) {
	r.url = reader
}

// Extensions returns the registered extensions in sorted order.
func (r *Router) Extensions() []string {
	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ReadDocument reads source with the matching reader.
// Returns EDOCUMENT if no reader handles the source.
func (r *Router) ReadDocument(ctx context.Context, source string) (*chatdoc.Document, error) {
	if source == "" {
		return nil, chatdoc.Errorf(chatdoc.EDOCUMENT, "no document configured")
	}
	if IsURL(source) {
		if r.url == nil {
			return nil, chatdoc.Errorf(chatdoc.EDOCUMENT, "remote documents are not supported")
		}
		return r.url.ReadDocument(ctx, source)
	}

	ext := strings.ToLower(filepath.Ext(source))
	reader, ok := r.readers[ext]
	if !ok {
		return nil, chatdoc.Errorf(chatdoc.EDOCUMENT, "unsupported document type %q", ext)
	}
	return reader.ReadDocument(ctx, source)
}

// IsURL reports whether source is an http or https URL.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
