package mock

import (
	"context"

	"github.com/fwojciec/chatdoc"
)

var _ chatdoc.DirectoryService = (*DirectoryService)(nil)

// DirectoryService is a mock implementation of chatdoc.DirectoryService.
type DirectoryService struct {
	FindEmailFn func(ctx context.Context, code string) (string, error)
}

func (s *DirectoryService) FindEmail(ctx context.Context, code string) (string, error) {
	return s.FindEmailFn(ctx, code)
}
