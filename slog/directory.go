package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/chatdoc"
)

// Ensure LoggingDirectoryService implements chatdoc.DirectoryService.
var _ chatdoc.DirectoryService = (*LoggingDirectoryService)(nil)

// LoggingDirectoryService wraps a DirectoryService with debug logging.
// Codes are masked and emails are never logged.
type LoggingDirectoryService struct {
	next   chatdoc.DirectoryService
	logger *slog.Logger
}

// NewLoggingDirectoryService creates a new LoggingDirectoryService.
func NewLoggingDirectoryService(next chatdoc.DirectoryService, logger *slog.Logger) *LoggingDirectoryService {
	return &LoggingDirectoryService{next: next, logger: logger}
}

// FindEmail delegates to the wrapped service and logs the lookup.
func (s *LoggingDirectoryService) FindEmail(ctx context.Context, code string) (email string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("directory lookup",
			"curp", chatdoc.MaskCURP(chatdoc.NormalizeCURP(code)),
			"found", err == nil,
			"duration", time.Since(begin),
			"code", chatdoc.ErrorCode(err),
		)
	}(time.Now())
	return s.next.FindEmail(ctx, code)
}
