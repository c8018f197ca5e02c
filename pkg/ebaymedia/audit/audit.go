// Package audit provides EventSink implementations: a structured-log
// sink and a Postgres sink that records media events for later review.
package audit

import (
	"context"
	"log/slog"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

// LogSink writes media events to a slog.Logger
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log sink. A nil logger falls back to the
// default slog logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) ImageUploaded(ctx context.Context, file *ebaymedia.MediaFile) error {
	s.logger.Info("image uploaded", "name", file.Name, "size", file.Size, "content_type", file.ContentType)
	return nil
}

func (s *LogSink) ImageDeleted(ctx context.Context, name string) error {
	s.logger.Info("image deleted", "name", name)
	return nil
}

func (s *LogSink) PermissionsRepaired(ctx context.Context, report *ebaymedia.RepairReport) error {
	s.logger.Info("permissions repaired",
		"dirs_fixed", report.DirsFixed,
		"files_fixed", report.FilesFixed,
		"failures", report.Failures)
	return nil
}
