package ebaymedia

import "context"

// NoopEventSink discards all events. It is the default sink when none
// is configured.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-op event sink
func NewNoopEventSink() *NoopEventSink {
	return &NoopEventSink{}
}

func (s *NoopEventSink) ImageUploaded(ctx context.Context, file *MediaFile) error {
	return nil
}

func (s *NoopEventSink) ImageDeleted(ctx context.Context, name string) error {
	return nil
}

func (s *NoopEventSink) PermissionsRepaired(ctx context.Context, report *RepairReport) error {
	return nil
}
