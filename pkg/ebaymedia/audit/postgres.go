package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

// Event types recorded in the media_events table.
const (
	EventImageUploaded       = "image_uploaded"
	EventImageDeleted        = "image_deleted"
	EventPermissionsRepaired = "permissions_repaired"
)

// PostgresSink records media events in a media_events table:
//
//	CREATE TABLE media_events (
//	    id          UUID PRIMARY KEY,
//	    event_type  TEXT NOT NULL,
//	    file_name   TEXT,
//	    size_bytes  BIGINT,
//	    detail      TEXT,
//	    occurred_at TIMESTAMPTZ NOT NULL
//	);
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink creates a Postgres-backed event sink
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

// NewPostgresSinkFromURL connects a pool and verifies it with a ping
func NewPostgresSinkFromURL(ctx context.Context, databaseURL string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return &PostgresSink{pool: pool}, nil
}

// Close releases the underlying pool
func (s *PostgresSink) Close() {
	s.pool.Close()
}

func (s *PostgresSink) insert(ctx context.Context, eventType, fileName string, sizeBytes int64, detail string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO media_events (id, event_type, file_name, size_bytes, detail, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), eventType, fileName, sizeBytes, detail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", eventType, err)
	}
	return nil
}

func (s *PostgresSink) ImageUploaded(ctx context.Context, file *ebaymedia.MediaFile) error {
	return s.insert(ctx, EventImageUploaded, file.Name, file.Size, file.ContentType)
}

func (s *PostgresSink) ImageDeleted(ctx context.Context, name string) error {
	return s.insert(ctx, EventImageDeleted, name, 0, "")
}

func (s *PostgresSink) PermissionsRepaired(ctx context.Context, report *ebaymedia.RepairReport) error {
	detail := fmt.Sprintf("dirs_fixed=%d files_fixed=%d failures=%d",
		report.DirsFixed, report.FilesFixed, report.Failures)
	return s.insert(ctx, EventPermissionsRepaired, "", 0, detail)
}
