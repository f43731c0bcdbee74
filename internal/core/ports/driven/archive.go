package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

// DeliveryRecord is one archived successful delivery.
type DeliveryRecord struct {
	DocumentID  string
	Title       string
	SyncRunID   string
	DeliveredAt time.Time
}

// ArchiveSummary aggregates the archive for status reporting.
type ArchiveSummary struct {
	Deliveries    int
	Runs          int
	LastDelivered time.Time
}

// DeliveryArchive is an optional local journal of successful
// deliveries, used for status reporting. It is never consulted for
// de-duplication: SyncState stays authoritative. Archive failures are
// logged by callers and never fail a run.
type DeliveryArchive interface {
	// Record journals one confirmed delivery.
	Record(ctx context.Context, payload *domain.Payload) error

	// Recent returns the most recent deliveries, newest first.
	Recent(ctx context.Context, limit int) ([]DeliveryRecord, error)

	// Summary aggregates the archive.
	Summary(ctx context.Context) (*ArchiveSummary, error)

	// Close releases the underlying database.
	Close() error
}
