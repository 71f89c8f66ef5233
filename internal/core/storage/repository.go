package storage

import (
	"context"
	"errors"

	"github.com/sightline-lab/project-sightline/internal/core/session"
)

// ErrDuplicate is returned when a record with the same
// (customer_id, session_timestamp) key already exists. Records are
// write-once: there is no update path.
var ErrDuplicate = errors.New("session record already exists")

// RecordStore is the key-value persistence layer holding session records,
// addressed by (customer_id, session_timestamp).
//
// The aggregation and query core only ever reads through this interface;
// SaveRecord exists for the upstream ingestion collaborator. Transport or
// availability failures are wrapped with ErrStoreUnavailable from
// internal/core/errors.
type RecordStore interface {
	// SaveRecord persists a record once. Returns ErrDuplicate if the
	// (customer_id, session_timestamp) key is already present.
	SaveRecord(ctx context.Context, rec *session.Record) error

	// SessionsForCustomer returns every record in the customer's partition,
	// ordered by session_timestamp ascending. An unknown customer yields an
	// empty slice, not an error.
	SessionsForCustomer(ctx context.Context, customerID string) ([]session.Record, error)

	// ScanRecords returns at most limit records from the store, with no
	// ordering guarantee. On a large store this is a bounded sample of the
	// population; callers bound latency through the limit.
	ScanRecords(ctx context.Context, limit int) ([]session.Record, error)
}
