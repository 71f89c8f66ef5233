package query

import (
	"context"
	"fmt"
	"time"

	"github.com/sightline-lab/project-sightline/internal/core/metrics"
	"github.com/sightline-lab/project-sightline/internal/core/session"
	"github.com/sightline-lab/project-sightline/internal/core/storage"
	"golang.org/x/sync/singleflight"
)

// DefaultScanLimit bounds the fleet-wide metrics scan when no limit is
// configured. On a large store the scan is a statistical sample of the
// population, not the full fleet.
const DefaultScanLimit = 100

// Service is the query engine: read-only operations against the record
// store, sharing the same aggregation fold the batch trigger uses. It is
// stateless and request-scoped; the store client is injected and owned by
// the hosting process.
type Service struct {
	store     storage.RecordStore
	scanLimit int
	nowFn     func() time.Time

	// scans collapses concurrent identical fleet scans into one store
	// read. The snapshot timestamp is stamped per caller, after the fold.
	scans singleflight.Group
}

// NewService creates a query engine over the given record store.
// A non-positive scanLimit falls back to DefaultScanLimit.
func NewService(store storage.RecordStore, scanLimit int) *Service {
	if store == nil {
		panic("query: record store must not be nil")
	}
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	return &Service{
		store:     store,
		scanLimit: scanLimit,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// SessionsForCustomer returns every session in the customer's partition,
// ordered by session timestamp ascending. An unknown customer yields an
// empty slice.
func (s *Service) SessionsForCustomer(ctx context.Context, customerID string) ([]session.Record, error) {
	records, err := s.store.SessionsForCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("query customer sessions: %w", err)
	}
	if records == nil {
		records = []session.Record{}
	}
	return records, nil
}

// CurrentMetrics scans a bounded batch of records and folds it into a
// snapshot. Store failures surface without retry; retries belong to the
// calling boundary so the query path's latency stays predictable.
func (s *Service) CurrentMetrics(ctx context.Context) (metrics.Snapshot, error) {
	// The scan is shared across deduped callers, so it must not inherit
	// any single caller's cancellation.
	scanCtx := context.WithoutCancel(ctx)
	v, err, _ := s.scans.Do("fleet-scan", func() (interface{}, error) {
		return s.store.ScanRecords(scanCtx, s.scanLimit)
	})
	if err != nil {
		return metrics.Snapshot{}, fmt.Errorf("scan records: %w", err)
	}

	records := v.([]session.Record)
	return metrics.Aggregate(records, s.nowFn()), nil
}
