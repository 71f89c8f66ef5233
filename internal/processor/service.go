package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	cerrors "github.com/sightline-lab/project-sightline/internal/core/errors"
	"github.com/sightline-lab/project-sightline/internal/core/metrics"
	"github.com/sightline-lab/project-sightline/internal/objectstore"
	"github.com/sightline-lab/project-sightline/internal/publish"
	"github.com/sightline-lab/project-sightline/internal/query"
)

const (
	defaultDispatchBufferSize = 16
	jobTimeout                = 30 * time.Second
)

// ErrDispatchFull is returned when the trigger queue is at capacity.
var ErrDispatchFull = errors.New("trigger queue full")

// Result is the outcome of one processed trigger.
//
// For the aggregate action, Snapshot is always set once computed; a publish
// failure lands in PublishErr without invalidating the snapshot.
type Result struct {
	Message    string
	Snapshot   *metrics.Snapshot
	Receipt    *publish.Receipt
	PublishErr error
}

// Service executes batch triggers: storage-event notifications and direct
// aggregation commands. It is stateless per invocation; the dispatch queue
// only decouples the HTTP trigger from execution.
type Service struct {
	objects   objectstore.Store
	publisher publish.Publisher
	queries   *query.Service
	jobs      chan Input
}

// NewService creates a processor over the given collaborators.
// A non-positive dispatchBufferSize falls back to the default.
func NewService(objects objectstore.Store, publisher publish.Publisher, queries *query.Service, dispatchBufferSize int) *Service {
	if objects == nil {
		panic("processor: object store must not be nil")
	}
	if publisher == nil {
		panic("processor: publisher must not be nil")
	}
	if queries == nil {
		panic("processor: query service must not be nil")
	}
	if dispatchBufferSize <= 0 {
		dispatchBufferSize = defaultDispatchBufferSize
	}
	return &Service{
		objects:   objects,
		publisher: publisher,
		queries:   queries,
		jobs:      make(chan Input, dispatchBufferSize),
	}
}

// Process executes one trigger input synchronously.
func (s *Service) Process(ctx context.Context, in Input) (*Result, error) {
	switch {
	case in.StorageEvent != nil:
		return s.processStorageEvent(ctx, in.StorageEvent)
	case in.DirectAction != nil:
		return s.processDirectAction(ctx, in.DirectAction)
	}
	return nil, cerrors.MissingField("action")
}

// processStorageEvent reads the named object and reports its record count
// (line count minus one header line). It never writes to the record store;
// object ingestion belongs to an external collaborator.
func (s *Service) processStorageEvent(ctx context.Context, evt *StorageEvent) (*Result, error) {
	data, err := s.objects.Get(ctx, evt.Bucket, evt.Object)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", evt.Bucket, evt.Object, err)
	}

	recordCount := len(strings.Split(string(data), "\n")) - 1

	slog.Info("[Processor] Processed storage object",
		"bucket", evt.Bucket,
		"object", evt.Object,
		"record_count", recordCount)

	return &Result{
		Message: fmt.Sprintf("Processed %d records from %s", recordCount, evt.Object),
	}, nil
}

// processDirectAction runs the aggregate command: a bounded fleet scan
// folded into a snapshot, then handed to the publisher. The snapshot stays
// valid and returnable even when publishing fails.
func (s *Service) processDirectAction(ctx context.Context, act *DirectAction) (*Result, error) {
	if act.Action != ActionAggregate {
		return nil, cerrors.WrongType("action", fmt.Sprintf("unknown action %q", act.Action))
	}

	snap, err := s.queries.CurrentMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	result := &Result{
		Message:  "Aggregation complete",
		Snapshot: &snap,
	}

	receipt, err := s.publisher.Publish(ctx, snap)
	if err != nil {
		slog.Error("[Processor] Snapshot publish failed", "error", err)
		result.PublishErr = err
		return result, nil
	}

	result.Receipt = receipt
	return result, nil
}

// Dispatch enqueues a trigger without blocking.
// Returns ErrDispatchFull when the queue is at capacity.
func (s *Service) Dispatch(in Input) error {
	select {
	case s.jobs <- in:
		return nil
	default:
		return ErrDispatchFull
	}
}

// Run consumes dispatched triggers until the context is cancelled.
// Each job gets its own bounded timeout so a slow store cannot wedge the
// queue.
func (s *Service) Run(ctx context.Context) {
	slog.Info("[Processor] Trigger worker started", "queue_capacity", cap(s.jobs))

	for {
		select {
		case <-ctx.Done():
			slog.Info("[Processor] Trigger worker stopping (context cancelled)")
			return
		case in := <-s.jobs:
			jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			result, err := s.Process(jobCtx, in)
			cancel()

			switch {
			case err != nil:
				slog.Error("[Processor] Trigger failed", "error", err)
			case result.PublishErr != nil:
				slog.Error("[Processor] Trigger completed but publish failed",
					"message", result.Message,
					"publish_error", result.PublishErr)
			default:
				slog.Info("[Processor] Trigger completed", "message", result.Message)
			}
		}
	}
}
