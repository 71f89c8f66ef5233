package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cerrors "github.com/sightline-lab/project-sightline/internal/core/errors"
	"github.com/sightline-lab/project-sightline/internal/core/metrics"
	"github.com/sightline-lab/project-sightline/internal/objectstore"
)

// Receipt confirms where a snapshot was durably stored.
type Receipt struct {
	Bucket      string    `json:"bucket"`
	Key         string    `json:"key"`
	PublishedAt time.Time `json:"published_at"`
}

// Publisher is the external sink that durably stores a computed metrics
// snapshot. Publishing is fire-and-forget from the aggregation trigger's
// point of view: a failure is reported to the caller but never invalidates
// the already-computed snapshot.
type Publisher interface {
	Publish(ctx context.Context, snap metrics.Snapshot) (*Receipt, error)
}

// ObjectStorePublisher writes snapshots as JSON objects under a key derived
// from the publication timestamp: metrics/YYYYMMDD_HHMMSS_metrics.json.
type ObjectStorePublisher struct {
	store  objectstore.Store
	bucket string
	nowFn  func() time.Time
}

// NewObjectStorePublisher creates a publisher writing into the given bucket.
func NewObjectStorePublisher(store objectstore.Store, bucket string) *ObjectStorePublisher {
	if store == nil {
		panic("publish: object store must not be nil")
	}
	return &ObjectStorePublisher{
		store:  store,
		bucket: bucket,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (p *ObjectStorePublisher) Publish(ctx context.Context, snap metrics.Snapshot) (*Receipt, error) {
	now := p.nowFn()
	key := fmt.Sprintf("metrics/%s_metrics.json", now.Format("20060102_150405"))

	body, err := json.Marshal(snap)
	if err != nil {
		return nil, &cerrors.PublishError{Key: key, Err: err}
	}

	if err := p.store.Put(ctx, p.bucket, key, body); err != nil {
		return nil, &cerrors.PublishError{Key: key, Err: err}
	}

	slog.Info("[Publish] Snapshot published",
		"bucket", p.bucket,
		"key", key,
		"total_sessions", snap.TotalSessions)

	return &Receipt{Bucket: p.bucket, Key: key, PublishedAt: now}, nil
}
