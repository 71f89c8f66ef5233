package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sightline-lab/project-sightline/internal/core/session"
	"github.com/sightline-lab/project-sightline/internal/core/storage/memory"
	"github.com/sightline-lab/project-sightline/internal/objectstore"
	"github.com/sightline-lab/project-sightline/internal/processor"
	"github.com/sightline-lab/project-sightline/internal/publish"
	"github.com/sightline-lab/project-sightline/internal/query"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestScheduler_PublishesFinalSnapshotOnShutdown(t *testing.T) {
	records := memory.NewStore()
	require.NoError(t, records.SaveRecord(context.Background(), &session.Record{
		CustomerID:       "CUST0001",
		SessionTimestamp: 1700000000,
		Converted:        true,
		CartValue:        decimal.RequireFromString("25.00"),
	}))

	objects := objectstore.NewMemoryStore()
	proc := processor.NewService(
		objects,
		publish.NewObjectStorePublisher(objects, "sightline-metrics"),
		query.NewService(records, 100),
		4,
	)

	sched := New(time.Hour, proc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sched.Start(ctx)
	}()

	// Cancel before the first tick: shutdown still publishes one snapshot.
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	// One object published under the metrics/ prefix.
	found := false
	for _, key := range publishedKeys(t, objects) {
		if strings.HasPrefix(key, "metrics/") && strings.HasSuffix(key, "_metrics.json") {
			found = true
		}
	}
	require.True(t, found)
}

// publishedKeys probes the memory store for the deterministic key the
// publisher derives from the current wall clock, within a small window.
func publishedKeys(t *testing.T, objects *objectstore.MemoryStore) []string {
	t.Helper()

	var keys []string
	now := time.Now().UTC()
	for delta := -3; delta <= 0; delta++ {
		key := "metrics/" + now.Add(time.Duration(delta)*time.Second).Format("20060102_150405") + "_metrics.json"
		if _, err := objects.Get(context.Background(), "sightline-metrics", key); err == nil {
			keys = append(keys, key)
		}
	}
	return keys
}
