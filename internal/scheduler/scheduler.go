package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/sightline-lab/project-sightline/internal/processor"
)

const finalRunTimeout = 30 * time.Second

// Scheduler periodically runs the aggregate trigger so fleet metrics are
// published without an external caller. It is stateless: every tick is an
// independent bounded scan, fold and publish.
type Scheduler struct {
	interval time.Duration
	proc     *processor.Service
}

// New creates a scheduler driving the given processor.
func New(interval time.Duration, proc *processor.Service) *Scheduler {
	return &Scheduler{
		interval: interval,
		proc:     proc,
	}
}

// Start begins periodic snapshot publication and runs until the context is
// cancelled, publishing one final snapshot during shutdown.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting periodic snapshot publication", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), finalRunTimeout)
			defer cancel()

			slog.Info("[Scheduler] Publishing final snapshot before shutdown...")
			s.runOnce(shutdownCtx)
			return nil
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	result, err := s.proc.Process(ctx, processor.AggregateInput())
	if err != nil {
		slog.Error("[Scheduler] Periodic aggregation failed", "error", err)
		return
	}

	if result.PublishErr != nil {
		// The snapshot itself is still valid; only the sink write failed.
		slog.Error("[Scheduler] Snapshot publish failed", "error", result.PublishErr)
		return
	}

	slog.Info("[Scheduler] Snapshot published",
		"key", result.Receipt.Key,
		"total_sessions", result.Snapshot.TotalSessions)
}
