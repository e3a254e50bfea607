package bootstrap

import (
	"context"
	"time"

	"github.com/bnema/promptcast/internal/infrastructure/config"
	"github.com/bnema/promptcast/internal/logging"
)

const historyMaintenanceInterval = time.Hour

// historyPruner is the part of the attempt store maintenance needs.
type historyPruner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	KeepLatest(ctx context.Context, keep int) (int64, error)
}

// pruneHistory applies the retention window and the row cap once. Zero
// disables either limit.
func pruneHistory(ctx context.Context, store historyPruner, cfg config.HistoryConfig, now time.Time) error {
	log := logging.FromContext(ctx)

	if cfg.RetentionDays > 0 {
		cutoff := now.AddDate(0, 0, -cfg.RetentionDays)
		n, err := store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Debug().Int64("deleted", n).Time("before", cutoff).Msg("pruned expired attempts")
		}
	}
	if cfg.MaxEntries > 0 {
		n, err := store.KeepLatest(ctx, cfg.MaxEntries)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Debug().Int64("deleted", n).Int("keep", cfg.MaxEntries).Msg("trimmed attempt history")
		}
	}
	return nil
}

// maintainHistory prunes at startup and then every interval until ctx ends.
// The history settings are re-read from current on every pass.
func maintainHistory(ctx context.Context, store historyPruner, current func() config.HistoryConfig, now func() time.Time, interval time.Duration) {
	log := logging.FromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := pruneHistory(ctx, store, current(), now()); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("history maintenance failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
