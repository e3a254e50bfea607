package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

const defaultMenuSettle = 100 * time.Millisecond

// RebuildMenusUseCase recreates the selection context menu from the
// current configuration. A rebuild requested while one is running is
// dropped.
type RebuildMenusUseCase struct {
	menu    port.ContextMenu
	configs *ConfigSnapshot
	clock   port.Clock
	settle  time.Duration
	busy    atomic.Bool
}

// NewRebuildMenusUseCase creates a new RebuildMenusUseCase.
func NewRebuildMenusUseCase(menu port.ContextMenu, configs *ConfigSnapshot, clock port.Clock, settle time.Duration) *RebuildMenusUseCase {
	if settle <= 0 {
		settle = defaultMenuSettle
	}
	return &RebuildMenusUseCase{menu: menu, configs: configs, clock: clock, settle: settle}
}

// Execute clears every entry, waits for the settle delay, then creates the
// entries again. It returns false when the call was dropped.
func (uc *RebuildMenusUseCase) Execute(ctx context.Context) (bool, error) {
	log := logging.FromContext(ctx)

	if !uc.busy.CompareAndSwap(false, true) {
		log.Debug().Msg("menu rebuild already running, request dropped")
		return false, nil
	}
	defer uc.busy.Store(false)

	cfg, err := uc.configs.Get(ctx)
	if err != nil {
		return true, err
	}

	if err := uc.menu.RemoveAll(ctx); err != nil {
		return true, fmt.Errorf("clear menu: %w", err)
	}

	select {
	case <-ctx.Done():
		return true, ctx.Err()
	case <-uc.clock.After(uc.settle):
	}

	entries := entity.BuildMenuEntries(cfg)
	var errs []error
	for _, entry := range entries {
		if err := uc.menu.Create(ctx, entry); err != nil {
			log.Warn().Err(err).Str("entry", entry.ID).Msg("failed to create menu entry")
			errs = append(errs, err)
		}
	}

	log.Debug().Int("entries", len(entries)).Int("failed", len(errs)).Msg("context menu rebuilt")
	return true, errors.Join(errs...)
}
