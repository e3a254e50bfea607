package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
)

// ConfigSnapshot caches the configuration between changes. Concurrent
// misses share one load. Callers must treat the returned config as
// read-only; operations keep the snapshot they started with even if it is
// invalidated meanwhile.
type ConfigSnapshot struct {
	source port.ConfigSource
	group  singleflight.Group

	mu         sync.RWMutex
	cfg        *entity.Config
	generation uint64
}

// NewConfigSnapshot creates an empty snapshot store.
func NewConfigSnapshot(source port.ConfigSource) *ConfigSnapshot {
	return &ConfigSnapshot{source: source}
}

// Get returns the cached configuration, loading it on a miss.
func (s *ConfigSnapshot) Get(ctx context.Context) (*entity.Config, error) {
	s.mu.RLock()
	cfg, gen := s.cfg, s.generation
	s.mu.RUnlock()
	if cfg != nil {
		return cfg, nil
	}

	v, err, _ := s.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		loaded, err := s.source.Load(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		// A load that raced an invalidation must not repopulate the cache.
		if s.generation == gen {
			s.cfg = loaded
		}
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return v.(*entity.Config), nil
}

// Invalidate drops the cached configuration.
func (s *ConfigSnapshot) Invalidate() {
	s.mu.Lock()
	s.cfg = nil
	s.generation++
	s.mu.Unlock()
}
