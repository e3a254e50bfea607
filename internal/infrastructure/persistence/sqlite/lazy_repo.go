package sqlite

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/domain/repository"
)

// LazyAttemptRepository wraps an attempt repository with lazy database
// initialization.
type LazyAttemptRepository struct {
	provider *LazyDB
	repo     *AttemptRepo
	once     sync.Once
	initErr  error
}

var _ repository.AttemptRepository = (*LazyAttemptRepository)(nil)

// NewLazyAttemptRepository creates a lazy-loading attempt repository.
func NewLazyAttemptRepository(provider *LazyDB) *LazyAttemptRepository {
	return &LazyAttemptRepository{provider: provider}
}

func (r *LazyAttemptRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewAttemptRepository(db)
	})
	return r.initErr
}

func (r *LazyAttemptRepository) Record(ctx context.Context, rec *entity.AttemptRecord) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Record(ctx, rec)
}

func (r *LazyAttemptRepository) Recent(ctx context.Context, limit int) ([]*entity.AttemptRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.Recent(ctx, limit)
}

func (r *LazyAttemptRepository) ByRequest(ctx context.Context, requestID string) ([]*entity.AttemptRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.ByRequest(ctx, requestID)
}

func (r *LazyAttemptRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	if err := r.init(ctx); err != nil {
		return 0, err
	}
	return r.repo.DeleteOlderThan(ctx, before)
}

func (r *LazyAttemptRepository) KeepLatest(ctx context.Context, keep int) (int64, error) {
	if err := r.init(ctx); err != nil {
		return 0, err
	}
	return r.repo.KeepLatest(ctx, keep)
}
