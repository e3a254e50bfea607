package repository

import (
	"context"
	"time"

	"github.com/bnema/promptcast/internal/domain/entity"
)

// AttemptRepository defines operations for injection attempt history.
type AttemptRepository interface {
	// Record stores one attempt and sets its ID.
	Record(ctx context.Context, rec *entity.AttemptRecord) error

	// Recent retrieves the latest attempts, newest first.
	Recent(ctx context.Context, limit int) ([]*entity.AttemptRecord, error)

	// ByRequest retrieves every attempt that belongs to a request id,
	// including its retry.
	ByRequest(ctx context.Context, requestID string) ([]*entity.AttemptRecord, error)

	// DeleteOlderThan removes attempts that started before the given time.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
