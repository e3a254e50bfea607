package port

import (
	"context"

	"github.com/bnema/promptcast/internal/domain/entity"
)

// ConfigSource loads the current menu configuration.
type ConfigSource interface {
	Load(ctx context.Context) (*entity.Config, error)
}
