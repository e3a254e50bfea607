package port

import (
	"context"

	"github.com/bnema/promptcast/internal/domain/entity"
)

// ContextMenu is the selection context menu surface.
type ContextMenu interface {
	RemoveAll(ctx context.Context) error
	Create(ctx context.Context, entry entity.MenuEntry) error
}
