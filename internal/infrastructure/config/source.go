package config

import (
	"context"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
)

// Source serves the menu configuration of a Manager to the application.
type Source struct {
	manager *Manager
}

var _ port.ConfigSource = (*Source)(nil)

// NewSource wraps a loaded manager.
func NewSource(m *Manager) *Source {
	return &Source{manager: m}
}

// Load returns the current menus in domain form.
func (s *Source) Load(_ context.Context) (*entity.Config, error) {
	return s.manager.Get().Entity(), nil
}
