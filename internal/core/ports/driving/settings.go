package driving

import (
	"github.com/lectern-dev/lectern/internal/core/domain"
)

// SettingsService manages persisted application settings.
type SettingsService interface {
	// Get retrieves current application settings, falling back to
	// defaults for unset keys.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error
}
