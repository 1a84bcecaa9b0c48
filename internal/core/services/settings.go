package services

import (
	"fmt"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driven"
	"github.com/lectern-dev/lectern/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBudgetMaxChars  = "retrieval.max_total_chars"
	keyBudgetMaxDocs   = "retrieval.max_docs_per_query"
	keyBudgetMaxChunks = "retrieval.max_chunks_per_doc"
	keyChunkingSize    = "chunking.chunk_size"
	keyChunkingOverlap = "chunking.overlap"
)

// SettingsService manages application settings on top of the config
// store. Settings are read into an explicit struct and passed to the
// components that need them; nothing reads ambient global state.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, falling back to defaults
// for unset keys.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Retrieval: domain.RetrievalSettings{
			Budget: domain.ContextBudget{
				MaxTotalChars:   s.getInt(keyBudgetMaxChars, defaults.Retrieval.Budget.MaxTotalChars),
				MaxDocsPerQuery: s.getInt(keyBudgetMaxDocs, defaults.Retrieval.Budget.MaxDocsPerQuery),
				MaxChunksPerDoc: s.getInt(keyBudgetMaxChunks, defaults.Retrieval.Budget.MaxChunksPerDoc),
			},
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize: s.getInt(keyChunkingSize, defaults.Chunking.ChunkSize),
			Overlap:   s.getInt(keyChunkingOverlap, defaults.Chunking.Overlap),
		},
	}

	if !settings.Retrieval.Budget.Valid() {
		return nil, fmt.Errorf("%w: context budget values must be positive", domain.ErrInvalidInput)
	}
	if !settings.Chunking.Valid() {
		return nil, fmt.Errorf("%w: overlap must be non-negative and below chunk size", domain.ErrInvalidInput)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if !settings.Retrieval.Budget.Valid() {
		return fmt.Errorf("%w: context budget values must be positive", domain.ErrInvalidInput)
	}
	if !settings.Chunking.Valid() {
		return fmt.Errorf("%w: overlap must be non-negative and below chunk size", domain.ErrInvalidInput)
	}

	pairs := map[string]any{
		keyBudgetMaxChars:  settings.Retrieval.Budget.MaxTotalChars,
		keyBudgetMaxDocs:   settings.Retrieval.Budget.MaxDocsPerQuery,
		keyBudgetMaxChunks: settings.Retrieval.Budget.MaxChunksPerDoc,
		keyChunkingSize:    settings.Chunking.ChunkSize,
		keyChunkingOverlap: settings.Chunking.Overlap,
	}
	for key, value := range pairs {
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("saving setting %s: %w", key, err)
		}
	}
	return nil
}

// getInt reads an int key with a default for unset values.
func (s *SettingsService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetInt(key)
}
