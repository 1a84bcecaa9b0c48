package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driven"
)

// Ensure the fake satisfies the port.
var _ driven.ConfigStore = (*fakeConfigStore)(nil)

// fakeConfigStore is an in-memory ConfigStore for service tests.
type fakeConfigStore struct {
	values map[string]any
	setErr error
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{values: make(map[string]any)}
}

func (f *fakeConfigStore) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeConfigStore) GetInt(key string) int {
	switch v := f.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (f *fakeConfigStore) Set(key string, value any) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

func TestSettingsGet_Defaults(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Retrieval.Budget, settings.Retrieval.Budget)
	assert.Equal(t, defaults.Chunking, settings.Chunking)
}

func TestSettingsGet_StoredValues(t *testing.T) {
	store := newFakeConfigStore()
	store.values["retrieval.max_total_chars"] = 4000
	store.values["retrieval.max_docs_per_query"] = 2
	store.values["chunking.chunk_size"] = 500

	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, 4000, settings.Retrieval.Budget.MaxTotalChars)
	assert.Equal(t, 2, settings.Retrieval.Budget.MaxDocsPerQuery)
	assert.Equal(t, 500, settings.Chunking.ChunkSize)

	// Unset keys keep their defaults.
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Retrieval.Budget.MaxChunksPerDoc, settings.Retrieval.Budget.MaxChunksPerDoc)
	assert.Equal(t, defaults.Chunking.Overlap, settings.Chunking.Overlap)
}

func TestSettingsGet_RejectsInvalidStoredValues(t *testing.T) {
	t.Run("non-positive budget", func(t *testing.T) {
		store := newFakeConfigStore()
		store.values["retrieval.max_total_chars"] = 0

		_, err := NewSettingsService(store).Get()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("overlap at chunk size", func(t *testing.T) {
		store := newFakeConfigStore()
		store.values["chunking.chunk_size"] = 100
		store.values["chunking.overlap"] = 100

		_, err := NewSettingsService(store).Get()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSettingsSave(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewSettingsService(store)

	settings := &domain.AppSettings{
		Retrieval: domain.RetrievalSettings{
			Budget: domain.ContextBudget{MaxTotalChars: 6000, MaxDocsPerQuery: 3, MaxChunksPerDoc: 2},
		},
		Chunking: domain.ChunkingSettings{ChunkSize: 800, Overlap: 100},
	}
	require.NoError(t, svc.Save(settings))

	assert.Equal(t, 6000, store.values["retrieval.max_total_chars"])
	assert.Equal(t, 3, store.values["retrieval.max_docs_per_query"])
	assert.Equal(t, 2, store.values["retrieval.max_chunks_per_doc"])
	assert.Equal(t, 800, store.values["chunking.chunk_size"])
	assert.Equal(t, 100, store.values["chunking.overlap"])

	// Round trip through Get.
	loaded, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, settings.Retrieval.Budget, loaded.Retrieval.Budget)
	assert.Equal(t, settings.Chunking, loaded.Chunking)
}

func TestSettingsSave_Invalid(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	assert.ErrorIs(t, svc.Save(nil), domain.ErrInvalidInput)

	invalid := domain.DefaultAppSettings()
	invalid.Retrieval.Budget.MaxDocsPerQuery = 0
	assert.ErrorIs(t, svc.Save(&invalid), domain.ErrInvalidInput)

	invalid = domain.DefaultAppSettings()
	invalid.Chunking.Overlap = invalid.Chunking.ChunkSize
	assert.ErrorIs(t, svc.Save(&invalid), domain.ErrInvalidInput)
}

func TestSettingsSave_StoreError(t *testing.T) {
	store := newFakeConfigStore()
	store.setErr = assert.AnError
	svc := NewSettingsService(store)

	defaults := domain.DefaultAppSettings()
	err := svc.Save(&defaults)
	assert.ErrorIs(t, err, assert.AnError)
}
