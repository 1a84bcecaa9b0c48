package cli

import (
	"context"
	"time"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driving"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	summaries []domain.DocumentSummary
	document  *domain.Document
	content   string
	err       error

	assigned []string
	deleted  string
}

func (m *mockDocumentService) Upload(_ context.Context, req driving.UploadRequest) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{
		ID:             "doc-new",
		Name:           req.Name,
		Type:           "txt",
		AssignedModels: req.AssignModels,
		UploadedAt:     time.Now(),
		Body:           domain.IndexedBody{Chunks: []domain.Chunk{{Index: 0, Text: string(req.Content)}}},
	}, nil
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentSummary, error) {
	return m.summaries, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) Assign(_ context.Context, _ string, models []string) error {
	m.assigned = models
	return m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	m.deleted = id
	return m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results   []domain.RetrievalResult
	assembled domain.AssembledContext
	budget    domain.ContextBudget
	err       error

	gotBudget domain.ContextBudget
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _, _ string) ([]domain.RetrievalResult, error) {
	return m.results, m.err
}

func (m *mockRetrievalService) AssembleContext(_ []domain.RetrievalResult, budget domain.ContextBudget) domain.AssembledContext {
	m.gotBudget = budget
	return m.assembled
}

func (m *mockRetrievalService) Budget() domain.ContextBudget {
	if !m.budget.Valid() {
		return domain.DefaultContextBudget()
	}
	return m.budget
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	saved    *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings == nil {
		defaults := domain.DefaultAppSettings()
		return &defaults, m.err
	}
	return m.settings, m.err
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return m.err
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous ones.
func setupTestServices() func() {
	oldDocument := documentService
	oldRetrieval := retrievalService
	oldSettings := settingsService

	documentService = &mockDocumentService{
		summaries: []domain.DocumentSummary{
			{
				ID:             "doc-1",
				Name:           "notes.md",
				Type:           "md",
				ChunkCount:     3,
				FullTextLength: 2400,
				AssignedModels: []string{"llama3"},
				UploadedAt:     time.Now(),
			},
		},
		document: &domain.Document{
			ID:             "doc-1",
			Name:           "notes.md",
			Type:           "md",
			FullTextLength: 2400,
			TextPreview:    "preview text",
			AssignedModels: []string{"llama3"},
			UploadedAt:     time.Now(),
			Body:           domain.IndexedBody{Chunks: []domain.Chunk{{Index: 0, Text: "chunk"}}},
		},
		content: "extracted text",
	}
	retrievalService = &mockRetrievalService{
		results: []domain.RetrievalResult{
			{
				DocumentID:    "doc-1",
				Name:          "notes.md",
				Relevance:     31,
				MatchedChunks: 2,
				TotalChunks:   3,
			},
		},
		assembled: domain.AssembledContext{
			Text:          "Document: notes.md\n[Section 1]\nchunk\n",
			DocumentNames: []string{"notes.md"},
		},
	}
	settingsService = &mockSettingsService{}

	return func() {
		documentService = oldDocument
		retrievalService = oldRetrieval
		settingsService = oldSettings
	}
}
