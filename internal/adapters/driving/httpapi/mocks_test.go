package httpapi

import (
	"context"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driving"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	summaries []domain.DocumentSummary
	document  *domain.Document
	content   string
	err       error

	uploaded *driving.UploadRequest
	assigned []string
	deleted  string
}

func (m *mockDocumentService) Upload(_ context.Context, req driving.UploadRequest) (*domain.Document, error) {
	m.uploaded = &req
	return m.document, m.err
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

	gotQuery  string
	gotModel  string
	gotBudget domain.ContextBudget
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query, modelID string) ([]domain.RetrievalResult, error) {
	m.gotQuery = query
	m.gotModel = modelID
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
	return m.settings, m.err
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return m.err
}
