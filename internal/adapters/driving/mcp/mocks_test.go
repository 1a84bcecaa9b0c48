package mcp

import (
	"context"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driving"
)

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

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	summaries []domain.DocumentSummary
	document  *domain.Document
	content   string
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _ driving.UploadRequest) (*domain.Document, error) {
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

func (m *mockDocumentService) Assign(_ context.Context, _ string, _ []string) error {
	return m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}
