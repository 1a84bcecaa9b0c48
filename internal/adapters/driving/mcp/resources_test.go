package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-dev/lectern/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "lectern://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractDocumentID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns empty list", func(t *testing.T) {
		ports := &Ports{Retrieval: &mockRetrievalService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("lectern://documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns documents successfully", func(t *testing.T) {
		mockDoc := &mockDocumentService{
			summaries: []domain.DocumentSummary{
				{
					ID:             "doc-1",
					Name:           "notes.md",
					Type:           "md",
					AssignedModels: []string{"llama3"},
				},
			},
		}

		ports := &Ports{Retrieval: &mockRetrievalService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("lectern://documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "doc-1")
		assert.Contains(t, result.Contents[0].Text, "notes.md")
		assert.Contains(t, result.Contents[0].Text, "llama3")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		mockDoc := &mockDocumentService{err: errors.New("database error")}

		ports := &Ports{Retrieval: &mockRetrievalService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("lectern://documents")
		_, err = server.handleDocumentsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns not found", func(t *testing.T) {
		ports := &Ports{Retrieval: &mockRetrievalService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("lectern://documents/doc-1")
		_, err = server.handleDocumentContentResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		mockDoc := &mockDocumentService{}
		ports := &Ports{Retrieval: &mockRetrievalService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("lectern://invalid/uri")
		_, err = server.handleDocumentContentResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns document content", func(t *testing.T) {
		mockDoc := &mockDocumentService{content: "extracted document text"}
		ports := &Ports{Retrieval: &mockRetrievalService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("lectern://documents/doc-1")
		result, err := server.handleDocumentContentResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "extracted document text", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("propagates content errors", func(t *testing.T) {
		mockDoc := &mockDocumentService{err: errors.New("not found")}
		ports := &Ports{Retrieval: &mockRetrievalService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("lectern://documents/doc-1")
		_, err = server.handleDocumentContentResource(ctx, req)

		require.Error(t, err)
	})
}
