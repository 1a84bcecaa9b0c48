package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RetrieveInput is the input schema for the retrieve_context tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the user message to retrieve document context for"`
	Model string `json:"model" jsonschema:"the model identifier whose assigned documents are searched"`

	MaxChars int `json:"max_chars,omitempty" jsonschema:"character cap on the assembled context (defaults to the configured budget)"`
	MaxDocs  int `json:"max_docs,omitempty" jsonschema:"maximum documents included in the context (defaults to the configured budget)"`
}

// RetrieveOutput is the output schema for the retrieve_context tool.
type RetrieveOutput struct {
	Context   string         `json:"context"`
	Documents []string       `json:"documents"`
	Truncated bool           `json:"truncated"`
	Results   []ResultOutput `json:"results"`
}

// ResultOutput represents a single ranked document.
type ResultOutput struct {
	DocumentID    string `json:"document_id"`
	Name          string `json:"name"`
	Relevance     int    `json:"relevance"`
	MatchedChunks int    `json:"matched_chunks"`
	Fallback      bool   `json:"fallback,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single indexed document.
type DocumentOutput struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	ChunkCount     int      `json:"chunk_count"`
	AssignedModels []string `json:"assigned_models"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve_context",
		Description: "Retrieve relevant document context for a query, scoped to a model's assigned documents",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all documents in the local index",
	}, s.handleListDocuments)
}

// handleRetrieve handles the retrieve_context tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.Model)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	budget := s.ports.Retrieval.Budget()
	if input.MaxChars > 0 {
		budget.MaxTotalChars = input.MaxChars
	}
	if input.MaxDocs > 0 {
		budget.MaxDocsPerQuery = input.MaxDocs
	}
	assembled := s.ports.Retrieval.AssembleContext(results, budget)

	output := RetrieveOutput{
		Context:   assembled.Text,
		Documents: assembled.DocumentNames,
		Truncated: assembled.Truncated,
		Results:   make([]ResultOutput, len(results)),
	}
	for i := range results {
		output.Results[i] = ResultOutput{
			DocumentID:    results[i].DocumentID,
			Name:          results[i].Name,
			Relevance:     results[i].Relevance,
			MatchedChunks: results[i].MatchedChunks,
			Fallback:      results[i].Fallback,
		}
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{Documents: []DocumentOutput{}}, nil
	}

	summaries, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(summaries)),
		Count:     len(summaries),
	}
	for i, sum := range summaries {
		output.Documents[i] = DocumentOutput{
			ID:             sum.ID,
			Name:           sum.Name,
			Type:           sum.Type,
			ChunkCount:     sum.ChunkCount,
			AssignedModels: sum.AssignedModels,
		}
	}

	return nil, output, nil
}
