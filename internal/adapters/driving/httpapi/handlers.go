package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driving"
	"github.com/lectern-dev/lectern/internal/logger"
)

// maxUploadBytes bounds a single uploaded file.
const maxUploadBytes = 50 << 20 // 50 MiB

// documentResponse is the JSON shape of a document.
type documentResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	TextPreview    string    `json:"text_preview,omitempty"`
	FullTextLength int       `json:"full_text_length"`
	ChunkCount     int       `json:"chunk_count"`
	AssignedModels []string  `json:"assigned_models"`
	UploadedAt     time.Time `json:"uploaded_at"`
}

// retrieveRequest is the body of POST /api/retrieve.
type retrieveRequest struct {
	Query string `json:"query"`
	Model string `json:"model"`

	// Budget optionally overrides the configured context budget.
	// Fields left at zero keep their configured values.
	Budget *budgetPayload `json:"budget,omitempty"`
}

type budgetPayload struct {
	MaxTotalChars   int `json:"max_total_chars"`
	MaxDocsPerQuery int `json:"max_docs_per_query"`
	MaxChunksPerDoc int `json:"max_chunks_per_doc"`
}

// retrieveResponse carries ranked results plus the assembled context.
type retrieveResponse struct {
	Results   []resultPayload `json:"results"`
	Context   string          `json:"context"`
	Documents []string        `json:"documents"`
	Truncated bool            `json:"truncated"`
}

type resultPayload struct {
	DocumentID    string         `json:"document_id"`
	Name          string         `json:"name"`
	Relevance     int            `json:"relevance"`
	MatchedChunks int            `json:"matched_chunks"`
	TotalChunks   int            `json:"total_chunks"`
	Fallback      bool           `json:"fallback,omitempty"`
	Chunks        []chunkPayload `json:"chunks,omitempty"`
}

type chunkPayload struct {
	Index     int    `json:"index"`
	Relevance int    `json:"relevance"`
	Text      string `json:"text"`
}

type settingsPayload struct {
	Retrieval struct {
		MaxTotalChars   int `json:"max_total_chars"`
		MaxDocsPerQuery int `json:"max_docs_per_query"`
		MaxChunksPerDoc int `json:"max_chunks_per_doc"`
	} `json:"retrieval"`
	Chunking struct {
		ChunkSize int `json:"chunk_size"`
		Overlap   int `json:"overlap"`
	} `json:"chunking"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleListDocuments serves GET /api/documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.ports.Document.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	docs := make([]documentResponse, 0, len(summaries))
	for _, sum := range summaries {
		docs = append(docs, documentResponse{
			ID:             sum.ID,
			Name:           sum.Name,
			Type:           sum.Type,
			FullTextLength: sum.FullTextLength,
			ChunkCount:     sum.ChunkCount,
			AssignedModels: sum.AssignedModels,
			UploadedAt:     sum.UploadedAt,
		})
	}

	writeJSON(w, http.StatusOK, docs)
}

// handleUploadDocument serves POST /api/documents. The file arrives as
// multipart form data under "file"; "models" optionally carries a
// comma-separated assignment list.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file field"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reading upload: " + err.Error()})
		return
	}

	var models []string
	if raw := r.FormValue("models"); raw != "" {
		models = strings.Split(raw, ",")
	}

	doc, err := s.ports.Document.Upload(r.Context(), driving.UploadRequest{
		Name:         header.Filename,
		Content:      content,
		AssignModels: models,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("uploaded document %s (%s)", doc.ID, doc.Name)
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

// handleGetDocument serves GET /api/documents/{id}.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ports.Document.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// handleDeleteDocument serves DELETE /api/documents/{id}.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.ports.Document.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetContent serves GET /api/documents/{id}/content.
func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	content, err := s.ports.Document.GetContent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

// handleAssignModels serves POST /api/documents/{id}/models.
func (s *Server) handleAssignModels(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := s.ports.Document.Assign(r.Context(), r.PathValue("id"), req.Models); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRetrieve serves POST /api/retrieve: rank documents for the
// query and return the assembled context alongside the results.
func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	results, err := s.ports.Retrieval.Retrieve(r.Context(), req.Query, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}

	// Partial overrides are merged onto the configured budget so a
	// request can tighten one dimension without restating the rest.
	budget := s.ports.Retrieval.Budget()
	if req.Budget != nil {
		if req.Budget.MaxTotalChars > 0 {
			budget.MaxTotalChars = req.Budget.MaxTotalChars
		}
		if req.Budget.MaxDocsPerQuery > 0 {
			budget.MaxDocsPerQuery = req.Budget.MaxDocsPerQuery
		}
		if req.Budget.MaxChunksPerDoc > 0 {
			budget.MaxChunksPerDoc = req.Budget.MaxChunksPerDoc
		}
	}
	assembled := s.ports.Retrieval.AssembleContext(results, budget)

	resp := retrieveResponse{
		Results:   make([]resultPayload, 0, len(results)),
		Context:   assembled.Text,
		Documents: assembled.DocumentNames,
		Truncated: assembled.Truncated,
	}
	for _, res := range results {
		p := resultPayload{
			DocumentID:    res.DocumentID,
			Name:          res.Name,
			Relevance:     res.Relevance,
			MatchedChunks: res.MatchedChunks,
			TotalChunks:   res.TotalChunks,
			Fallback:      res.Fallback,
		}
		for _, c := range res.Chunks {
			p.Chunks = append(p.Chunks, chunkPayload{
				Index:     c.Index,
				Relevance: c.Relevance,
				Text:      c.Text,
			})
		}
		resp.Results = append(resp.Results, p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleGetSettings serves GET /api/settings.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if s.ports.Settings == nil {
		http.NotFound(w, r)
		return
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}

// handleSaveSettings serves PUT /api/settings.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if s.ports.Settings == nil {
		http.NotFound(w, r)
		return
	}

	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	settings := &domain.AppSettings{
		Retrieval: domain.RetrievalSettings{
			Budget: domain.ContextBudget{
				MaxTotalChars:   payload.Retrieval.MaxTotalChars,
				MaxDocsPerQuery: payload.Retrieval.MaxDocsPerQuery,
				MaxChunksPerDoc: payload.Retrieval.MaxChunksPerDoc,
			},
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize: payload.Chunking.ChunkSize,
			Overlap:   payload.Chunking.Overlap,
		},
	}

	if err := s.ports.Settings.Save(settings); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toDocumentResponse converts a domain document to its JSON shape.
func toDocumentResponse(doc *domain.Document) documentResponse {
	return documentResponse{
		ID:             doc.ID,
		Name:           doc.Name,
		Type:           doc.Type,
		TextPreview:    doc.TextPreview,
		FullTextLength: doc.FullTextLength,
		ChunkCount:     len(doc.Chunks()),
		AssignedModels: doc.AssignedModels,
		UploadedAt:     doc.UploadedAt,
	}
}

// toSettingsPayload converts domain settings to their JSON shape.
func toSettingsPayload(settings *domain.AppSettings) settingsPayload {
	var payload settingsPayload
	payload.Retrieval.MaxTotalChars = settings.Retrieval.Budget.MaxTotalChars
	payload.Retrieval.MaxDocsPerQuery = settings.Retrieval.Budget.MaxDocsPerQuery
	payload.Retrieval.MaxChunksPerDoc = settings.Retrieval.Budget.MaxChunksPerDoc
	payload.Chunking.ChunkSize = settings.Chunking.ChunkSize
	payload.Chunking.Overlap = settings.Chunking.Overlap
	return payload
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnsupportedType):
		status = http.StatusUnsupportedMediaType
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
