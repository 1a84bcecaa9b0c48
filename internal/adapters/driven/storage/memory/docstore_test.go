package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-dev/lectern/internal/core/domain"
)

func testDocument(id string, models []string, chunkCount int) *domain.Document {
	chunks := make([]domain.Chunk, 0, chunkCount)
	for i := 0; i < chunkCount; i++ {
		chunks = append(chunks, domain.Chunk{
			Index: i,
			Text:  fmt.Sprintf("chunk %d content", i),
		})
	}

	var body domain.Body = domain.IndexedBody{Chunks: chunks}
	if chunkCount == 0 {
		body = domain.UnindexedBody{FullText: "raw text for " + id}
	}

	return &domain.Document{
		ID:             id,
		Name:           id + ".txt",
		Type:           "txt",
		AssignedModels: models,
		Body:           body,
	}
}

func TestSaveAndGetDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := testDocument("doc-1", []string{"m1"}, 3)
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, []string{"m1"}, got.AssignedModels)
	assert.Len(t, got.Chunks(), 3)
}

func TestSaveDocument_AlreadyExists(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", nil, 1)))
	err := store.SaveDocument(ctx, testDocument("doc-1", nil, 1))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestGetDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", nil, 2)))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-raw", nil, 0)))

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)

	chunks, err = store.GetChunks(ctx, "doc-raw")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	_, err = store.GetChunks(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDocuments(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	summaries, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", []string{"m1"}, 2)))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-2", nil, 0)))

	summaries, err = store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := make(map[string]domain.DocumentSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.Equal(t, 2, byID["doc-1"].ChunkCount)
	assert.Equal(t, []string{"m1"}, byID["doc-1"].AssignedModels)
	assert.Equal(t, 0, byID["doc-2"].ChunkCount)
}

func TestListAssignedTo(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", []string{"m1", "m2"}, 1)))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-2", []string{"m2"}, 1)))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-3", nil, 1)))

	docs, err := store.ListAssignedTo(ctx, "m2")
	require.NoError(t, err)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []string{"doc-1", "doc-2"}, ids)

	docs, err = store.ListAssignedTo(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUpdateAssignedModels(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", []string{"m1"}, 1)))

	require.NoError(t, store.UpdateAssignedModels(ctx, "doc-1", []string{"z", "a", "z", ""}))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z"}, got.AssignedModels)

	err = store.UpdateAssignedModels(ctx, "missing", []string{"m1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", []string{"m1"}, 1)))
	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deletion also removes the document from assignment listings.
	assigned, err := store.ListAssignedTo(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, assigned)

	assert.NoError(t, store.DeleteDocument(ctx, "doc-1"))
	assert.NoError(t, store.DeleteDocument(ctx, "never-existed"))
}

func TestStoredStateIsIsolatedFromCallers(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	original := testDocument("doc-1", []string{"m1"}, 2)
	require.NoError(t, store.SaveDocument(ctx, original))

	// Mutating the saved input must not reach stored state.
	original.AssignedModels[0] = "hijacked"

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, got.AssignedModels)

	// Mutating a returned copy must not either.
	got.AssignedModels[0] = "hijacked"
	got.Body.(domain.IndexedBody).Chunks[0].Text = "tampered"

	again, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, again.AssignedModels)
	assert.Equal(t, "chunk 0 content", again.Chunks()[0].Text)
}

func TestConcurrentAccess(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			id := fmt.Sprintf("doc-%d", n)
			assert.NoError(t, store.SaveDocument(ctx, testDocument(id, []string{"m1"}, 1)))
			_, err := store.ListAssignedTo(ctx, "m1")
			assert.NoError(t, err)
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	summaries, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 10)
}
