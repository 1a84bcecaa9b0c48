package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lectern-dev/lectern/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is the SQLite-backed document index. WAL journalling plus the
// driver's busy timeout serialize concurrent writers, so assignment
// updates landing close together cannot lose each other's writes.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lectern/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lectern", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveDocument creates a document record together with its body.
// The document row and all chunk rows land in one transaction.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	modelsJSON, err := json.Marshal(domain.NormalizeModels(doc.AssignedModels))
	if err != nil {
		return fmt.Errorf("marshalling assigned models: %w", err)
	}

	fullText := ""
	var chunks []domain.Chunk
	switch body := doc.Body.(type) {
	case domain.IndexedBody:
		chunks = body.Chunks
	case domain.UnindexedBody:
		fullText = body.FullText
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, name, path, type, text_preview, full_text, full_text_length, assigned_models, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, doc.ID, doc.Name, doc.Path, doc.Type, doc.TextPreview, fullText,
		doc.FullTextLength, string(modelsJSON), doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAlreadyExists
	}

	if len(chunks) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chunks (document_id, idx, text, start_offset, end_offset)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing chunk statement: %w", err)
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			if _, err := stmt.ExecContext(ctx, doc.ID, chunk.Index, chunk.Text,
				chunk.Start, chunk.End); err != nil {
				return fmt.Errorf("saving chunk %d: %w", chunk.Index, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a full document, body included.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, path, type, text_preview, full_text, full_text_length, assigned_models, uploaded_at
		FROM documents WHERE id = ?
	`, id)

	doc, fullText, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	chunks, err := s.GetChunks(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Body = buildBody(chunks, fullText)

	return doc, nil
}

// GetChunks retrieves the ordered chunk list for a document.
func (s *Store) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, text, start_offset, end_offset
		FROM chunks WHERE document_id = ?
		ORDER BY idx
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.Index, &chunk.Text, &chunk.Start, &chunk.End); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// ListDocuments returns lightweight summaries without loading bodies.
// The summary list is derived from the document rows; it is never the
// source of truth.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.type, d.full_text_length, d.assigned_models, d.uploaded_at,
		       (SELECT COUNT(*) FROM chunks c WHERE c.document_id = d.id)
		FROM documents d
		ORDER BY d.uploaded_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var summaries []domain.DocumentSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var summary domain.DocumentSummary
		var modelsJSON string
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Type,
			&summary.FullTextLength, &modelsJSON, &summary.UploadedAt,
			&summary.ChunkCount); err != nil {
			return nil, fmt.Errorf("scanning document summary: %w", err)
		}
		if err := json.Unmarshal([]byte(modelsJSON), &summary.AssignedModels); err != nil {
			return nil, fmt.Errorf("unmarshalling assigned models: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return summaries, nil
}

// ListAssignedTo returns the full documents visible to a model.
func (s *Store) ListAssignedTo(ctx context.Context, modelID string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, path, type, text_preview, full_text, full_text_length, assigned_models, uploaded_at
		FROM documents
		WHERE EXISTS (
			SELECT 1 FROM json_each(documents.assigned_models)
			WHERE json_each.value = ?
		)
		ORDER BY uploaded_at
	`, modelID)
	if err != nil {
		return nil, fmt.Errorf("querying assigned documents: %w", err)
	}
	defer rows.Close()

	type pending struct {
		doc      *domain.Document
		fullText string
	}
	var loaded []pending
	for rows.Next() {
		doc, fullText, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, pending{doc: doc, fullText: fullText})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assigned documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(loaded))
	for _, p := range loaded {
		chunks, err := s.GetChunks(ctx, p.doc.ID)
		if err != nil {
			return nil, err
		}
		p.doc.Body = buildBody(chunks, p.fullText)
		docs = append(docs, *p.doc)
	}

	return docs, nil
}

// UpdateAssignedModels replaces a document's assignment list wholesale.
func (s *Store) UpdateAssignedModels(ctx context.Context, id string, models []string) error {
	modelsJSON, err := json.Marshal(domain.NormalizeModels(models))
	if err != nil {
		return fmt.Errorf("marshalling assigned models: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET assigned_models = ? WHERE id = ?",
		string(modelsJSON), id)
	if err != nil {
		return fmt.Errorf("updating assigned models: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteDocument removes a document and its chunks. Idempotent: chunk
// rows go with the document via the cascading foreign key.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanDocument.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument reads a document row. The body is attached by the caller
// once chunks are known.
func scanDocument(row scanner) (*domain.Document, string, error) {
	var doc domain.Document
	var fullText, modelsJSON string
	if err := row.Scan(&doc.ID, &doc.Name, &doc.Path, &doc.Type, &doc.TextPreview,
		&fullText, &doc.FullTextLength, &modelsJSON, &doc.UploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(modelsJSON), &doc.AssignedModels); err != nil {
		return nil, "", fmt.Errorf("unmarshalling assigned models: %w", err)
	}

	return &doc, fullText, nil
}

// buildBody reconstructs the body variant from stored state: chunk rows
// win; otherwise the retained full text stands in.
func buildBody(chunks []domain.Chunk, fullText string) domain.Body {
	if len(chunks) > 0 {
		return domain.IndexedBody{Chunks: chunks}
	}
	return domain.UnindexedBody{FullText: fullText}
}
