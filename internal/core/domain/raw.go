package domain

import "time"

// RawDocument represents opaque uploaded bytes before text extraction.
// It is the ingestion input handed to a normaliser.
type RawDocument struct {
	// Name is the original filename.
	Name string

	// Path is where the original file was stored, if already persisted.
	Path string

	// Type is the lowercased file extension without the dot.
	Type string

	// Content is the raw bytes.
	Content []byte

	// UploadedAt is the upload timestamp.
	UploadedAt time.Time
}
