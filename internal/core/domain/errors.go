package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors: storage adapters wrap
// driver failures with operation context instead, so callers can tell
// "the record is absent" apart from "the index may be inconsistent".
var (
	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a document ID collision at creation.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input, rejected
	// before touching the index.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtractionFailed indicates text extraction produced no usable
	// text. Recovered locally: the document is still indexed, with an
	// unindexed body, and retrieval silently skips it.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrUnsupportedType indicates no normaliser handles the file type.
	ErrUnsupportedType = errors.New("unsupported type")
)

// ExtractionFailedMarker is stored as the body text of a document whose
// extraction failed, so the UI can show it as uploaded but flag it as
// having no searchable content.
const ExtractionFailedMarker = "[no searchable content: text extraction failed]"
