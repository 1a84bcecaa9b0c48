// Package domain defines the core business entities for Lectern.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document with metadata and model assignments
//   - Chunk: A bounded, overlapping span of extracted text
//   - Body: The document body variant (indexed chunks vs raw full text)
//   - ScoredChunk / RetrievalResult: Ephemeral retrieval outputs
//   - RawDocument: Opaque bytes handed to a normaliser
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
