// Package normalisers provides implementations of the Normaliser
// interface for various document formats. Each normaliser knows how to
// extract text from a specific set of file extensions.
//
// Normalisers are registered with the Registry at startup; the registry
// picks the highest-priority match for a document's type.
package normalisers
