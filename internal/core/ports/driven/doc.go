// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Document index persistence (SQLite in production,
//     in-memory for tests)
//   - Normaliser: Transforms raw uploaded bytes into extracted text
//   - NormaliserRegistry: Selects the appropriate normaliser by file type
//   - PostProcessor / PostProcessorPipeline: Produces chunks from content
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
