package mcp

import (
	"github.com/lectern-dev/lectern/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval ranks documents and assembles prompt context.
	Retrieval driving.RetrievalService

	// Document manages the document index. Optional; document tools and
	// resources degrade gracefully when unset.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
