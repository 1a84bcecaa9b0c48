// Package mcp provides an MCP (Model Context Protocol) server adapter for Lectern.
// It lets AI assistants retrieve document context and browse the local index.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
