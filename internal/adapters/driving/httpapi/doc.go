// Package httpapi provides the JSON HTTP adapter for Lectern.
// It exposes document management and retrieval over a local REST API so
// chat frontends can ingest files and fetch prompt context.
package httpapi
