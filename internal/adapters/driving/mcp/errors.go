// Package mcp provides an MCP (Model Context Protocol) server adapter for flpipeline.
// It lets AI assistants search the project docs and pick hint files.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingHintService is returned by hint tools when no hint service is wired.
var ErrMissingHintService = errors.New("mcp: hint service is not configured")
