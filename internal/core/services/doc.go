// Package services holds the indexing, search and hint selection logic
// behind the CLI and MCP server. Services depend only on driven ports, so
// every provider and store can be swapped for a mock in tests.
package services
