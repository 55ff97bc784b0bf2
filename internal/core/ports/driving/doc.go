// Package driving declares what the CLI and MCP server may ask of the core:
// index a docs tree, search it and pick hints for a task.
package driving
