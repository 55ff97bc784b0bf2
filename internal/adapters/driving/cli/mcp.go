package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facetlayer/flpipeline/internal/adapters/driving/mcp"
)

var mcpServePort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve doc search and hint selection to coding agents",
	Long: `Serve find_relevant_docs, search_hints and the docs resource over MCP.

The server speaks JSON-RPC on stdio unless --port is given, in which case it
serves streamable HTTP on that port (useful with MCP Inspector).

Register it with an agent as:
  {"mcpServers": {"flpipeline": {"command": "flpipeline", "args": ["mcp", "serve"]}}}`,
	Example: `  flpipeline mcp serve
  flpipeline mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpServePort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// newMCPServer builds the server from the wired services.
func newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Ports{
		Search:   searchService,
		Fallback: fallbackService,
		Hints:    hintService,
		Document: documentService,
	})
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := newMCPServer()
	if err != nil {
		return err
	}

	if mcpServePort <= 0 {
		return server.Run(cmd.Context())
	}

	addr := fmt.Sprintf(":%d", mcpServePort)
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
