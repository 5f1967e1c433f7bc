package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/mcp"
)

// Port range scanned by --auto-port.
const (
	mcpPortStart = 8780
	mcpPortEnd   = 8799
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can read and
edit your resume builds.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead, or --auto-port to pick a free port in
8780-8799.

Every edit is saved as soon as the tool call completes.

Examples:
  # Stdio mode (default, for desktop assistants)
  vitae mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  vitae mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "vitae": {
        "command": "/path/to/vitae",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("auto-port", false, "serve HTTP on the first free port in 8780-8799")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	auto, err := cmd.Flags().GetBool("auto-port")
	if err != nil {
		return fmt.Errorf("getting auto-port flag: %w", err)
	}
	if auto && port == 0 {
		if port, err = mcp.FindAvailablePort(mcpPortStart, mcpPortEnd); err != nil {
			return err
		}
	}

	ports := &mcp.Ports{
		Library:   libraryService,
		Sessions:  sessionService,
		Export:    exportService,
		Templates: templateService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
