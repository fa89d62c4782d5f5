package cmd

import (
	"github.com/spf13/cobra"

	"tstbuild/internal/mcpserver"
)

// mcpCmd serves the catalog and test file tools over MCP stdio
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve tstbuild tools over the Model Context Protocol (stdio)",
	Long: `Starts an MCP server on stdin/stdout for AI assistants.

Available tools:
  catalog_list        - List the command catalog
  command_describe    - Show the fields of one command
  descriptor_parse    - Parse a descriptor string
  testfile_validate   - Validate test file contents
  testfile_format     - Re-serialize test file contents
  filename_normalize  - Apply the 8-character filename rules

Logs go to stderr so they never mix with the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	return mcpserver.NewServer(cat, rootCmd.Version).ServeStdio()
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
