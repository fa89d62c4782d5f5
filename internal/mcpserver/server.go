package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tstbuild/internal/catalog"
	"tstbuild/internal/cli"
	"tstbuild/internal/descriptor"
	"tstbuild/internal/testfile"
	"tstbuild/internal/validation"
	"tstbuild/pkg/logging"
)

const subsystem = "MCPServer"

// ServerName is the name announced to MCP clients.
const ServerName = "tstbuild"

// Server exposes the catalog, descriptor parser, validator and codec as MCP
// tools. The catalog is shared read-only between requests.
type Server struct {
	catalog   *catalog.Catalog
	mcpServer *server.MCPServer
}

// NewServer creates a server with all tools registered.
func NewServer(cat *catalog.Catalog, version string) *Server {
	s := &Server{
		catalog: cat,
		mcpServer: server.NewMCPServer(
			ServerName,
			version,
			server.WithToolCapabilities(true),
		),
	}
	for _, tool := range s.tools() {
		s.mcpServer.AddTool(tool.Tool, tool.Handler)
	}
	return s
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	logging.Info(subsystem, "Serving %d catalog commands over stdio", s.catalog.Len())
	return server.ServeStdio(s.mcpServer)
}

// Tools returns the tool definitions in registration order.
func (s *Server) Tools() []mcp.Tool {
	var tools []mcp.Tool
	for _, t := range s.tools() {
		tools = append(tools, t.Tool)
	}
	return tools
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("catalog_list",
				mcp.WithDescription("List every command of the command catalog with its argument and reply descriptors"),
			),
			Handler: s.handleCatalogList,
		},
		{
			Tool: mcp.NewTool("command_describe",
				mcp.WithDescription("Show the value-bearing fields of a catalog command, struct arguments flattened"),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Command name, matched case-insensitively"),
				),
			),
			Handler: s.handleCommandDescribe,
		},
		{
			Tool: mcp.NewTool("descriptor_parse",
				mcp.WithDescription("Parse a type descriptor such as 'host_slot:u1' or '{a:u2,b:s8}'"),
				mcp.WithString("descriptor",
					mcp.Required(),
					mcp.Description("Descriptor string"),
				),
			),
			Handler: s.handleDescriptorParse,
		},
		{
			Tool: mcp.NewTool("testfile_validate",
				mcp.WithDescription("Validate the contents of a .tst test file against the command catalog"),
				mcp.WithString("content",
					mcp.Required(),
					mcp.Description("Test file JSON text"),
				),
			),
			Handler: s.handleTestfileValidate,
		},
		{
			Tool: mcp.NewTool("testfile_format",
				mcp.WithDescription("Re-serialize the contents of a .tst test file in canonical key order"),
				mcp.WithString("content",
					mcp.Required(),
					mcp.Description("Test file JSON text"),
				),
			),
			Handler: s.handleTestfileFormat,
		},
		{
			Tool: mcp.NewTool("filename_normalize",
				mcp.WithDescription("Apply the 8-character .tst filename rules to a path"),
				mcp.WithString("path",
					mcp.Required(),
					mcp.Description("Proposed file path"),
				),
			),
			Handler: s.handleFilenameNormalize,
		},
	}
}

func (s *Server) handleCatalogList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	views := make([]cli.CommandView, 0, s.catalog.Len())
	for _, def := range s.catalog.Commands() {
		views = append(views, cli.NewCommandView(def))
	}
	return jsonResult(views)
}

func (s *Server) handleCommandDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	def := s.catalog.Find(name)
	if def == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Command '%s' not found in the catalog", name)), nil
	}
	return jsonResult(cli.NewDescribeView(def))
}

func (s *Server) handleDescriptorParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("descriptor")
	if err != nil {
		return mcp.NewToolResultError("descriptor parameter is required"), nil
	}
	return jsonResult(cli.NewDescriptorView(raw, descriptor.Parse(raw)))
}

func (s *Server) handleTestfileValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content parameter is required"), nil
	}

	entries, err := testfile.Parse([]byte(content), s.catalog)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse test file: %v", err)), nil
	}

	result := validation.ValidateAll(entries)
	return jsonResult(ValidationReport{
		Valid:    result.Valid(),
		Tests:    len(entries),
		Errors:   nonNil(result.Errors),
		Warnings: nonNil(result.Warnings),
	})
}

func (s *Server) handleTestfileFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content parameter is required"), nil
	}

	entries, err := testfile.Parse([]byte(content), s.catalog)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse test file: %v", err)), nil
	}
	text, err := testfile.Serialize(entries)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize test file: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleFilenameNormalize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	check := validation.ValidateFilename(base)
	return jsonResult(FilenameReport{
		Normalized: testfile.NormalizeFilename(path),
		Valid:      check.Valid(),
		Errors:     nonNil(check.Errors),
	})
}

// ValidationReport is the testfile_validate result.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Tests    int      `json:"tests"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// FilenameReport is the filename_normalize result. Valid reports whether
// the name was acceptable before normalization.
type FilenameReport struct {
	Normalized string   `json:"normalized"`
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
