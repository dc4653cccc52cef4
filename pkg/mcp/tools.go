package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Names of the registered tools, in registration order.
var ToolNames = []string{
	"filter_dependencies",
	"summarize_dependencies",
	"classify_license",
	"parse_manifest",
	"license_issues",
}

func withFilterParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("project",
			mcp.Description("Project name, or \"all\" (default: all)")),
		mcp.WithString("status",
			mcp.Enum("all", "upToDate", "needsUpdate"),
			mcp.Description("Update status filter (default: all)")),
		mcp.WithString("risk",
			mcp.Enum("all", "Low", "Medium", "High", "Critical"),
			mcp.Description("Abandonment risk filter (default: all)")),
		mcp.WithString("security",
			mcp.Enum("all", "vulnerable", "secure"),
			mcp.Description("Vulnerability filter (default: all)")),
		mcp.WithString("search",
			mcp.Description("Case-insensitive text matched against package name, license and repository URL")),
	}
}

// RegisterTools registers all dependency dashboard MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	// Tool 1: filter_dependencies - Dependency table
	s.AddTool(mcp.NewTool("filter_dependencies",
		append([]mcp.ToolOption{
			mcp.WithDescription("List monitored dependencies matching a project scope and filters"),
		}, withFilterParams()...)...,
	), h.HandleFilterDependencies)

	// Tool 2: summarize_dependencies - Dashboard cards and charts
	s.AddTool(mcp.NewTool("summarize_dependencies",
		append([]mcp.ToolOption{
			mcp.WithDescription("Summary counters, health histogram, risk and license distribution for a filtered view"),
		}, withFilterParams()...)...,
	), h.HandleSummarizeDependencies)

	// Tool 3: classify_license - License family and policy tier
	s.AddTool(mcp.NewTool("classify_license",
		mcp.WithDescription("Simplify a license string to its family and classify it against the license policy"),
		mcp.WithString("license",
			mcp.Required(),
			mcp.Description("Raw license string, e.g. \"Apache-2.0\" or full license text")),
	), h.HandleClassifyLicense)

	// Tool 4: parse_manifest - Requirements file parsing
	s.AddTool(mcp.NewTool("parse_manifest",
		mcp.WithDescription("Parse requirements.txt content into package names, constraints and versions"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Manifest file content")),
	), h.HandleParseManifest)

	// Tool 5: license_issues - Compliance report
	s.AddTool(mcp.NewTool("license_issues",
		mcp.WithDescription("List packages whose license is restricted or requires review"),
		mcp.WithString("project",
			mcp.Description("Project name, or \"all\" (default: all)")),
	), h.HandleLicenseIssues)
}
