package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sambabib/dependency-dashboard/pkg/dashboard"
	"github.com/sambabib/dependency-dashboard/pkg/filter"
	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/manifest"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// HandlerSet exposes MCP tool handlers over one loaded data set.
type HandlerSet struct {
	base dashboard.State
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(records []model.DependencyRecord, policy license.Policy) *HandlerSet {
	return &HandlerSet{base: dashboard.New(records, policy)}
}

func arguments(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok && request.Params.Arguments == nil {
		return map[string]interface{}{}, true
	}
	return args, ok
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// view applies the project and filter arguments to the base state.
func (h *HandlerSet) view(args map[string]interface{}) (dashboard.State, error) {
	f, err := filter.ParseState(filter.Values{
		Status:   stringArg(args, "status"),
		Risk:     stringArg(args, "risk"),
		Security: stringArg(args, "security"),
		Search:   stringArg(args, "search"),
	})
	if err != nil {
		return dashboard.State{}, err
	}
	return h.base.WithProject(stringArg(args, "project")).WithFilters(f), nil
}

// HandleFilterDependencies handles the filter_dependencies tool
func (h *HandlerSet) HandleFilterDependencies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	state, err := h.view(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"project":      state.Project,
		"count":        len(state.Filtered),
		"dependencies": state.Rows(),
	})
}

// HandleSummarizeDependencies handles the summarize_dependencies tool
func (h *HandlerSet) HandleSummarizeDependencies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	state, err := h.view(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(state.Result)
}

// HandleClassifyLicense handles the classify_license tool
func (h *HandlerSet) HandleClassifyLicense(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	raw, ok := args["license"].(string)
	if !ok {
		return mcp.NewToolResultError("license parameter is required and must be a string"), nil
	}

	family, tier := h.base.Policy.ClassifyRaw(raw)
	return jsonResult(map[string]interface{}{
		"license": raw,
		"family":  family,
		"tier":    tier,
	})
}

// HandleParseManifest handles the parse_manifest tool
func (h *HandlerSet) HandleParseManifest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	content, ok := args["content"].(string)
	if !ok {
		return mcp.NewToolResultError("content parameter is required and must be a string"), nil
	}

	entries := manifest.Parse(content)
	return jsonResult(map[string]interface{}{
		"count":    len(entries),
		"packages": entries,
	})
}

// HandleLicenseIssues handles the license_issues tool
func (h *HandlerSet) HandleLicenseIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	state := h.base.WithProject(stringArg(args, "project"))
	return jsonResult(state.Licenses)
}
