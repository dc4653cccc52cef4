package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/mcp"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

type handlerFunc func(*mcp.HandlerSet, context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error)

func runToolTest(t *testing.T, arguments interface{}, handler handlerFunc) *mcplib.CallToolResult {
	t.Helper()
	h := mcp.NewHandlerSet(model.SampleRecords(), license.DefaultPolicy())

	req := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Arguments: arguments,
		},
	}

	res, err := handler(h, context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func decode(t *testing.T, res *mcplib.CallToolResult) map[string]interface{} {
	t.Helper()
	require.False(t, res.IsError)
	require.Greater(t, len(res.Content), 0)
	text := mcplib.GetTextFromContent(res.Content[0])
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	return result
}

func errorText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError)
	return mcplib.GetTextFromContent(res.Content[0])
}

func TestHandleFilterDependencies(t *testing.T) {
	tests := map[string]struct {
		arguments interface{}
		count     float64
		errPrefix string
	}{
		"invalid_arguments_format": {arguments: "not-a-map", errPrefix: "invalid arguments format"},
		"no_arguments":             {arguments: nil, count: 6},
		"all":                      {arguments: map[string]interface{}{}, count: 6},
		"project":                  {arguments: map[string]interface{}{"project": "Backend"}, count: 3},
		"vulnerable_backend": {
			arguments: map[string]interface{}{"project": "Backend", "security": "vulnerable"},
			count:     1,
		},
		"search": {arguments: map[string]interface{}{"search": "re"}, count: 3},
		"invalid_risk": {
			arguments: map[string]interface{}{"risk": "Extreme"},
			errPrefix: "invalid risk filter",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := runToolTest(t, tc.arguments, (*mcp.HandlerSet).HandleFilterDependencies)
			if tc.errPrefix != "" {
				assert.Contains(t, errorText(t, res), tc.errPrefix)
				return
			}
			result := decode(t, res)
			assert.Equal(t, tc.count, result["count"])
			deps, ok := result["dependencies"].([]interface{})
			require.True(t, ok)
			assert.Len(t, deps, int(tc.count))
		})
	}
}

func TestHandleSummarizeDependencies(t *testing.T) {
	res := runToolTest(t, map[string]interface{}{"project": "Frontend"}, (*mcp.HandlerSet).HandleSummarizeDependencies)
	result := decode(t, res)

	summary, ok := result["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), summary["total"])
	assert.Equal(t, float64(92), summary["avg_health"])
	assert.Contains(t, result, "health_histogram")
	assert.Contains(t, result, "risk_counts")

	res = runToolTest(t, map[string]interface{}{"status": "stale"}, (*mcp.HandlerSet).HandleSummarizeDependencies)
	assert.Contains(t, errorText(t, res), "invalid status filter")
}

func TestHandleClassifyLicense(t *testing.T) {
	tests := map[string]struct {
		license string
		family  string
		tier    license.Tier
	}{
		"mit":          {"MIT License", "MIT", license.TierAllowed},
		"apache":       {"Apache-2.0", "Apache", license.TierAllowed},
		"gpl":          {"GPL-3.0-or-later", "GPL", license.TierRestricted},
		"agpl":         {"AGPL-3.0", "AGPL", license.TierRestricted},
		"mozilla":      {"MPL-2.0", "Mozilla", license.TierReviewRequired},
		"unknown":      {"", model.Unknown, license.TierUnclassified},
		"unclassified": {"WTFPL", "WTFPL", license.TierUnclassified},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := runToolTest(t, map[string]interface{}{"license": tc.license}, (*mcp.HandlerSet).HandleClassifyLicense)
			result := decode(t, res)
			assert.Equal(t, tc.family, result["family"])
			assert.Equal(t, string(tc.tier), result["tier"])
		})
	}

	res := runToolTest(t, map[string]interface{}{}, (*mcp.HandlerSet).HandleClassifyLicense)
	assert.Contains(t, errorText(t, res), "license parameter is required")
}

func TestHandleParseManifest(t *testing.T) {
	res := runToolTest(t, map[string]interface{}{
		"content": "flask==2.0.1\n# web\nrequests>=2.25\n-r base.txt\nuvicorn[standard]\n",
	}, (*mcp.HandlerSet).HandleParseManifest)
	result := decode(t, res)

	assert.Equal(t, float64(3), result["count"])
	packages, ok := result["packages"].([]interface{})
	require.True(t, ok)
	first := packages[0].(map[string]interface{})
	assert.Equal(t, "flask", first["name"])
	assert.Equal(t, "==", first["constraint"])
	assert.Equal(t, "2.0.1", first["version"])
	assert.Equal(t, "uvicorn", packages[2].(map[string]interface{})["name"])

	res = runToolTest(t, map[string]interface{}{"content": 42}, (*mcp.HandlerSet).HandleParseManifest)
	assert.Contains(t, errorText(t, res), "content parameter is required")
}

func TestHandleLicenseIssues(t *testing.T) {
	result := decode(t, runToolTest(t, map[string]interface{}{}, (*mcp.HandlerSet).HandleLicenseIssues))
	restricted, ok := result["restricted"].([]interface{})
	require.True(t, ok)
	require.Len(t, restricted, 1)
	assert.Equal(t, "outdated-pkg", restricted[0].(map[string]interface{})["package_name"])

	result = decode(t, runToolTest(t, map[string]interface{}{"project": "Frontend"}, (*mcp.HandlerSet).HandleLicenseIssues))
	assert.Empty(t, result["restricted"])
	assert.Empty(t, result["review_required"])
}

func TestRegisterTools(t *testing.T) {
	s := server.NewMCPServer("depdash-test", "0.0.0", server.WithToolCapabilities(true))
	mcp.RegisterTools(s, mcp.NewHandlerSet(model.SampleRecords(), license.DefaultPolicy()))

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var listed struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(b, &listed))

	names := make([]string, 0, len(listed.Result.Tools))
	for _, tool := range listed.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, mcp.ToolNames, names)
}
