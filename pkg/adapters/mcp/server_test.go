package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oolestudio/tamashi/internal/logging"
	"github.com/oolestudio/tamashi/pkg/adapters/memory"
	"github.com/oolestudio/tamashi/pkg/catalog"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/session"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	ctx := context.Background()

	logger := logging.NewNop()
	manager := session.NewManager(memory.NewStore(), session.WithLogger(logger))
	srv := NewServer(manager, catalog.NewBuiltin(domain.DefaultPersona), logger)

	c, err := client.NewInProcessClient(srv.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "tamashi-test", Version: "0"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)
	return c
}

func call(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok, "expected text content")
	return tc.Text
}

func viewOf(t *testing.T, res *mcp.CallToolResult) ViewResponse {
	t.Helper()
	require.False(t, res.IsError, text(t, res))
	var out ViewResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	return out
}

func TestTools_Registered(t *testing.T) {
	c := newTestClient(t)

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"load_tutorial", "advance", "dismiss", "reset", "get_view",
		"list_tutorials", "validate_tutorial", "get_graph",
	}, names)
}

func TestSessionTools_WalkTutorial(t *testing.T) {
	c := newTestClient(t)

	v := viewOf(t, call(t, c, "load_tutorial", map[string]any{
		"session_id":  "agent",
		"tutorial_id": catalog.HomePlaylistsID,
	}))
	assert.Equal(t, "agent", v.SessionID)
	assert.True(t, v.View.Visible)
	assert.Equal(t, "step1", v.View.StepID())

	v = viewOf(t, call(t, c, "advance", map[string]any{"session_id": "agent"}))
	assert.Equal(t, "step2", v.View.StepID())

	v = viewOf(t, call(t, c, "dismiss", map[string]any{"session_id": "agent"}))
	assert.False(t, v.View.Visible)
	assert.Equal(t, "step2", v.View.StepID())

	v = viewOf(t, call(t, c, "reset", map[string]any{"session_id": "agent"}))
	assert.True(t, v.View.Visible)
	assert.Equal(t, "step1", v.View.StepID())

	v = viewOf(t, call(t, c, "get_view", map[string]any{"session_id": "agent"}))
	assert.Equal(t, "step1", v.View.StepID())
}

func TestResetTool_GoesToFirstStepNotStart(t *testing.T) {
	c := newTestClient(t)

	v := viewOf(t, call(t, c, "load_tutorial", map[string]any{
		"session_id":    "mid",
		"tutorial_id":   catalog.HomePlaylistsID,
		"start_step_id": "step3",
	}))
	assert.Equal(t, "step3", v.View.StepID())

	v = viewOf(t, call(t, c, "reset", map[string]any{"session_id": "mid"}))
	assert.Equal(t, "step1", v.View.StepID())

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)
	for _, tool := range res.Tools {
		if tool.Name == "reset" {
			assert.Contains(t, tool.Description, "first step")
			assert.NotContains(t, tool.Description, "start step")
		}
	}
}

func TestSessionTools_Errors(t *testing.T) {
	c := newTestClient(t)

	res := call(t, c, "advance", map[string]any{"session_id": "ghost"})
	assert.True(t, res.IsError)

	res = call(t, c, "load_tutorial", map[string]any{"session_id": "s", "tutorial_id": "nope"})
	assert.True(t, res.IsError)
}

func TestCatalogTools(t *testing.T) {
	c := newTestClient(t)

	var list []TutorialSummary
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, c, "list_tutorials", nil))), &list))
	require.Len(t, list, 1)
	assert.Equal(t, TutorialSummary{ID: catalog.HomePlaylistsID, Title: "Create your first playlist", Steps: 4}, list[0])

	res := call(t, c, "validate_tutorial", map[string]any{"tutorial_id": catalog.HomePlaylistsID})
	require.False(t, res.IsError)
	var report ValidationReport
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &report))
	assert.True(t, report.Valid)

	res = call(t, c, "get_graph", map[string]any{"tutorial_id": catalog.HomePlaylistsID})
	require.False(t, res.IsError)
	assert.Contains(t, text(t, res), "step3 --> step4")
}

func TestTutorialsResource(t *testing.T) {
	c := newTestClient(t)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = TutorialsURI
	res, err := c.ReadResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	contents, ok := mcp.AsTextResourceContents(res.Contents[0])
	require.True(t, ok)
	assert.Equal(t, "application/json", contents.MIMEType)
	assert.Contains(t, contents.Text, `"id":"home_playlists"`)
}
