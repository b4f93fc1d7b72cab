package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obie/skills/pkg/skill"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tmpDir := t.TempDir()

	skillDir := filepath.Join(tmpDir, "frontend-conventions")
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	manifest := `---
name: frontend-conventions
description: Controller and form conventions
---

# Front-End Conventions

Keep controllers thin.
`
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(manifest), 0o644))

	discovery, err := skill.NewDiscovery(skill.WithSkillDirs(tmpDir))
	require.NoError(t, err)

	srv, err := New(discovery)
	require.NoError(t, err)
	return srv
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleListSkills(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handleListSkills(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := textContent(t, result)
	assert.Contains(t, text, "frontend-conventions")
	assert.Contains(t, text, "Controller and form conventions")
}

func TestHandleReadSkill(t *testing.T) {
	srv := newTestServer(t)

	t.Run("existing skill", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]interface{}{"name": "frontend-conventions"}

		result, err := srv.handleReadSkill(context.Background(), req)
		require.NoError(t, err)
		require.False(t, result.IsError)
		assert.Contains(t, textContent(t, result), "Keep controllers thin.")
	})

	t.Run("missing name argument", func(t *testing.T) {
		result, err := srv.handleReadSkill(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("unknown skill", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]interface{}{"name": "nope"}

		result, err := srv.handleReadSkill(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}
