// Package mcpserver exposes the skill corpus to assistant hosts over the
// Model Context Protocol. Skills are published both as tools (list_skills,
// read_skill) and as skill:// resources.
package mcpserver

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/obie/skills/pkg/logger"
	"github.com/obie/skills/pkg/skill"
	"github.com/obie/skills/pkg/version"
)

const serverName = "skills"

// Server wraps an MCP server over a skill discovery
type Server struct {
	discovery *skill.Discovery
	mcpServer *server.MCPServer
}

// New creates an MCP server exposing the skills found by discovery
func New(discovery *skill.Discovery) (*Server, error) {
	s := &Server{
		discovery: discovery,
		mcpServer: server.NewMCPServer(
			serverName,
			version.Get().Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, true),
		),
	}

	s.registerTools()
	if err := s.registerResources(); err != nil {
		return nil, err
	}

	return s, nil
}

// registerTools adds the list_skills and read_skill tools
func (s *Server) registerTools() {
	listTool := mcp.NewTool("list_skills",
		mcp.WithDescription("List all available skills with their names and descriptions"),
	)
	s.mcpServer.AddTool(listTool, s.handleListSkills)

	readTool := mcp.NewTool("read_skill",
		mcp.WithDescription("Read the full instructions of a skill by name"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The skill name as returned by list_skills"),
		),
	)
	s.mcpServer.AddTool(readTool, s.handleReadSkill)
}

// registerResources publishes every discovered skill as a skill:// resource
func (s *Server) registerResources() error {
	skills, err := s.discovery.DiscoverSkills()
	if err != nil {
		return errors.Wrap(err, "failed to discover skills")
	}

	for name, sk := range skills {
		uri := "skill://" + name
		resource := mcp.NewResource(uri, name,
			mcp.WithResourceDescription(sk.Description),
			mcp.WithMIMEType("text/markdown"),
		)

		content := sk.Content
		s.mcpServer.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     content,
				},
			}, nil
		})
	}

	return nil
}

// handleListSkills returns the skill inventory as JSON
func (s *Server) handleListSkills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skills, err := s.discovery.DiscoverSkills()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	entries := make([]entry, 0, len(skills))
	for _, sk := range skills {
		entries = append(entries, entry{Name: sk.Name, Description: sk.Description})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

// handleReadSkill returns a single skill's instructions
func (s *Server) handleReadSkill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("'name' argument is required"), nil
	}

	sk, err := s.discovery.GetSkill(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(sk.Content), nil
}

// ServeStdio runs the MCP server over stdin/stdout until EOF
func (s *Server) ServeStdio(ctx context.Context) error {
	logger.G(ctx).Info("Starting MCP server on stdio")
	return errors.Wrap(server.ServeStdio(s.mcpServer), "MCP server failed")
}
