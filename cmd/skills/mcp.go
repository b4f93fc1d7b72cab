package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/mcpserver"
	"github.com/obie/skills/pkg/presenter"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve skills over MCP on stdio",
	Long: `Serve discovered skills to an MCP host over stdio. Each skill is
exposed as a resource, with tools for listing and reading skills.

Examples:
  skills mcp serve`,
	Run: func(cmd *cobra.Command, _ []string) {
		runMCPServeCommand(cmd)
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServeCommand(cmd *cobra.Command) {
	ctx := cmd.Context()

	discovery, err := newDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	srv, err := mcpserver.New(discovery)
	if err != nil {
		presenter.Error(err, "Failed to create MCP server")
		os.Exit(1)
	}

	if err := srv.ServeStdio(ctx); err != nil {
		presenter.Error(err, "MCP server exited with error")
		os.Exit(1)
	}
}
