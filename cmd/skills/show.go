package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/presenter"
)

type ShowConfig struct {
	MetaOnly bool
}

func NewShowConfig() *ShowConfig {
	return &ShowConfig{
		MetaOnly: false,
	}
}

var showCmd = &cobra.Command{
	Use:   "show <skill-name>",
	Short: "Show a skill's instructions",
	Long: `Show the full instructions of an installed skill, or just its
metadata with --meta.

Examples:
  skills show mcp-oauth
  skills show mcp-oauth --meta`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getShowConfigFromFlags(cmd)
		runShowCommand(args[0], config)
	},
}

func init() {
	defaults := NewShowConfig()
	showCmd.Flags().Bool("meta", defaults.MetaOnly, "Show only the skill metadata")
	rootCmd.AddCommand(showCmd)
}

func getShowConfigFromFlags(cmd *cobra.Command) *ShowConfig {
	config := NewShowConfig()
	if metaOnly, err := cmd.Flags().GetBool("meta"); err == nil {
		config.MetaOnly = metaOnly
	}
	return config
}

func runShowCommand(name string, config *ShowConfig) {
	discovery, err := newDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	s, err := discovery.GetSkill(name)
	if err != nil {
		presenter.Error(err, "Skill not found")
		os.Exit(1)
	}

	if config.MetaOnly {
		fmt.Printf("Name:        %s\n", s.Name)
		fmt.Printf("Description: %s\n", s.Description)
		fmt.Printf("Directory:   %s\n", s.Directory)
		if s.Meta.License != "" {
			fmt.Printf("License:     %s\n", s.Meta.License)
		}
		if len(s.Meta.AllowedTools) > 0 {
			fmt.Printf("Tools:       %s\n", strings.Join(s.Meta.AllowedTools, ", "))
		}
		return
	}

	fmt.Println(s.Content)
}
