package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/presenter"
	"github.com/obie/skills/pkg/skill"
)

type ListConfig struct {
	Pattern string
}

func NewListConfig() *ListConfig {
	return &ListConfig{
		Pattern: "",
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all installed skills",
	Long: `List all installed skills with their names, descriptions, and
directory paths.

Examples:
  skills list
  skills list --pattern 'mcp-*'`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)
		runListCommand(config)
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().StringP("pattern", "p", defaults.Pattern, "Glob pattern to filter skill names (e.g. 'mcp-*')")
	rootCmd.AddCommand(listCmd)
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if pattern, err := cmd.Flags().GetString("pattern"); err == nil {
		config.Pattern = pattern
	}
	return config
}

func runListCommand(config *ListConfig) {
	discovery, err := newDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	allSkills, err := discovery.DiscoverSkills()
	if err != nil {
		presenter.Error(err, "Failed to discover skills")
		os.Exit(1)
	}

	allSkills, err = skill.FilterByPattern(allSkills, config.Pattern)
	if err != nil {
		presenter.Error(err, "Invalid pattern")
		os.Exit(1)
	}

	if len(allSkills) == 0 {
		presenter.Info("No skills installed")
		return
	}

	names := make([]string, 0, len(allSkills))
	for name := range allSkills {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t---------\t-----------")

	for _, name := range names {
		s := allSkills[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Directory, truncateDescription(s.Description, 60))
	}
	tw.Flush()
}

// truncateDescription shortens table output without splitting a
// multi-byte rune
func truncateDescription(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
