package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/presenter"
	"github.com/obie/skills/pkg/skill"
)

type RemoveConfig struct {
	Global bool
}

func NewRemoveConfig() *RemoveConfig {
	return &RemoveConfig{
		Global: false,
	}
}

var removeCmd = &cobra.Command{
	Use:   "remove <skill-name>",
	Short: "Remove an installed skill",
	Long: `Remove an installed skill by name.

Examples:
  skills remove frontend-conventions
  skills remove frontend-conventions -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getRemoveConfigFromFlags(cmd)
		runRemoveCommand(args[0], config)
	},
}

func init() {
	defaults := NewRemoveConfig()
	removeCmd.Flags().BoolP("global", "g", defaults.Global, "Remove from the global skills directory instead of the repo-local one")
	rootCmd.AddCommand(removeCmd)
}

func getRemoveConfigFromFlags(cmd *cobra.Command) *RemoveConfig {
	config := NewRemoveConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	return config
}

func runRemoveCommand(name string, config *RemoveConfig) {
	skillsDir, err := getSkillsDir(config.Global)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	skillDir := filepath.Join(skillsDir, name)

	skillFile := filepath.Join(skillDir, skill.SkillFileName)
	if _, err := os.Stat(skillFile); os.IsNotExist(err) {
		location := "local"
		if config.Global {
			location = "global"
		}
		presenter.Error(errors.Errorf("skill '%s' not found in %s skills directory", name, location), "Skill not found")
		os.Exit(1)
	}

	if err := os.RemoveAll(skillDir); err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to remove skill '%s'", name))
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Removed skill '%s' from %s", name, skillDir))
}
