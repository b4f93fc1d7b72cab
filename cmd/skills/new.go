package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/presenter"
	"github.com/obie/skills/pkg/skill"
)

type NewSkillConfig struct {
	Global      bool
	Description string
}

func NewNewSkillConfig() *NewSkillConfig {
	return &NewSkillConfig{
		Global:      false,
		Description: "",
	}
}

var skillNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var newCmd = &cobra.Command{
	Use:   "new <skill-name>",
	Short: "Scaffold a new skill directory",
	Long: `Scaffold a new skill directory with a SKILL.md manifest and an empty
references directory.

Examples:
  skills new deploy-checklist
  skills new deploy-checklist --description "Pre-deploy verification steps"
  skills new deploy-checklist -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getNewSkillConfigFromFlags(cmd)
		runNewCommand(args[0], config)
	},
}

func init() {
	defaults := NewNewSkillConfig()
	newCmd.Flags().BoolP("global", "g", defaults.Global, "Create in the global skills directory instead of the repo-local one")
	newCmd.Flags().StringP("description", "d", defaults.Description, "Skill description for the manifest frontmatter")
	rootCmd.AddCommand(newCmd)
}

func getNewSkillConfigFromFlags(cmd *cobra.Command) *NewSkillConfig {
	config := NewNewSkillConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}
	return config
}

func runNewCommand(name string, config *NewSkillConfig) {
	if !skillNamePattern.MatchString(name) {
		presenter.Error(errors.Errorf("invalid skill name '%s'", name), "Skill names must be lowercase words separated by hyphens")
		os.Exit(1)
	}

	skillsDir, err := getSkillsDir(config.Global)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	skillDir := filepath.Join(skillsDir, name)
	if _, err := os.Stat(skillDir); err == nil {
		presenter.Error(errors.Errorf("skill '%s' already exists at %s", name, skillDir), "Skill already exists")
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Join(skillDir, "references"), 0o755); err != nil {
		presenter.Error(err, "Failed to create skill directory")
		os.Exit(1)
	}

	description := config.Description
	if description == "" {
		description = fmt.Sprintf("Use this skill when working on %s tasks.", name)
	}

	manifest := fmt.Sprintf(`---
name: %s
description: %s
---

# %s

Describe when and how to apply this skill. Keep the body focused on
actionable instructions; move detailed material into references/.
`, name, description, name)

	manifestPath := filepath.Join(skillDir, skill.SkillFileName)
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		presenter.Error(err, "Failed to write manifest")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Created skill '%s' at %s", name, skillDir))
	presenter.Info(fmt.Sprintf("Edit %s to fill in the instructions", manifestPath))
}
