package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/corpus"
	"github.com/obie/skills/pkg/presenter"
)

type BuiltinInstallConfig struct {
	Global bool
	Force  bool
}

func NewBuiltinInstallConfig() *BuiltinInstallConfig {
	return &BuiltinInstallConfig{
		Global: false,
		Force:  false,
	}
}

var builtinCmd = &cobra.Command{
	Use:   "builtin",
	Short: "Work with the builtin skill corpus",
	Long: `Work with the skill corpus embedded in the binary: list builtin
skills, install them into a skills directory, or check installed copies
for drift against the embedded versions.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var builtinListCmd = &cobra.Command{
	Use:   "list",
	Short: "List builtin skills",
	Run: func(cmd *cobra.Command, _ []string) {
		runBuiltinListCommand()
	},
}

var builtinInstallCmd = &cobra.Command{
	Use:   "install [skill-name...]",
	Short: "Install builtin skills into a skills directory",
	Long: `Install builtin skills into the local or global skills directory.
With no arguments, installs every builtin skill.

Examples:
  skills builtin install
  skills builtin install mcp-oauth
  skills builtin install frontend-conventions -g --force`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getBuiltinInstallConfigFromFlags(cmd)
		runBuiltinInstallCommand(args, config)
	},
}

var builtinDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Check installed builtin skills for drift",
	Long: `Compare installed copies of builtin skills against the embedded
corpus and report any that have drifted.`,
	Run: func(cmd *cobra.Command, _ []string) {
		global, _ := cmd.Flags().GetBool("global")
		runBuiltinDiffCommand(global)
	},
}

func init() {
	defaults := NewBuiltinInstallConfig()
	builtinInstallCmd.Flags().BoolP("global", "g", defaults.Global, "Install to the global skills directory instead of the repo-local one")
	builtinInstallCmd.Flags().BoolP("force", "f", defaults.Force, "Overwrite existing skill directories")
	builtinDiffCmd.Flags().BoolP("global", "g", false, "Check the global skills directory instead of the repo-local one")

	builtinCmd.AddCommand(builtinListCmd)
	builtinCmd.AddCommand(builtinInstallCmd)
	builtinCmd.AddCommand(builtinDiffCmd)
	rootCmd.AddCommand(builtinCmd)
}

func getBuiltinInstallConfigFromFlags(cmd *cobra.Command) *BuiltinInstallConfig {
	config := NewBuiltinInstallConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	return config
}

func runBuiltinListCommand() {
	skills, err := corpus.LoadAll()
	if err != nil {
		presenter.Error(err, "Failed to load builtin skills")
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, name := range corpus.Names() {
		fmt.Fprintf(w, "%s\t%s\n", name, skills[name].Description)
	}
	w.Flush()
}

func runBuiltinInstallCommand(args []string, config *BuiltinInstallConfig) {
	names := args
	if len(names) == 0 {
		names = corpus.Names()
	}

	skillsDir, err := getSkillsDir(config.Global)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	for _, name := range names {
		target, err := corpus.Install(name, skillsDir, config.Force)
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to install builtin skill '%s'", name))
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Installed builtin skill '%s' to %s", name, target))
	}
}

func runBuiltinDiffCommand(global bool) {
	skillsDir, err := getSkillsDir(global)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	var drifted int
	for _, name := range corpus.Names() {
		installed := filepath.Join(skillsDir, name)
		if _, err := os.Stat(installed); os.IsNotExist(err) {
			continue
		}

		want, err := corpus.Digest(name)
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to digest builtin skill '%s'", name))
			os.Exit(1)
		}

		got, err := corpus.DigestDir(installed)
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to digest installed skill '%s'", name))
			os.Exit(1)
		}

		if got != want {
			presenter.Warning(fmt.Sprintf("Skill '%s' at %s has drifted from the builtin version", name, installed))
			drifted++
		}
	}

	if drifted == 0 {
		presenter.Success("All installed builtin skills match the embedded corpus")
		return
	}
	os.Exit(1)
}
