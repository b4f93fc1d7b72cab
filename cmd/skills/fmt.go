package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/lint"
	"github.com/obie/skills/pkg/presenter"
	"github.com/obie/skills/pkg/skill"
)

type FmtConfig struct {
	Write bool
}

func NewFmtConfig() *FmtConfig {
	return &FmtConfig{
		Write: false,
	}
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [dir...]",
	Short: "Normalize SKILL.md manifests",
	Long: `Rewrite SKILL.md manifests into canonical form: LF line endings,
frontmatter fields in declaration order, and a single trailing newline.

By default prints the diff of what would change; --write applies it.

Examples:
  skills fmt
  skills fmt --write
  skills fmt ./skills --write`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getFmtConfigFromFlags(cmd)
		runFmtCommand(args, config)
	},
}

func init() {
	defaults := NewFmtConfig()
	fmtCmd.Flags().BoolP("write", "w", defaults.Write, "Write changes back instead of printing the diff")
	rootCmd.AddCommand(fmtCmd)
}

func getFmtConfigFromFlags(cmd *cobra.Command) *FmtConfig {
	config := NewFmtConfig()
	if write, err := cmd.Flags().GetBool("write"); err == nil {
		config.Write = write
	}
	return config
}

func runFmtCommand(args []string, config *FmtConfig) {
	roots, err := lintRoots(args)
	if err != nil {
		presenter.Error(err, "Failed to determine skill directories")
		os.Exit(1)
	}

	var changed int
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			manifest := filepath.Join(root, entry.Name(), skill.SkillFileName)
			content, err := os.ReadFile(manifest)
			if err != nil {
				continue
			}

			if config.Write {
				normalized, err := lint.Normalize(string(content))
				if err != nil {
					presenter.Error(err, fmt.Sprintf("Failed to normalize %s", manifest))
					os.Exit(1)
				}
				if normalized == string(content) {
					continue
				}
				if err := os.WriteFile(manifest, []byte(normalized), 0o644); err != nil {
					presenter.Error(err, fmt.Sprintf("Failed to write %s", manifest))
					os.Exit(1)
				}
				presenter.Success(fmt.Sprintf("Formatted %s", manifest))
				changed++
				continue
			}

			diff, err := lint.Diff(manifest, string(content))
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to diff %s", manifest))
				os.Exit(1)
			}
			if diff != "" {
				fmt.Print(diff)
				changed++
			}
		}
	}

	if changed == 0 {
		presenter.Info("All manifests already canonical")
	}
}
