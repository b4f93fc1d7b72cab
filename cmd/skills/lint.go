package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/lint"
	"github.com/obie/skills/pkg/presenter"
)

type LintConfig struct {
	IncludeGlobs []string
	Strict       bool
}

func NewLintConfig() *LintConfig {
	return &LintConfig{
		IncludeGlobs: []string{"**/*.md"},
		Strict:       false,
	}
}

var lintCmd = &cobra.Command{
	Use:   "lint [dir...]",
	Short: "Lint skill directories",
	Long: `Lint skill directories: frontmatter shape, naming, internal link
integrity, and code fence hygiene.

With no arguments, lints every skill in the configured skill directories.
With arguments, each argument is treated as a directory containing skill
directories.

Examples:
  skills lint
  skills lint ./skills
  skills lint --include '**/*.md' --strict`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getLintConfigFromFlags(cmd)
		runLintCommand(args, config)
	},
}

func init() {
	defaults := NewLintConfig()
	lintCmd.Flags().StringSlice("include", defaults.IncludeGlobs, "Glob patterns for files to lint, relative to each skill directory")
	lintCmd.Flags().Bool("strict", defaults.Strict, "Treat warnings as errors")
	rootCmd.AddCommand(lintCmd)
}

func getLintConfigFromFlags(cmd *cobra.Command) *LintConfig {
	config := NewLintConfig()
	if globs, err := cmd.Flags().GetStringSlice("include"); err == nil {
		config.IncludeGlobs = globs
	}
	if strict, err := cmd.Flags().GetBool("strict"); err == nil {
		config.Strict = strict
	}
	return config
}

func lintRoots(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	discovery, err := newDiscovery()
	if err != nil {
		return nil, err
	}
	return discovery.Dirs(), nil
}

func runLintCommand(args []string, config *LintConfig) {
	roots, err := lintRoots(args)
	if err != nil {
		presenter.Error(err, "Failed to determine lint roots")
		os.Exit(1)
	}

	linter := lint.New(lint.WithIncludeGlobs(config.IncludeGlobs...))
	results, err := linter.LintAll(roots)
	if err != nil {
		presenter.Error(err, "Lint failed")
		os.Exit(1)
	}

	if len(results) == 0 {
		presenter.Info("No skills found to lint")
		return
	}

	var warningCount int
	for _, result := range results {
		for _, f := range result.Findings {
			if f.Severity == lint.SeverityWarning {
				warningCount++
			}
			fmt.Println(f.String())
		}
	}

	lintErr := lint.Err(results)
	if lintErr != nil || (config.Strict && warningCount > 0) {
		errorCount := 0
		if merr, ok := lintErr.(*multierror.Error); ok {
			errorCount = merr.Len()
		}
		presenter.Error(fmt.Errorf("%d error(s), %d warning(s)", errorCount, warningCount), "Lint failed")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("%d skill(s) linted, %d warning(s)", len(results), warningCount))
}
