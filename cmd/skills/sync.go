package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/index"
	"github.com/obie/skills/pkg/presenter"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the skill search index",
	Long: `Rescan the configured skill directories and rebuild the search
index from what is installed.

Examples:
  skills sync`,
	Run: func(cmd *cobra.Command, _ []string) {
		runSyncCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSyncCommand(cmd *cobra.Command) {
	ctx := cmd.Context()

	discovery, err := newDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	skills, err := discovery.DiscoverSkills()
	if err != nil {
		presenter.Error(err, "Failed to discover skills")
		os.Exit(1)
	}

	dbPath, err := indexDBPath()
	if err != nil {
		presenter.Error(err, "Failed to determine index database path")
		os.Exit(1)
	}

	store, err := index.NewStore(ctx, dbPath)
	if err != nil {
		presenter.Error(err, "Failed to open index database")
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Rebuild(ctx, skills); err != nil {
		presenter.Error(err, "Failed to rebuild index")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Indexed %d skill(s) into %s", len(skills), dbPath))
}
