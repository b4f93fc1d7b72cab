package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/index"
	"github.com/obie/skills/pkg/presenter"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the skill index",
	Long: `Search indexed skills by name and description. Run 'skills sync'
first to build or refresh the index.

Examples:
  skills search oauth
  skills search "controller"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSearchCommand(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearchCommand(cmd *cobra.Command, query string) {
	ctx := cmd.Context()

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

	entries, err := store.Search(ctx, query)
	if err != nil {
		presenter.Error(err, "Search failed")
		os.Exit(1)
	}

	if len(entries) == 0 {
		presenter.Info(fmt.Sprintf("No skills matched '%s' (run 'skills sync' to refresh the index)", query))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIRECTORY\tDESCRIPTION")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Name, entry.Directory, truncateDescription(entry.Description, 60))
	}
	w.Flush()
}
