package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/obie/skills/pkg/logger"
	"github.com/obie/skills/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage, lint, and serve agent skill packs",
	Long: `skills is a toolkit for agent skill packs: directories containing a
SKILL.md manifest with YAML frontmatter plus optional reference documents.

It discovers installed skills, lints them, keeps a search index, and can
serve the corpus over HTTP or the Model Context Protocol.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			presenter.Warning("Invalid log level, using 'info'")
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func init() {
	viper.SetEnvPrefix("SKILLS")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skills")
	viper.AddConfigPath(".")

	// Config file is optional
	_ = viper.ReadInConfig()
}

// bindPersistentFlags binds global flags to viper keys
func bindPersistentFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.Bool("quiet", false, "Suppress non-essential output")

	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("quiet", flags.Lookup("quiet"))
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	bindPersistentFlags(rootCmd.PersistentFlags())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
