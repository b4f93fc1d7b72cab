package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/logger"
	"github.com/obie/skills/pkg/presenter"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up skills configuration",
	Long:  `Set up skills configuration with sensible defaults.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		override, _ := cmd.Flags().GetBool("override")

		presenter.Section("Skills Configuration Setup")

		configDir := filepath.Join(os.Getenv("HOME"), ".skills")
		err := os.MkdirAll(configDir, 0755)
		if err != nil {
			presenter.Error(err, "Failed to create config directory")
			logger.G(ctx).WithError(err).WithField("config_dir", configDir).Error("Config directory creation failed")
			return
		}
		logger.G(ctx).WithField("config_dir", configDir).Debug("Config directory created")

		configFile := filepath.Join(configDir, "config.yaml")

		if !override {
			if _, err := os.Stat(configFile); err == nil {
				presenter.Warning(fmt.Sprintf("Configuration file already exists at %s", configFile))
				presenter.Info("To overwrite, use the --override flag or remove the file and run 'skills init' again")
				return
			}
		}

		configContent := `log_level: info
log_format: text
skills:
    dirs: []
index:
    db_path: ""
tracing:
    enabled: false
    sampler: ratio
    sampler_ratio: 0.1
`

		err = os.WriteFile(configFile, []byte(configContent), 0644)
		if err != nil {
			presenter.Error(err, "Failed to write config file")
			logger.G(ctx).WithError(err).WithField("config_file", configFile).Error("Config file write failed")
			return
		}

		if override {
			presenter.Success(fmt.Sprintf("Configuration overwritten at %s", configFile))
		} else {
			presenter.Success(fmt.Sprintf("Configuration saved to %s", configFile))
		}
		presenter.Info("You can modify these settings at any time by editing the config file")

		presenter.Separator()
		presenter.Section("Getting Started")
		presenter.Info("  skills builtin install   # Install the builtin skill packs")
		presenter.Info("  skills list              # List installed skills")
		presenter.Info("  skills lint              # Lint installed skills")
		presenter.Info("  skills serve             # Browse skills over HTTP")
		presenter.Info("  skills mcp serve         # Serve skills to an MCP host")
		presenter.Info("  skills --help            # Show all available commands")

		logger.G(ctx).Info("Skills initialization completed successfully")
	},
}

func init() {
	initCmd.Flags().Bool("override", false, "Overwrite existing configuration file if it exists")
	rootCmd.AddCommand(initCmd)
}
