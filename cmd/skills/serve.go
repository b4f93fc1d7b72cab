package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obie/skills/pkg/logger"
	"github.com/obie/skills/pkg/presenter"
	"github.com/obie/skills/pkg/server"
	"github.com/obie/skills/pkg/telemetry"
	"github.com/obie/skills/pkg/version"
)

type ServeConfig struct {
	Host string
	Port int
}

func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: "127.0.0.1",
		Port: 8432,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skill corpus over HTTP",
	Long: `Serve discovered skills as a JSON API and browsable HTML pages.

Examples:
  skills serve
  skills serve --host 0.0.0.0 --port 9000`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getServeConfigFromFlags(cmd)
		runServeCommand(cmd.Context(), config)
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host interface to bind")
	serveCmd.Flags().Int("port", defaults.Port, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()
	if host, err := cmd.Flags().GetString("host"); err == nil && host != "" {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil && port != 0 {
		config.Port = port
	}
	return config
}

// tracingConfigFromViper reads the tracing.* config keys
func tracingConfigFromViper() telemetry.Config {
	samplerRatio := viper.GetFloat64("tracing.sampler_ratio")
	if samplerRatio == 0 {
		samplerRatio = 0.1
	}

	return telemetry.Config{
		Enabled:        viper.GetBool("tracing.enabled"),
		ServiceName:    "skills",
		ServiceVersion: version.Get().Version,
		SamplerType:    viper.GetString("tracing.sampler"),
		SamplerRatio:   samplerRatio,
	}
}

func runServeCommand(ctx context.Context, config *ServeConfig) {
	shutdownTracer, err := telemetry.InitTracer(ctx, tracingConfigFromViper())
	if err != nil {
		logger.G(ctx).WithError(err).Warn("Failed to initialize tracing, continuing without it")
		shutdownTracer = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.G(ctx).WithError(err).Warn("Failed to shut down tracer")
		}
	}()

	discovery, err := newDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	srv, err := server.NewServer(discovery, &server.Config{
		Host: config.Host,
		Port: config.Port,
	})
	if err != nil {
		presenter.Error(err, "Failed to create server")
		os.Exit(1)
	}

	if err := srv.Start(ctx); err != nil {
		presenter.Error(err, "Server exited with error")
		os.Exit(1)
	}
}
