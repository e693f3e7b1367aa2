// Package cmd defines the bloomlab command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bloomlab/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "bloomlab",
	Short: "Reading and questioning experiment session",
	Long: "BloomLab runs a single-participant reading experiment: passages, " +
		"question writing, AI-assisted revision suggestions, and full response logging.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BLOOMLAB_DB_PATH)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig parses the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, nil
}

// newLogger builds the process logger. The TUI owns the terminal, so
// diagnostics should normally go to a file via BLOOMLAB_LOG_PATH.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogPath != "" {
		zcfg.OutputPaths = []string{cfg.LogPath}
		zcfg.ErrorOutputPaths = []string{cfg.LogPath}
	}
	log, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}
