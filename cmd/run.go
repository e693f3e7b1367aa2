package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bloomlab/internal/app"
)

// runSession loads configuration and launches the TUI session.
func runSession(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	return app.Run(cfg, log)
}
