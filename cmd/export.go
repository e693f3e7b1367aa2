package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bloomlab/internal/app"
	"bloomlab/internal/store"
)

// exportCmd re-exports a stored run's CSVs, for when the session-end export
// failed or the files were lost.
var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Re-export a run's CSV files from the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		runID := args[0]
		run, err := st.GetRun(runID)
		if err != nil {
			return err
		}

		exporter := app.NewExporter(cfg.ExportDir, log)

		practice, err := st.TrialsForRun(runID, "practice")
		if err != nil {
			return err
		}
		if path := exporter.Trials("practice_results", run.ParticipantID, practice); path != "" {
			fmt.Println(path)
		}

		mainRecs, err := st.TrialsForRun(runID, "main")
		if err != nil {
			return err
		}
		if path := exporter.Trials("final_results", run.ParticipantID, mainRecs); path != "" {
			fmt.Println(path)
		}

		events, err := st.EventsForRun(runID)
		if err != nil {
			return err
		}
		if len(events) > 0 {
			if path := exporter.Events(run.ParticipantID, events); path != "" {
				fmt.Println(path)
			}
		}
		return nil
	},
}
