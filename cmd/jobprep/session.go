package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shenbi/jobprep/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the preparation session",
}

var stageLabels = map[session.Stage]string{
	session.StageJobDescription: "Job description",
	session.StageResume:         "Resume",
	session.StageQuestions:      "Interview questions",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which stages have captured data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		infos, err := store.Stages()
		if err != nil {
			return fmt.Errorf("listing session stages: %w", err)
		}
		if len(infos) == 0 {
			fmt.Println("Session is empty. Start with \"jobprep analyze-jd\" or \"jobprep analyze-resume\".")
			return nil
		}

		for _, info := range infos {
			label := stageLabels[info.Stage]
			if label == "" {
				label = string(info.Stage)
			}
			printStatus(label, "captured %s", info.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard all captured session data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		printSuccess("Session cleared")
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}
