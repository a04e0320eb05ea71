package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shenbi/jobprep/internal/api"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate and inspect interview questions",
}

var questionsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored interview question set",
	Long: `Generate interview questions from the resume captured in this session,
tailored to the captured job description when one exists. Running it again
replaces the previous set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, store, err := newPipeline()
		if err != nil {
			return err
		}
		defer store.Close()

		printStep("Generating interview questions...")
		questions, err := pipeline.GenerateQuestions(cmd.Context())
		if err != nil {
			return err
		}

		renderQuestions(questions, false)
		printSuccess("Generated %d questions; run \"jobprep interview\" to rehearse", len(questions))
		return nil
	},
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current question set",
	RunE: func(cmd *cobra.Command, args []string) error {
		withAnswers, _ := cmd.Flags().GetBool("answers")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		questions, err := store.Questions()
		if err != nil {
			printWarning("No question set in this session; run \"jobprep questions generate\" first.")
			return nil
		}

		renderQuestions(questions, withAnswers)
		return nil
	},
}

func renderQuestions(questions []api.Question, withAnswers bool) {
	for i, q := range questions {
		fmt.Printf("\n%s %s\n", colorize(colorCyan, fmt.Sprintf("%d.", i+1)), q.Question)
		if withAnswers && q.Answer != "" {
			fmt.Printf("   %s %s\n", colorize(colorBold, "Reference:"), q.Answer)
		}
	}
	fmt.Println()
}

func init() {
	questionsListCmd.Flags().Bool("answers", false, "include reference answers")
	questionsCmd.AddCommand(questionsGenerateCmd)
	questionsCmd.AddCommand(questionsListCmd)
}
