package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shenbi/jobprep/internal/api"
)

var analyzeResumeCmd = &cobra.Command{
	Use:   "analyze-resume <file.pdf>",
	Short: "Score a resume PDF, optionally against the captured job description",
	Long: `Score a resume PDF against the job description captured earlier in this
session. Without a captured job description the resume is evaluated on its
own. The resume is kept in the session for question generation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, store, err := newPipeline()
		if err != nil {
			return err
		}
		defer store.Close()

		printStep("Analyzing resume...")
		result, err := pipeline.AnalyzeResume(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if result.Preview != "" {
			printStatus("First page", "%s", result.Preview)
		}
		renderResumeAnalysis(result.Analysis)
		printSuccess("Resume captured for this session")
		return nil
	},
}

func renderResumeAnalysis(a *api.ResumeAnalysis) {
	printHeading("Match score: " + a.MatchScore.String())
	printList("Highlights", a.Highlights)
	printList("Improvements", a.Improvements)
	printList("Tailoring suggestions", a.TailoringSuggestions)
	fmt.Println()
}
