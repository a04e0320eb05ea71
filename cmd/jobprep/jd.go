package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shenbi/jobprep/internal/api"
)

var analyzeJDCmd = &cobra.Command{
	Use:   "analyze-jd <file>",
	Short: "Analyze a job description from an image or text file",
	Long: `Analyze a job description from an image or text file.

Screenshots of postings (png, jpg) are sent as images; txt and md files are
sent as plain text. The submission is kept in the session so later stages
can score your resume and generate questions against it.

Examples:
  jobprep analyze-jd posting.png
  jobprep analyze-jd posting.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, store, err := newPipeline()
		if err != nil {
			return err
		}
		defer store.Close()

		printStep("Analyzing job description...")
		analysis, err := pipeline.AnalyzeJobDescription(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		renderJobAnalysis(analysis)
		printSuccess("Job description captured for this session")
		return nil
	},
}

func renderJobAnalysis(a *api.JobAnalysis) {
	printHeading(a.JobTitle)
	if a.JobSummary != "" {
		fmt.Printf("  %s\n", a.JobSummary)
	}

	printList("Hard skills", a.CompetencyAnalysis.HardSkills)
	printList("Soft skills", a.CompetencyAnalysis.SoftSkills)
	printList("Preferred qualifications", a.CompetencyAnalysis.PreferredQualifications)
	printList("Keywords", a.CompetencyAnalysis.Keywords)

	printList("Core responsibilities", a.ResponsibilityAnalysis.CoreResponsibilities)
	if a.ResponsibilityAnalysis.PotentialChallenges != "" {
		printHeading("Potential challenges")
		fmt.Printf("  %s\n", a.ResponsibilityAnalysis.PotentialChallenges)
	}

	printList("Culture clues", a.CompanyInsights.CultureClues)
	printList("Benefits highlights", a.CompanyInsights.BenefitsHighlights)

	if a.ApplicationStrategy.ResumeFocus != "" {
		printHeading("Resume focus")
		fmt.Printf("  %s\n", a.ApplicationStrategy.ResumeFocus)
	}
	printList("Likely interview questions", a.ApplicationStrategy.InterviewQuestions)
}
