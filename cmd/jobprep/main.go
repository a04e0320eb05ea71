package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "jobprep",
	Short: "Job application preparation: analyze postings, score resumes, rehearse interviews",
	Long: `jobprep guides a job application from posting to interview.

Typical flow:
  jobprep analyze-jd posting.png       analyze a job description (image or text)
  jobprep analyze-resume resume.pdf    score your resume against it
  jobprep questions generate           build a tailored interview question set
  jobprep interview                    rehearse a voice interview with per-answer feedback

Progress is kept in a local session between commands; "jobprep session clear"
starts over. Run "jobprep stub" for a local stand-in of the analysis service.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(analyzeJDCmd)
	rootCmd.AddCommand(analyzeResumeCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(stubCmd)
	rootCmd.AddCommand(mcpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
