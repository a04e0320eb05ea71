package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shenbi/jobprep/internal/api"
	"github.com/shenbi/jobprep/internal/interview"
	"github.com/shenbi/jobprep/internal/session"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Rehearse a voice interview with per-answer feedback",
	Long: `Rehearse a voice interview over the question set generated in this
session. Each answer is recorded from the microphone, evaluated remotely,
and answered with immediate feedback; the interviewer may probe deeper with
follow-up questions. Ending the interview produces an overall report.

Recording uses an external capture command (sox by default); configure it
with the audio.record_command config key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return runInterview(output)
	},
}

func init() {
	interviewCmd.Flags().String("output", "", "write the final report as JSON to this file")
}

func runInterview(output string) error {
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
	if errors.Is(err, session.ErrNotFound) {
		printWarning("No question set in this session; run \"jobprep questions generate\" first.")
		return errors.New("no interview questions available")
	}
	if err != nil {
		return fmt.Errorf("loading questions: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder := interview.NewExecRecorder(cfg.Audio.RecordCommand)
	eng := interview.NewEngine(newClient(cfg), recorder, cfg.Interview.MaxFollowUps)
	if err := eng.Start(questions); err != nil {
		return err
	}

	fmt.Println("Interview started. Answer each question out loud; you will get")
	fmt.Println("feedback after every answer. Press Ctrl+C or type q to finish early.")

	stdin := bufio.NewReader(os.Stdin)
	if err := interviewLoop(ctx, eng, stdin); err != nil {
		return err
	}

	printStep("Requesting final evaluation...")
	report, err := eng.End(ctx)
	if err != nil {
		return err
	}
	if _, degraded := eng.Report(); degraded {
		printWarning("The evaluation service was unavailable; the report below is assembled from per-answer feedback.")
	}

	renderReport(report)

	if output != "" {
		if err := writeReport(output, report); err != nil {
			return err
		}
		printSuccess("Report written to %s", output)
	}
	return nil
}

// interviewLoop runs answer turns until the question sequence is exhausted,
// the user quits, or the context is cancelled.
func interviewLoop(ctx context.Context, eng *interview.Engine, stdin *bufio.Reader) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		question, ok := eng.CurrentQuestion()
		if !ok {
			return nil
		}

		current, total := eng.Progress()
		fmt.Printf("\n%s %s\n", colorize(colorBold, fmt.Sprintf("Question %d/%d:", current, total)), question.Question)
		fmt.Print("[Enter] record answer, [q] finish: ")

		cmd, err := readLine(ctx, stdin)
		if err != nil {
			return nil
		}
		if cmd == "q" {
			return nil
		}

		if err := eng.BeginRecording(ctx); err != nil {
			printError("%v", err)
			continue
		}

		fmt.Print(colorize(colorRed, "● recording") + "  [Enter] stop and submit, [c] discard: ")
		cmd, err = readLine(ctx, stdin)
		if err != nil || cmd == "c" {
			eng.CancelRecording()
			if err != nil {
				return nil
			}
			continue
		}

		printStep("Evaluating answer...")
		result, err := eng.EndRecording(ctx)
		if err != nil {
			printError("%v", err)
			printStep("The question is still open; record it again.")
			continue
		}

		renderTurn(result)
		if result.Outcome == interview.OutcomeComplete {
			return nil
		}
	}
}

// readLine reads one trimmed line from stdin, aborting when ctx is
// cancelled mid-read.
func readLine(ctx context.Context, stdin *bufio.Reader) (string, error) {
	type lineResult struct {
		text string
		err  error
	}
	ch := make(chan lineResult, 1)
	go func() {
		text, err := stdin.ReadString('\n')
		ch <- lineResult{strings.TrimSpace(text), err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.text, r.err
	}
}

func renderTurn(result *interview.TurnResult) {
	if result.Feedback.Transcript != "" {
		printStatus("You said", "%s", result.Feedback.Transcript)
	}
	if result.Feedback.Evaluation != "" {
		printStatus("Feedback", "%s", result.Feedback.Evaluation)
	}
	if result.Outcome == interview.OutcomeFollowUp {
		printStep("The interviewer wants to dig deeper...")
	}
}

func renderReport(report *api.FinalReport) {
	printHeading("Interview report")
	printStatus("Overall score", "%s", report.OverallScore.String())
	if report.Summary != "" {
		fmt.Printf("  %s\n", report.Summary)
	}
	printList("Strengths", report.Strengths)
	printList("Areas for improvement", report.AreasForImprovement)

	if len(report.DetailedFeedback) > 0 {
		printHeading("Per-answer feedback")
		for i, fb := range report.DetailedFeedback {
			fmt.Printf("\n%s %s\n", colorize(colorCyan, fmt.Sprintf("%d.", i+1)), fb.Question)
			if fb.Transcript != "" {
				fmt.Printf("   You said: %s\n", fb.Transcript)
			}
			if fb.Evaluation != "" {
				fmt.Printf("   %s\n", fb.Evaluation)
			}
		}
	}
	fmt.Println()
}

func writeReport(path string, report *api.FinalReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
