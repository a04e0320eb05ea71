package stubapi

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shenbi/jobprep/internal/api"
)

// The stub must remain interchangeable with the real service, so every test
// talks to it through the production client.
func newStubClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(NewServer().Handler())
	t.Cleanup(srv.Close)
	return api.New(srv.URL, "test-user", 5*time.Second)
}

func TestJDAnalysis(t *testing.T) {
	client := newStubClient(t)

	analysis, err := client.AnalyzeJobDescription(context.Background(), api.JobDescriptionPayload{JD: "posting text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.JobTitle == "" {
		t.Error("analysis should carry a job title")
	}
	if len(analysis.CompetencyAnalysis.HardSkills) == 0 {
		t.Error("analysis should carry hard skills")
	}
}

func TestJDAnalysis_EmptyPayloadFails(t *testing.T) {
	client := newStubClient(t)

	_, err := client.AnalyzeJobDescription(context.Background(), api.JobDescriptionPayload{})
	var serviceErr *api.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("error = %v, want a service-level failure", err)
	}
}

func TestResumeAnalysis(t *testing.T) {
	client := newStubClient(t)

	analysis, err := client.AnalyzeResume(context.Background(), "cGRm", api.JobDescriptionPayload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !analysis.MatchScore.Valid {
		t.Error("stub should return an available match score")
	}
}

func TestGenerateQuestions(t *testing.T) {
	client := newStubClient(t)

	questions, err := client.GenerateQuestions(context.Background(), "cGRm", api.JobDescriptionPayload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) == 0 {
		t.Fatal("stub should return questions")
	}
	for i, q := range questions {
		if q.Question == "" {
			t.Errorf("question %d has no text", i)
		}
	}
}

func TestInteract_FollowUpOnSecondTurn(t *testing.T) {
	client := newStubClient(t)

	submit := func(id string) *api.InteractResult {
		t.Helper()
		result, err := client.Interact(context.Background(), api.InteractRequest{
			InterviewID: id,
			Question:    "q",
			AnswerAudio: "YXVkaW8=",
		})
		if err != nil {
			t.Fatalf("interact error: %v", err)
		}
		return result
	}

	first := submit("iv-1")
	if first.NextAction.Type != api.NextActionProceed {
		t.Errorf("turn 1 action = %q, want proceed", first.NextAction.Type)
	}
	second := submit("iv-1")
	if second.NextAction.Type != api.NextActionFollowUp {
		t.Errorf("turn 2 action = %q, want follow-up", second.NextAction.Type)
	}
	if second.NextAction.Question == nil || second.NextAction.Question.Text == "" {
		t.Error("follow-up must carry question text")
	}

	// Turn counts are per interview.
	other := submit("iv-2")
	if other.NextAction.Type != api.NextActionProceed {
		t.Errorf("other interview turn 1 action = %q, want proceed", other.NextAction.Type)
	}
}

func TestInteract_MissingAudioFails(t *testing.T) {
	client := newStubClient(t)

	_, err := client.Interact(context.Background(), api.InteractRequest{InterviewID: "iv-1", Question: "q"})
	var serviceErr *api.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("error = %v, want a service-level failure", err)
	}
}

func TestEnd_EchoesHistory(t *testing.T) {
	client := newStubClient(t)

	history := []api.TurnFeedback{
		{Question: "q1", Transcript: "t1", Evaluation: "e1"},
		{Question: "q2", Transcript: "t2", Evaluation: "e2"},
	}
	report, err := client.EndInterview(context.Background(), api.EndRequest{
		InterviewID:      "iv-1",
		InterviewHistory: history,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.OverallScore.Valid {
		t.Error("stub report should carry an available score")
	}
	if len(report.DetailedFeedback) != 2 {
		t.Errorf("detailedFeedback length = %d, want the submitted history", len(report.DetailedFeedback))
	}
}
