package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/shenbi/jobprep/internal/api"
	"github.com/shenbi/jobprep/internal/prep"
	"github.com/shenbi/jobprep/internal/session"
)

type fakeAnalyzer struct {
	analysis  *api.JobAnalysis
	questions []api.Question
}

func (a *fakeAnalyzer) AnalyzeJobDescription(_ context.Context, _ api.JobDescriptionPayload) (*api.JobAnalysis, error) {
	return a.analysis, nil
}

func (a *fakeAnalyzer) AnalyzeResume(_ context.Context, _ string, _ api.JobDescriptionPayload) (*api.ResumeAnalysis, error) {
	return &api.ResumeAnalysis{MatchScore: api.ScoreOf(70)}, nil
}

func (a *fakeAnalyzer) GenerateQuestions(_ context.Context, _ string, _ api.JobDescriptionPayload) ([]api.Question, error) {
	return a.questions, nil
}

func newTestDeps(t *testing.T) (Deps, *session.Store) {
	t.Helper()
	store, err := session.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	analyzer := &fakeAnalyzer{
		analysis:  &api.JobAnalysis{JobTitle: "Backend Engineer"},
		questions: []api.Question{{Question: "Why Go?"}},
	}
	return Deps{Pipeline: prep.New(analyzer, store), Store: store}, store
}

func toolText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcpgo.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestAnalyzeJobDescriptionTool(t *testing.T) {
	deps, store := newTestDeps(t)
	handler := mcpAnalyzeJobDescription(deps)

	result, err := handler(context.Background(), makeCallToolRequest("analyze_job_description", map[string]any{
		"text": "Senior Backend Engineer, Go required",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}

	var analysis api.JobAnalysis
	if err := json.Unmarshal([]byte(toolText(t, result)), &analysis); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if analysis.JobTitle != "Backend Engineer" {
		t.Errorf("jobTitle = %q", analysis.JobTitle)
	}

	// The submission must be captured in the session.
	if _, err := store.JobDescription(); err != nil {
		t.Errorf("job description not stored: %v", err)
	}
}

func TestAnalyzeJobDescriptionTool_MissingText(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := mcpAnalyzeJobDescription(deps)

	result, err := handler(context.Background(), makeCallToolRequest("analyze_job_description", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for missing text")
	}
}

func TestGenerateQuestionsTool_RequiresResume(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := mcpGenerateQuestions(deps)

	result, err := handler(context.Background(), makeCallToolRequest("generate_questions", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error without a stored resume")
	}
	if !strings.Contains(toolText(t, result), "resume") {
		t.Errorf("error text %q should mention the missing resume", toolText(t, result))
	}
}

func TestGenerateQuestionsTool(t *testing.T) {
	deps, store := newTestDeps(t)
	if err := store.PutResume(session.ResumeArtifact{Resume: "cGRm"}); err != nil {
		t.Fatalf("seeding resume: %v", err)
	}

	result, err := mcpGenerateQuestions(deps)(context.Background(), makeCallToolRequest("generate_questions", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}

	var questions []api.Question
	if err := json.Unmarshal([]byte(toolText(t, result)), &questions); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(questions) != 1 || questions[0].Question != "Why Go?" {
		t.Errorf("questions = %v", questions)
	}
}

func TestStagesResource(t *testing.T) {
	deps, store := newTestDeps(t)
	if err := store.PutJobDescription(api.JobDescriptionPayload{JD: "text"}); err != nil {
		t.Fatalf("seeding jd: %v", err)
	}

	contents, err := mcpResourceStages(deps)(context.Background(), mcpgo.ReadResourceRequest{
		Params: mcpgo.ReadResourceParams{URI: "session://stages"},
	})
	if err != nil {
		t.Fatalf("resource error: %v", err)
	}
	text := contents[0].(mcpgo.TextResourceContents).Text

	var entries []map[string]string
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		t.Fatalf("resource is not JSON: %v", err)
	}
	if len(entries) != 1 || entries[0]["stage"] != string(session.StageJobDescription) {
		t.Errorf("entries = %v", entries)
	}
}

func TestQuestionsResource_EmptySession(t *testing.T) {
	deps, _ := newTestDeps(t)

	contents, err := mcpResourceQuestions(deps)(context.Background(), mcpgo.ReadResourceRequest{
		Params: mcpgo.ReadResourceParams{URI: "session://questions"},
	})
	if err != nil {
		t.Fatalf("resource error: %v", err)
	}
	if text := contents[0].(mcpgo.TextResourceContents).Text; text != "[]" {
		t.Errorf("text = %q, want empty JSON array", text)
	}
}
