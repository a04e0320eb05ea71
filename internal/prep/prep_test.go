package prep

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shenbi/jobprep/internal/api"
	"github.com/shenbi/jobprep/internal/session"
)

type fakeAnalyzer struct {
	jdAnalysis *api.JobAnalysis
	jdErr      error
	lastJD     api.JobDescriptionPayload

	resumeAnalysis *api.ResumeAnalysis
	resumeErr      error
	lastResume     string
	lastResumeJD   api.JobDescriptionPayload

	questions    []api.Question
	questionsErr error
	genCalls     int
}

func (a *fakeAnalyzer) AnalyzeJobDescription(ctx context.Context, jd api.JobDescriptionPayload) (*api.JobAnalysis, error) {
	a.lastJD = jd
	if a.jdErr != nil {
		return nil, a.jdErr
	}
	return a.jdAnalysis, nil
}

func (a *fakeAnalyzer) AnalyzeResume(ctx context.Context, resume string, jd api.JobDescriptionPayload) (*api.ResumeAnalysis, error) {
	a.lastResume = resume
	a.lastResumeJD = jd
	if a.resumeErr != nil {
		return nil, a.resumeErr
	}
	return a.resumeAnalysis, nil
}

func (a *fakeAnalyzer) GenerateQuestions(ctx context.Context, resume string, jd api.JobDescriptionPayload) ([]api.Question, error) {
	a.genCalls++
	a.lastResume = resume
	a.lastResumeJD = jd
	if a.questionsErr != nil {
		return nil, a.questionsErr
	}
	return a.questions, nil
}

func newPipeline(t *testing.T, analyzer *fakeAnalyzer) (*Pipeline, *session.Store) {
	t.Helper()
	store, err := session.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(analyzer, store), store
}

func writeJD(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jd.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing jd file: %v", err)
	}
	return path
}

func TestAnalyzeJobDescription_StoresPayload(t *testing.T) {
	analyzer := &fakeAnalyzer{jdAnalysis: &api.JobAnalysis{JobTitle: "Backend Engineer"}}
	p, store := newPipeline(t, analyzer)

	analysis, err := p.AnalyzeJobDescription(context.Background(), writeJD(t, "Go experience required"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.JobTitle != "Backend Engineer" {
		t.Errorf("jobTitle = %q, want the analyzer's result", analysis.JobTitle)
	}

	stored, err := store.JobDescription()
	if err != nil {
		t.Fatalf("stored jd missing: %v", err)
	}
	if stored.JD != "Go experience required" {
		t.Errorf("stored jd = %q, want the submitted text", stored.JD)
	}
}

func TestAnalyzeJobDescription_FailureKeepsStoreClean(t *testing.T) {
	analyzer := &fakeAnalyzer{jdErr: errors.New("boom")}
	p, store := newPipeline(t, analyzer)

	if _, err := p.AnalyzeJobDescription(context.Background(), writeJD(t, "text")); err == nil {
		t.Fatal("expected error")
	}
	if _, err := store.JobDescription(); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("store error = %v, want nothing stored after a failed analysis", err)
	}
}

func TestGenerateQuestions_RequiresResume(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	p, _ := newPipeline(t, analyzer)

	_, err := p.GenerateQuestions(context.Background())
	if !errors.Is(err, ErrNoResume) {
		t.Fatalf("error = %v, want ErrNoResume", err)
	}
	if analyzer.genCalls != 0 {
		t.Error("missing resume must fail before any network call")
	}
}

func TestGenerateQuestions_UsesStoredArtifacts(t *testing.T) {
	analyzer := &fakeAnalyzer{questions: []api.Question{{Question: "Why Go?"}}}
	p, store := newPipeline(t, analyzer)

	if err := store.PutResume(session.ResumeArtifact{Resume: "cGRm"}); err != nil {
		t.Fatalf("seeding resume: %v", err)
	}
	if err := store.PutJobDescription(api.JobDescriptionPayload{JD: "Go role"}); err != nil {
		t.Fatalf("seeding jd: %v", err)
	}

	questions, err := p.GenerateQuestions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 || questions[0].Question != "Why Go?" {
		t.Errorf("questions = %v, want the analyzer's set", questions)
	}
	if analyzer.lastResume != "cGRm" {
		t.Errorf("resume = %q, want the stored artifact", analyzer.lastResume)
	}
	if analyzer.lastResumeJD.JD != "Go role" {
		t.Errorf("jd = %q, want the stored job description", analyzer.lastResumeJD.JD)
	}

	stored, err := store.Questions()
	if err != nil {
		t.Fatalf("stored questions missing: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("stored %d questions, want 1", len(stored))
	}
}

func TestGenerateQuestions_JDOptional(t *testing.T) {
	analyzer := &fakeAnalyzer{questions: []api.Question{{Question: "q"}}}
	p, store := newPipeline(t, analyzer)

	if err := store.PutResume(session.ResumeArtifact{Resume: "cGRm"}); err != nil {
		t.Fatalf("seeding resume: %v", err)
	}

	if _, err := p.GenerateQuestions(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !analyzer.lastResumeJD.Empty() {
		t.Errorf("jd = %+v, want empty payload without a stored job description", analyzer.lastResumeJD)
	}
}

func TestGenerateQuestions_RegenerateReplaces(t *testing.T) {
	analyzer := &fakeAnalyzer{questions: []api.Question{{Question: "first"}}}
	p, store := newPipeline(t, analyzer)

	if err := store.PutResume(session.ResumeArtifact{Resume: "cGRm"}); err != nil {
		t.Fatalf("seeding resume: %v", err)
	}
	if _, err := p.GenerateQuestions(context.Background()); err != nil {
		t.Fatalf("first generation: %v", err)
	}

	analyzer.questions = []api.Question{{Question: "second"}, {Question: "third"}}
	if _, err := p.GenerateQuestions(context.Background()); err != nil {
		t.Fatalf("second generation: %v", err)
	}

	stored, err := store.Questions()
	if err != nil {
		t.Fatalf("stored questions missing: %v", err)
	}
	if len(stored) != 2 || stored[0].Question != "second" {
		t.Errorf("stored = %v, want the regenerated set only", stored)
	}
}

func TestGenerateQuestions_EmptySetIsError(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	p, store := newPipeline(t, analyzer)

	if err := store.PutResume(session.ResumeArtifact{Resume: "cGRm"}); err != nil {
		t.Fatalf("seeding resume: %v", err)
	}
	if _, err := p.GenerateQuestions(context.Background()); err == nil {
		t.Fatal("expected error for an empty question set")
	}
	if _, err := store.Questions(); !errors.Is(err, session.ErrNotFound) {
		t.Error("an empty set must not be stored")
	}
}
