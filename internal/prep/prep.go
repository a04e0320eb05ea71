// Package prep orchestrates the preparation pipeline: job-description
// analysis, resume analysis, and interview question generation. Each stage
// persists its inputs to the session store so later stages can reuse them.
package prep

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shenbi/jobprep/internal/api"
	"github.com/shenbi/jobprep/internal/intake"
	"github.com/shenbi/jobprep/internal/session"
)

// ErrNoResume is returned when question generation or resume analysis is
// requested before any resume has been submitted.
var ErrNoResume = errors.New("no resume submitted; run analyze-resume first")

// Analyzer is the subset of the remote client the pipeline needs.
type Analyzer interface {
	AnalyzeJobDescription(ctx context.Context, jd api.JobDescriptionPayload) (*api.JobAnalysis, error)
	AnalyzeResume(ctx context.Context, resume string, jd api.JobDescriptionPayload) (*api.ResumeAnalysis, error)
	GenerateQuestions(ctx context.Context, resume string, jd api.JobDescriptionPayload) ([]api.Question, error)
}

// Pipeline runs the preparation stages against the remote analyzer, storing
// stage inputs along the way. Stages are independently entrable: only the
// data dependencies below are enforced.
//
//	job description  -> none
//	resume analysis  -> resume file (stored job description optional)
//	questions        -> stored resume (stored job description optional)
type Pipeline struct {
	analyzer Analyzer
	store    *session.Store
}

func New(analyzer Analyzer, store *session.Store) *Pipeline {
	return &Pipeline{analyzer: analyzer, store: store}
}

// storedJD returns the captured job description, or an empty payload when
// none was stored. Only real store failures propagate.
func (p *Pipeline) storedJD() (api.JobDescriptionPayload, error) {
	jd, err := p.store.JobDescription()
	if errors.Is(err, session.ErrNotFound) {
		return api.JobDescriptionPayload{}, nil
	}
	if err != nil {
		return api.JobDescriptionPayload{}, fmt.Errorf("loading stored job description: %w", err)
	}
	return jd, nil
}

// AnalyzeJobDescription submits the job-description file at path and stores
// the raw payload for reuse by later stages. The payload is stored only
// after a successful analysis so a rejected submission never pollutes the
// session.
func (p *Pipeline) AnalyzeJobDescription(ctx context.Context, path string) (*api.JobAnalysis, error) {
	payload, err := intake.JobDescription(path)
	if err != nil {
		return nil, err
	}

	analysis, err := p.analyzer.AnalyzeJobDescription(ctx, payload)
	if err != nil {
		return nil, err
	}

	if err := p.store.PutJobDescription(payload); err != nil {
		return nil, fmt.Errorf("storing job description: %w", err)
	}
	return analysis, nil
}

// AnalyzeJobDescriptionText submits job-description text directly, without
// going through a file. Used by callers that already hold the text.
func (p *Pipeline) AnalyzeJobDescriptionText(ctx context.Context, text string) (*api.JobAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("job description text is empty")
	}
	payload := api.JobDescriptionPayload{JD: text}

	analysis, err := p.analyzer.AnalyzeJobDescription(ctx, payload)
	if err != nil {
		return nil, err
	}

	if err := p.store.PutJobDescription(payload); err != nil {
		return nil, fmt.Errorf("storing job description: %w", err)
	}
	return analysis, nil
}

// ResumeResult pairs the remote analysis with the local PDF preview.
type ResumeResult struct {
	Analysis *api.ResumeAnalysis
	Preview  string
}

// AnalyzeResume validates and submits the resume PDF at path, scoring it
// against the stored job description when one exists.
func (p *Pipeline) AnalyzeResume(ctx context.Context, path string) (*ResumeResult, error) {
	resume, preview, err := intake.Resume(path)
	if err != nil {
		return nil, err
	}

	jd, err := p.storedJD()
	if err != nil {
		return nil, err
	}

	analysis, err := p.analyzer.AnalyzeResume(ctx, resume, jd)
	if err != nil {
		return nil, err
	}

	artifact := session.ResumeArtifact{
		Resume:   resume,
		FileName: filepath.Base(path),
		Preview:  preview,
	}
	if err := p.store.PutResume(artifact); err != nil {
		return nil, fmt.Errorf("storing resume: %w", err)
	}
	return &ResumeResult{Analysis: analysis, Preview: preview}, nil
}

// GenerateQuestions produces a fresh interview question set from the stored
// resume and (optionally) job description, replacing any previous set. A
// missing resume fails fast without a network call.
func (p *Pipeline) GenerateQuestions(ctx context.Context) ([]api.Question, error) {
	resume, err := p.store.Resume()
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNoResume
	}
	if err != nil {
		return nil, fmt.Errorf("loading stored resume: %w", err)
	}

	jd, err := p.storedJD()
	if err != nil {
		return nil, err
	}

	questions, err := p.analyzer.GenerateQuestions(ctx, resume.Resume, jd)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errors.New("analysis service returned no questions")
	}

	if err := p.store.PutQuestions(questions); err != nil {
		return nil, fmt.Errorf("storing questions: %w", err)
	}
	return questions, nil
}
