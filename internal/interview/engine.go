package interview

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shenbi/jobprep/internal/api"
)

// The interviewer's fixed opening question, asked before the generated set.
const selfIntroQuestion = "Please start with a brief self-introduction covering your work experience and key skills."

// State is the engine's single tagged state. Invalid combinations such as
// "recording while idle" are unrepresentable.
type State int

const (
	StateIdle State = iota
	StateActive
	StateRecording
	StateProcessing
	StateConcluded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateRecording:
		return "recording"
	case StateProcessing:
		return "processing"
	case StateConcluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// TurnOutcome is the branch decision after one submitted answer.
type TurnOutcome int

const (
	OutcomeNextQuestion TurnOutcome = iota
	OutcomeFollowUp
	OutcomeComplete
)

// TurnResult is what one completed turn yields for display.
type TurnResult struct {
	Feedback api.TurnFeedback
	Outcome  TurnOutcome
}

// Backend is the subset of the analysis client the engine needs.
type Backend interface {
	Interact(ctx context.Context, req api.InteractRequest) (*api.InteractResult, error)
	EndInterview(ctx context.Context, req api.EndRequest) (*api.FinalReport, error)
}

// Recorder captures one spoken answer at a time. Implementations must
// release the capture device on Stop and Abort, whichever is called.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
	Abort()
}

// Engine drives one mock interview: a sequence of recorded answer turns
// against a stateful remote session, accumulating per-turn feedback locally
// so a failed final-report call never loses captured history.
type Engine struct {
	backend      Backend
	recorder     Recorder
	maxFollowUps int

	state     State
	id        string
	questions []api.Question
	index     int
	followUps int
	feedback  []api.TurnFeedback
	report    *api.FinalReport
	degraded  bool
}

func NewEngine(backend Backend, recorder Recorder, maxFollowUps int) *Engine {
	return &Engine{
		backend:      backend,
		recorder:     recorder,
		maxFollowUps: maxFollowUps,
		state:        StateIdle,
	}
}

func (e *Engine) State() State { return e.state }

// InterviewID returns the session identifier, stable for one attempt.
func (e *Engine) InterviewID() string { return e.id }

// Questions returns a copy of the current question sequence.
func (e *Engine) Questions() []api.Question {
	out := make([]api.Question, len(e.questions))
	copy(out, e.questions)
	return out
}

// CurrentQuestion returns the question awaiting an answer.
func (e *Engine) CurrentQuestion() (api.Question, bool) {
	if e.index < 0 || e.index >= len(e.questions) {
		return api.Question{}, false
	}
	return e.questions[e.index], true
}

// Progress returns the 1-based current question number and the total.
func (e *Engine) Progress() (current, total int) {
	return e.index + 1, len(e.questions)
}

// Feedback returns a copy of the per-turn feedback captured so far.
func (e *Engine) Feedback() []api.TurnFeedback {
	out := make([]api.TurnFeedback, len(e.feedback))
	copy(out, e.feedback)
	return out
}

// Report returns the final report once Concluded, and whether it was
// synthesized locally after a failed end-interview call.
func (e *Engine) Report() (report *api.FinalReport, degraded bool) {
	return e.report, e.degraded
}

// Start begins a new interview attempt: seeds the question sequence from
// the generated set prefixed with the self-introduction question, mints a
// fresh session identifier, and resets the feedback cache.
func (e *Engine) Start(questions []api.Question) error {
	if e.state != StateIdle {
		return fmt.Errorf("cannot start interview in state %s", e.state)
	}
	if len(questions) == 0 {
		return errors.New("no interview questions available; generate questions first")
	}

	e.questions = make([]api.Question, 0, len(questions)+1)
	e.questions = append(e.questions, api.Question{Question: selfIntroQuestion})
	e.questions = append(e.questions, questions...)
	e.id = uuid.New().String()
	e.index = 0
	e.followUps = 0
	e.feedback = nil
	e.report = nil
	e.degraded = false
	e.state = StateActive
	return nil
}

// BeginRecording acquires the microphone and starts buffering an answer.
// On acquisition failure the engine stays Active so the user can retry.
func (e *Engine) BeginRecording(ctx context.Context) error {
	if e.state != StateActive {
		return fmt.Errorf("cannot record in state %s", e.state)
	}
	if err := e.recorder.Start(ctx); err != nil {
		return fmt.Errorf("starting recording: %w", err)
	}
	e.state = StateRecording
	return nil
}

// CancelRecording discards the in-progress recording and releases the
// microphone without submitting anything.
func (e *Engine) CancelRecording() {
	if e.state != StateRecording {
		return
	}
	e.recorder.Abort()
	e.state = StateActive
}

// EndRecording stops capture, releases the microphone, and submits the
// buffered audio as the answer to the current question. On any failure the
// engine returns to Active with the same question so the user can retry.
func (e *Engine) EndRecording(ctx context.Context) (*TurnResult, error) {
	if e.state != StateRecording {
		return nil, fmt.Errorf("cannot stop recording in state %s", e.state)
	}
	e.state = StateProcessing

	audio, err := e.recorder.Stop()
	if err != nil {
		e.state = StateActive
		return nil, fmt.Errorf("stopping recording: %w", err)
	}

	result, err := e.submitAnswer(ctx, audio)
	if err != nil {
		e.state = StateActive
		return nil, err
	}
	e.state = StateActive
	return result, nil
}

func (e *Engine) submitAnswer(ctx context.Context, audio []byte) (*TurnResult, error) {
	current, ok := e.CurrentQuestion()
	if !ok {
		return nil, errors.New("no current question")
	}

	req := api.InteractRequest{
		InterviewID: e.id,
		Question:    current.Question,
		AnswerAudio: base64.StdEncoding.EncodeToString(audio),
	}
	if e.index+1 < len(e.questions) {
		req.NextQuestion = e.questions[e.index+1].Question
	}

	result, err := e.backend.Interact(ctx, req)
	if err != nil {
		return nil, err
	}

	// Appended exactly once per submitted answer, in submission order.
	e.feedback = append(e.feedback, result.Feedback)

	outcome := e.branch(result.NextAction)
	switch outcome {
	case OutcomeFollowUp:
		followUp := api.Question{Question: result.NextAction.Question.Text}
		rest := append([]api.Question{followUp}, e.questions[e.index+1:]...)
		e.questions = append(e.questions[:e.index+1], rest...)
		e.followUps++
		e.index++
	case OutcomeNextQuestion:
		e.index++
	}

	return &TurnResult{Feedback: result.Feedback, Outcome: outcome}, nil
}

// branch maps the server's next-action onto a turn outcome. Follow-ups
// beyond the configured cap, or without question text, degrade to a plain
// advance; anything unrecognized concludes the interview.
func (e *Engine) branch(action api.NextAction) TurnOutcome {
	switch action.Type {
	case api.NextActionFollowUp:
		if action.Question != nil && action.Question.Text != "" && e.followUps < e.maxFollowUps {
			return OutcomeFollowUp
		}
		fallthrough
	case api.NextActionProceed:
		if e.index+1 < len(e.questions) {
			return OutcomeNextQuestion
		}
		return OutcomeComplete
	default:
		return OutcomeComplete
	}
}

// End closes the interview and produces the final report. If the remote
// call fails but per-turn feedback was captured, a degraded report is
// synthesized locally so no history is lost; with no feedback the engine
// stays Active and surfaces the error.
func (e *Engine) End(ctx context.Context) (*api.FinalReport, error) {
	if e.state != StateActive {
		return nil, fmt.Errorf("cannot end interview in state %s", e.state)
	}
	e.state = StateProcessing

	report, err := e.backend.EndInterview(ctx, api.EndRequest{
		InterviewID:      e.id,
		InterviewHistory: e.Feedback(),
	})
	if err != nil {
		if len(e.feedback) == 0 {
			e.state = StateActive
			return nil, fmt.Errorf("ending interview: %w", err)
		}
		e.report = e.degradedReport()
		e.degraded = true
		e.state = StateConcluded
		return e.report, nil
	}

	e.report = report
	e.degraded = false
	e.state = StateConcluded
	return e.report, nil
}

func (e *Engine) degradedReport() *api.FinalReport {
	return &api.FinalReport{
		OverallScore:        api.Score{},
		Summary:             "The evaluation service was unavailable; showing the feedback captured during the interview.",
		Strengths:           []string{},
		AreasForImprovement: []string{},
		DetailedFeedback:    e.Feedback(),
	}
}

// Restart discards the concluded attempt and returns to Idle. The question
// set is not regenerated; a fresh Start mints a new session identifier.
func (e *Engine) Restart() error {
	if e.state != StateConcluded {
		return fmt.Errorf("cannot restart in state %s", e.state)
	}
	e.state = StateIdle
	e.id = ""
	e.questions = nil
	e.index = 0
	e.followUps = 0
	e.feedback = nil
	e.report = nil
	e.degraded = false
	return nil
}
