package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Route prefix of the remote analysis service.
const routePrefix = "/shenbi/recruit"

// ServiceError is a service-level failure: the HTTP exchange succeeded but
// the response envelope carried success=false.
type ServiceError struct {
	Msg string
}

func (e *ServiceError) Error() string {
	if e.Msg == "" {
		return "analysis service reported a failure"
	}
	return e.Msg
}

// StatusError is a transport-level failure: a non-success HTTP status. The
// body is kept verbatim for diagnosis.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis service returned %d: %s", e.StatusCode, e.Body)
}

// envelope is the JSON shape of every analysis service response.
type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	ErrorMsg string          `json:"errorMsg"`
}

// Client talks to the remote analysis service. All calls are POST with JSON
// bodies; none are retried automatically.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

func New(baseURL, userID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		userID:     userID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UserID returns the caller identifier sent with analysis requests.
func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+routePrefix+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analysis service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return &StatusError{StatusCode: resp.StatusCode, Body: fmt.Sprintf("(unreadable body: %v)", readErr)}
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success {
		return &ServiceError{Msg: env.ErrorMsg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

// AnalyzeJobDescription submits a job description for structured analysis.
func (c *Client) AnalyzeJobDescription(ctx context.Context, jd JobDescriptionPayload) (*JobAnalysis, error) {
	req := struct {
		JobDescriptionPayload
		UserID string `json:"userId"`
	}{JobDescriptionPayload: jd, UserID: c.userID}

	var result JobAnalysis
	if err := c.post(ctx, "/jdAnalysis", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeResume scores a base64-encoded resume PDF, optionally against a
// previously captured job description.
func (c *Client) AnalyzeResume(ctx context.Context, resume string, jd JobDescriptionPayload) (*ResumeAnalysis, error) {
	req := struct {
		Resume string `json:"resume"`
		JobDescriptionPayload
	}{Resume: resume, JobDescriptionPayload: jd}

	var result ResumeAnalysis
	if err := c.post(ctx, "/resumeAnalysis", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateQuestions produces an ordered interview question set from a
// resume and an optional job description.
func (c *Client) GenerateQuestions(ctx context.Context, resume string, jd JobDescriptionPayload) ([]Question, error) {
	req := struct {
		Resume string `json:"resume"`
		JobDescriptionPayload
		UserID string `json:"userId"`
	}{Resume: resume, JobDescriptionPayload: jd, UserID: c.userID}

	var result []Question
	if err := c.post(ctx, "/generateInterviewQuestions", req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Interact submits one recorded answer and returns the per-turn feedback
// plus the branch decision for the next turn.
func (c *Client) Interact(ctx context.Context, req InteractRequest) (*InteractResult, error) {
	var result InteractResult
	if err := c.post(ctx, "/interview/interact", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EndInterview closes an interview session and requests the final report.
func (c *Client) EndInterview(ctx context.Context, req EndRequest) (*FinalReport, error) {
	var result FinalReport
	if err := c.post(ctx, "/interview/end", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
