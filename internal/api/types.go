package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// JobDescriptionPayload carries a job description in exactly one of two
// transport encodings: plain text under "jd" or a base64 image under "jdImg".
type JobDescriptionPayload struct {
	JD    string `json:"jd,omitempty"`
	JDImg string `json:"jdImg,omitempty"`
}

// Empty reports whether neither encoding is present.
func (p JobDescriptionPayload) Empty() bool {
	return p.JD == "" && p.JDImg == ""
}

// JobAnalysis is the structured result of a job-description analysis.
type JobAnalysis struct {
	JobTitle               string                 `json:"jobTitle"`
	JobSummary             string                 `json:"jobSummary"`
	CompetencyAnalysis     CompetencyAnalysis     `json:"competencyAnalysis"`
	ResponsibilityAnalysis ResponsibilityAnalysis `json:"responsibilityAnalysis"`
	CompanyInsights        CompanyInsights        `json:"companyInsights"`
	ApplicationStrategy    ApplicationStrategy    `json:"applicationStrategy"`
}

type CompetencyAnalysis struct {
	HardSkills              []string `json:"hardSkills"`
	SoftSkills              []string `json:"softSkills"`
	PreferredQualifications []string `json:"preferredQualifications"`
	Keywords                []string `json:"keywords"`
}

type ResponsibilityAnalysis struct {
	CoreResponsibilities []string `json:"coreResponsibilities"`
	PotentialChallenges  string   `json:"potentialChallenges"`
}

type CompanyInsights struct {
	CultureClues       []string `json:"cultureClues"`
	BenefitsHighlights []string `json:"benefitsHighlights"`
}

type ApplicationStrategy struct {
	ResumeFocus        string   `json:"resumeFocus"`
	InterviewQuestions []string `json:"interviewQuestions"`
}

// ResumeAnalysis is the structured result of scoring a resume against a
// job description.
type ResumeAnalysis struct {
	MatchScore           Score    `json:"matchScore"`
	Highlights           []string `json:"highlights"`
	Improvements         []string `json:"improvements"`
	TailoringSuggestions []string `json:"tailoringSuggestions"`
}

// Question is one generated interview question with an optional reference
// answer.
type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

// TurnFeedback is the immutable record of one question/answer/evaluation
// triple within a mock interview.
type TurnFeedback struct {
	Question   string `json:"question"`
	Transcript string `json:"transcript"`
	Evaluation string `json:"evaluation"`
}

// Next-action types returned by the interact endpoint. Any unrecognized
// value concludes the interview.
const (
	NextActionFollowUp = "ASK_FOLLOW_UP"
	NextActionProceed  = "PROCEED_TO_NEXT"
)

type NextAction struct {
	Type     string        `json:"type"`
	Question *NextQuestion `json:"question,omitempty"`
}

type NextQuestion struct {
	Text string `json:"text"`
}

// InteractRequest is one submitted answer turn.
type InteractRequest struct {
	InterviewID  string `json:"interviewId"`
	Question     string `json:"question"`
	AnswerAudio  string `json:"answerAudio"`
	NextQuestion string `json:"nextQuestion,omitempty"`
}

// InteractResult is the evaluation of one turn plus the branch decision.
type InteractResult struct {
	Feedback   TurnFeedback `json:"feedback"`
	NextAction NextAction   `json:"nextAction"`
}

// EndRequest closes an interview session with the full local history.
type EndRequest struct {
	InterviewID      string         `json:"interviewId"`
	InterviewHistory []TurnFeedback `json:"interviewHistory"`
}

// FinalReport is the overall interview evaluation.
type FinalReport struct {
	OverallScore        Score          `json:"overallScore"`
	Summary             string         `json:"summary"`
	Strengths           []string       `json:"strengths"`
	AreasForImprovement []string       `json:"areasForImprovement"`
	DetailedFeedback    []TurnFeedback `json:"detailedFeedback"`
}

// Score is a numeric evaluation that may be unavailable. The backend
// serializes unavailable scores as the string "N/A"; locally synthesized
// degraded reports use the same representation.
type Score struct {
	Value int
	Valid bool
}

// ScoreOf returns an available score with the given value.
func ScoreOf(v int) Score {
	return Score{Value: v, Valid: true}
}

func (s Score) String() string {
	if !s.Valid {
		return "N/A"
	}
	return strconv.Itoa(s.Value)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte(`"N/A"`), nil
	}
	return []byte(strconv.Itoa(s.Value)), nil
}

func (s *Score) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = Score{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			*s = Score{}
			return nil
		}
		*s = Score{Value: v, Valid: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parsing score: %w", err)
	}
	*s = Score{Value: int(v), Valid: true}
	return nil
}
