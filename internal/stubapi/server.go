// Package stubapi is a local stand-in for the remote analysis service. It
// speaks the same envelope protocol with canned results so the full
// preparation flow can be exercised offline.
package stubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/shenbi/jobprep/internal/api"
)

const maxBodySize = 32 << 20 // resumes and JD images arrive base64-encoded

// followUpTurn is the answer turn (1-based, per interview) that triggers a
// follow-up question, so clients can exercise the insertion branch.
const followUpTurn = 2

type Server struct {
	mu    sync.Mutex
	turns map[string]int // interviewID -> submitted answer count
}

func NewServer() *Server {
	return &Server{turns: make(map[string]int)}
}

// Handler returns the HTTP handler serving the analysis routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/shenbi/recruit", func(r chi.Router) {
		r.Post("/jdAnalysis", s.handleJDAnalysis)
		r.Post("/resumeAnalysis", s.handleResumeAnalysis)
		r.Post("/generateInterviewQuestions", s.handleGenerateQuestions)
		r.Post("/interview/interact", s.handleInteract)
		r.Post("/interview/end", s.handleEnd)
	})
	return r
}

// Run serves the stub on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("stub analysis service listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeFailure(w, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func writeSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeFailure(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":  false,
		"errorMsg": msg,
	})
}

func (s *Server) handleJDAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		api.JobDescriptionPayload
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Empty() {
		writeFailure(w, "either jd or jdImg is required")
		return
	}
	slog.Info("jd analysis", "user", req.UserID, "image", req.JDImg != "")

	writeSuccess(w, api.JobAnalysis{
		JobTitle:   "Senior Backend Engineer",
		JobSummary: "Design and operate distributed services in Go for a high-traffic platform.",
		CompetencyAnalysis: api.CompetencyAnalysis{
			HardSkills:              []string{"Go", "PostgreSQL", "Kubernetes", "gRPC"},
			SoftSkills:              []string{"Cross-team communication", "Mentoring"},
			PreferredQualifications: []string{"Experience running services at scale"},
			Keywords:                []string{"microservices", "observability", "CI/CD"},
		},
		ResponsibilityAnalysis: api.ResponsibilityAnalysis{
			CoreResponsibilities: []string{
				"Own backend services end to end",
				"Drive reliability and performance work",
			},
			PotentialChallenges: "Legacy service migration under load.",
		},
		CompanyInsights: api.CompanyInsights{
			CultureClues:       []string{"Values written design docs"},
			BenefitsHighlights: []string{"Remote friendly"},
		},
		ApplicationStrategy: api.ApplicationStrategy{
			ResumeFocus: "Quantify the scale and reliability of systems you owned.",
			InterviewQuestions: []string{
				"How would you approach migrating a legacy service?",
			},
		},
	})
}

func (s *Server) handleResumeAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Resume string `json:"resume"`
		api.JobDescriptionPayload
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Resume == "" {
		writeFailure(w, "resume is required")
		return
	}
	slog.Info("resume analysis", "with_jd", !req.Empty())

	writeSuccess(w, api.ResumeAnalysis{
		MatchScore: api.ScoreOf(78),
		Highlights: []string{
			"Strong Go and distributed-systems background",
			"Clear ownership of production services",
		},
		Improvements: []string{
			"Add measurable outcomes to each role",
		},
		TailoringSuggestions: []string{
			"Mirror the posting's keywords in your skills section",
		},
	})
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Resume string `json:"resume"`
		api.JobDescriptionPayload
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Resume == "" {
		writeFailure(w, "resume is required")
		return
	}
	slog.Info("question generation", "user", req.UserID)

	writeSuccess(w, []api.Question{
		{
			Question: "Walk me through the most complex system you have designed.",
			Answer:   "Cover the problem, the constraints, the trade-offs you made, and the outcome.",
		},
		{
			Question: "Tell me about a production incident you handled.",
			Answer:   "Describe detection, mitigation, root cause, and the follow-up that prevented recurrence.",
		},
		{
			Question: "How do you approach code review disagreements?",
			Answer:   "Show that you separate style preferences from correctness and escalate with data.",
		},
	})
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	var req api.InteractRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.InterviewID == "" {
		writeFailure(w, "interviewId is required")
		return
	}
	if req.AnswerAudio == "" {
		writeFailure(w, "answerAudio is required")
		return
	}

	s.mu.Lock()
	s.turns[req.InterviewID]++
	turn := s.turns[req.InterviewID]
	s.mu.Unlock()
	slog.Info("interact", "interview", req.InterviewID, "turn", turn)

	result := api.InteractResult{
		Feedback: api.TurnFeedback{
			Question:   req.Question,
			Transcript: "(transcribed answer)",
			Evaluation: "Solid structure. Tighten the opening and quantify the impact.",
		},
		NextAction: api.NextAction{Type: api.NextActionProceed},
	}
	if turn == followUpTurn {
		result.NextAction = api.NextAction{
			Type:     api.NextActionFollowUp,
			Question: &api.NextQuestion{Text: "Can you go deeper on the trade-offs you just mentioned?"},
		}
	}
	writeSuccess(w, result)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req api.EndRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.InterviewID == "" {
		writeFailure(w, "interviewId is required")
		return
	}

	s.mu.Lock()
	turns := s.turns[req.InterviewID]
	delete(s.turns, req.InterviewID)
	s.mu.Unlock()
	slog.Info("interview ended", "interview", req.InterviewID, "turns", turns)

	writeSuccess(w, api.FinalReport{
		OverallScore: api.ScoreOf(80),
		Summary:      "Confident delivery with concrete examples. Answers would land better with sharper quantification.",
		Strengths: []string{
			"Concrete, first-person examples",
			"Calm handling of follow-up probing",
		},
		AreasForImprovement: []string{
			"Lead with the result before the narrative",
		},
		DetailedFeedback: req.InterviewHistory,
	})
}
