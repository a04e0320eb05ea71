// Package mcp exposes the preparation pipeline to MCP clients over stdio,
// so assistants can run the analysis stages and read session state.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shenbi/jobprep/internal/prep"
	"github.com/shenbi/jobprep/internal/session"
)

// Deps holds dependencies for the MCP server.
type Deps struct {
	Pipeline *prep.Pipeline
	Store    *session.Store
}

// NewServer creates an MCP server with all jobprep tools and resources
// registered.
func NewServer(deps Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"jobprep",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("jobprep — job application preparation: job-description analysis, resume scoring, and interview question generation."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("analyze_job_description",
			mcp.WithDescription("Analyze job description text into skills, responsibilities, company insights, and application strategy. The description is kept in the session for later stages."),
			mcp.WithString("text", mcp.Description("Full job description text"), mcp.Required()),
		),
		mcpAnalyzeJobDescription(deps),
	)

	s.AddTool(
		mcp.NewTool("analyze_resume",
			mcp.WithDescription("Score a resume PDF, against the session's job description when one was captured. The resume is kept in the session for question generation."),
			mcp.WithString("file", mcp.Description("Path to the resume PDF"), mcp.Required()),
		),
		mcpAnalyzeResume(deps),
	)

	s.AddTool(
		mcp.NewTool("generate_questions",
			mcp.WithDescription("Generate a tailored interview question set from the session's resume and job description. Replaces any previous set."),
		),
		mcpGenerateQuestions(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"session://stages",
			"Session Stages",
			mcp.WithResourceDescription("Which preparation stages have captured data, with timestamps"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceStages(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"session://questions",
			"Interview Questions",
			mcp.WithResourceDescription("The current interview question set as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceQuestions(deps),
	)

	return s
}

func mcpAnalyzeJobDescription(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}

		analysis, err := deps.Pipeline.AnalyzeJobDescriptionText(ctx, text)
		if err != nil {
			return mcpError(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return mcpJSON(analysis)
	}
}

func mcpAnalyzeResume(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		file, err := req.RequireString("file")
		if err != nil {
			return mcpError("file is required"), nil
		}

		result, err := deps.Pipeline.AnalyzeResume(ctx, file)
		if err != nil {
			return mcpError(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return mcpJSON(result.Analysis)
	}
}

func mcpGenerateQuestions(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		questions, err := deps.Pipeline.GenerateQuestions(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("generation failed: %v", err)), nil
		}
		return mcpJSON(questions)
	}
}

func mcpResourceStages(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		infos, err := deps.Store.Stages()
		if err != nil {
			return nil, fmt.Errorf("listing stages: %w", err)
		}

		type stageEntry struct {
			Stage     string `json:"stage"`
			UpdatedAt string `json:"updated_at"`
		}
		entries := make([]stageEntry, len(infos))
		for i, info := range infos {
			entries[i] = stageEntry{
				Stage:     string(info.Stage),
				UpdatedAt: info.UpdatedAt.Format(time.RFC3339),
			}
		}

		b, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("marshalling stages: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceQuestions(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		questions, err := deps.Store.Questions()
		if err != nil {
			// Absence renders as an empty set rather than a protocol error.
			questions = nil
		}

		b, err := json.Marshal(questions)
		if err != nil {
			return nil, fmt.Errorf("marshalling questions: %w", err)
		}
		if questions == nil {
			b = []byte("[]")
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
