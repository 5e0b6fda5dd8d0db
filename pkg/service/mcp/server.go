package mcp

import (
	"context"

	"github.com/m-mizutani/curriculo/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Resume is the pipeline exposed as MCP tools
type Resume interface {
	Ask(ctx context.Context, question string) (string, error)
	Context(ctx context.Context) (string, error)
}

type askParams struct {
	Question string `json:"question" jsonschema:"Recruiter question about the candidate's résumé"`
}

type showParams struct{}

// NewServer builds an MCP server with the ask_resume and show_resume tools
func NewServer(resume Resume, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "curriculo",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_resume",
		Description: "Answer a recruiter question using only the candidate's résumé data",
	}, func(ctx context.Context, req *mcp.CallToolRequest, params *askParams) (*mcp.CallToolResult, any, error) {
		if params.Question == "" {
			return errorResult("question is required"), nil, nil
		}

		answer, err := resume.Ask(ctx, params.Question)
		if err != nil {
			logging.From(ctx).Error("failed to answer question", "error", err)
			return errorResult("failed to generate answer: " + err.Error()), nil, nil
		}
		return textResult(answer), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "show_resume",
		Description: "Show the résumé text used to ground answers",
	}, func(ctx context.Context, req *mcp.CallToolRequest, params *showParams) (*mcp.CallToolResult, any, error) {
		grounding, err := resume.Context(ctx)
		if err != nil {
			logging.From(ctx).Error("failed to load résumé", "error", err)
			return errorResult("résumé data unavailable: " + err.Error()), nil, nil
		}
		return textResult(grounding), nil, nil
	})

	return server
}

// Serve runs the server over stdin/stdout until ctx is done or the client
// disconnects
func Serve(ctx context.Context, server *mcp.Server) error {
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "mcp server stopped")
	}
	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	r := textResult(text)
	r.IsError = true
	return r
}
