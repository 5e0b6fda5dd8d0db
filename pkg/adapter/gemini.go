package adapter

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini answers a single prompt with a Gemini model
type Gemini struct {
	client      *genai.Client
	model       string
	httpOptions genai.HTTPOptions
}

type GeminiOption func(*Gemini)

func WithGeminiModel(model string) GeminiOption {
	return func(g *Gemini) {
		if model != "" {
			g.model = model
		}
	}
}

// NewGemini creates a client for the Gemini API using an API key
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	return newGemini(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, opts...)
}

// NewVertexGemini creates a client for Gemini on Vertex AI
func NewVertexGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*Gemini, error) {
	return newGemini(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	}, opts...)
}

// WithGeminiHTTPOptions overrides the transport settings of the genai
// client, such as the base URL
func WithGeminiHTTPOptions(httpOptions genai.HTTPOptions) GeminiOption {
	return func(g *Gemini) {
		g.httpOptions = httpOptions
	}
}

func newGemini(ctx context.Context, cfg *genai.ClientConfig, opts ...GeminiOption) (*Gemini, error) {
	g := &Gemini{
		model: DefaultGeminiModel,
	}
	for _, opt := range opts {
		opt(g)
	}

	cfg.HTTPOptions = g.httpOptions
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client", goerr.V("model", g.model))
	}
	g.client = client

	return g, nil
}

// Model returns the model identifier sent with every request
func (g *Gemini) Model() string {
	return g.model
}

// Generate sends prompt as a single user turn with temperature 0 and returns
// the concatenated text parts of the first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content", goerr.V("model", g.model))
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("no candidate in response", goerr.V("model", g.model))
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
