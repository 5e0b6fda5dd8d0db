package adapter

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultClaudeModel is used when no model is configured
	DefaultClaudeModel = "claude-haiku-4-5"

	claudeMaxTokens = 1024
)

// Claude answers a single prompt with a Claude model
type Claude struct {
	client      anthropic.Client
	model       string
	requestOpts []option.RequestOption
}

type ClaudeOption func(*Claude)

func WithClaudeModel(model string) ClaudeOption {
	return func(c *Claude) {
		if model != "" {
			c.model = model
		}
	}
}

// WithClaudeRequestOptions passes options to the underlying SDK client,
// e.g. a base URL for tests
func WithClaudeRequestOptions(opts ...option.RequestOption) ClaudeOption {
	return func(c *Claude) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// NewClaude creates a new Claude API client
func NewClaude(apiKey string, opts ...ClaudeOption) *Claude {
	c := &Claude{
		model: DefaultClaudeModel,
	}
	for _, opt := range opts {
		opt(c)
	}

	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, c.requestOpts...)
	c.client = anthropic.NewClient(reqOpts...)
	return c
}

// Model returns the model identifier sent with every request
func (c *Claude) Model() string {
	return c.model
}

// Generate sends prompt as a single user message with temperature 0 and
// returns the concatenated text blocks of the reply.
func (c *Claude) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   claudeMaxTokens,
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create message", goerr.V("model", c.model))
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
