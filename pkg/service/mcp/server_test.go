package mcp_test

import (
	"context"
	"slices"
	"testing"

	"github.com/m-mizutani/curriculo/pkg/service/mcp"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type mockResume struct {
	answer    string
	grounding string
	askErr    error
	ctxErr    error
	questions []string
}

func (m *mockResume) Ask(ctx context.Context, question string) (string, error) {
	m.questions = append(m.questions, question)
	if m.askErr != nil {
		return "", m.askErr
	}
	return m.answer, nil
}

func (m *mockResume) Context(ctx context.Context) (string, error) {
	if m.ctxErr != nil {
		return "", m.ctxErr
	}
	return m.grounding, nil
}

func connect(t *testing.T, resume mcp.Resume) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(resume, "test")
	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { cs.Close() })

	return cs
}

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	gt.A(t, result.Content).Length(1)
	text, ok := result.Content[0].(*mcpsdk.TextContent)
	gt.True(t, ok)
	return text.Text
}

func TestListTools(t *testing.T) {
	cs := connect(t, &mockResume{})

	res, err := cs.ListTools(context.Background(), nil)
	gt.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	gt.A(t, names).Length(2)
	gt.True(t, slices.Contains(names, "ask_resume"))
	gt.True(t, slices.Contains(names, "show_resume"))
}

func TestAskResume(t *testing.T) {
	ctx := context.Background()

	t.Run("answer", func(t *testing.T) {
		resume := &mockResume{answer: "Tenho 5 anos de experiência."}
		cs := connect(t, resume)

		result, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
			Name:      "ask_resume",
			Arguments: map[string]any{"question": "Quanta experiência você tem?"},
		})
		gt.NoError(t, err)
		gt.False(t, result.IsError)
		gt.Equal(t, resultText(t, result), "Tenho 5 anos de experiência.")
		gt.Equal(t, resume.questions, []string{"Quanta experiência você tem?"})
	})

	t.Run("empty question", func(t *testing.T) {
		resume := &mockResume{answer: "unused"}
		cs := connect(t, resume)

		result, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
			Name:      "ask_resume",
			Arguments: map[string]any{"question": ""},
		})
		gt.NoError(t, err)
		gt.True(t, result.IsError)
		gt.A(t, resume.questions).Length(0)
	})

	t.Run("generation failure", func(t *testing.T) {
		cs := connect(t, &mockResume{askErr: goerr.New("model unavailable")})

		result, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
			Name:      "ask_resume",
			Arguments: map[string]any{"question": "q"},
		})
		gt.NoError(t, err)
		gt.True(t, result.IsError)
		gt.S(t, resultText(t, result)).Contains("model unavailable")
	})
}

func TestShowResume(t *testing.T) {
	ctx := context.Background()

	t.Run("grounding", func(t *testing.T) {
		cs := connect(t, &mockResume{grounding: "Formação: Bacharel"})

		result, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
			Name:      "show_resume",
			Arguments: map[string]any{},
		})
		gt.NoError(t, err)
		gt.False(t, result.IsError)
		gt.Equal(t, resultText(t, result), "Formação: Bacharel")
	})

	t.Run("unavailable", func(t *testing.T) {
		cs := connect(t, &mockResume{ctxErr: goerr.New("sheets down")})

		result, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
			Name:      "show_resume",
			Arguments: map[string]any{},
		})
		gt.NoError(t, err)
		gt.True(t, result.IsError)
	})
}
