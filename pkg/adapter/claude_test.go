package adapter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/curriculo/pkg/adapter"
	"github.com/m-mizutani/gt"
)

func TestClaudeGenerate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Tenho experiência com Python."}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 12, "output_tokens": 6}
		}`))
	}))
	defer srv.Close()

	client := adapter.NewClaude("test-key",
		adapter.WithClaudeRequestOptions(
			option.WithBaseURL(srv.URL),
			option.WithMaxRetries(0),
		),
	)
	gt.Equal(t, client.Model(), adapter.DefaultClaudeModel)

	answer, err := client.Generate(context.Background(), "Quais são suas skills?")
	gt.NoError(t, err)
	gt.Equal(t, answer, "Tenho experiência com Python.")

	gt.Equal(t, body["model"], any(adapter.DefaultClaudeModel))
	gt.Equal(t, body["temperature"], any(float64(0)))
}

func TestClaudeGenerateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	client := adapter.NewClaude("bad-key",
		adapter.WithClaudeModel("claude-sonnet-4-5"),
		adapter.WithClaudeRequestOptions(
			option.WithBaseURL(srv.URL),
			option.WithMaxRetries(0),
		),
	)
	gt.Equal(t, client.Model(), "claude-sonnet-4-5")

	_, err := client.Generate(context.Background(), "prompt")
	gt.Error(t, err)
}

func TestClaudeIntegration(t *testing.T) {
	apiKey := os.Getenv("TEST_ANTHROPIC_API_KEY")
	if apiKey == "" {
		t.Skip("TEST_ANTHROPIC_API_KEY is not set")
	}

	answer, err := adapter.NewClaude(apiKey).Generate(context.Background(), "Hello, what is the capital of France?")
	gt.NoError(t, err)
	gt.NotEqual(t, answer, "")
	t.Log("response:", answer)
}
