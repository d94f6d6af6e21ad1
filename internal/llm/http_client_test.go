package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"loft/internal/llmerrors"
)

func completionBody(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestHTTPClientGenerateSuccess(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(completionBody("# Roadmap\n\n- Q1")))
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL, APIKey: "test-key", Model: "deepseek-chat"})
	payload, err := client.Generate(context.Background(), "Generate a project timeline", PurposeGeneration)

	require.NoError(t, err)
	require.Equal(t, "# Roadmap\n\n- Q1", payload.Content)

	require.Equal(t, "deepseek-chat", captured.Model)
	require.Len(t, captured.Messages, 2)
	require.Equal(t, "system", captured.Messages[0].Role)
	require.Equal(t, "You are a helpful assistant", captured.Messages[0].Content)
	require.Equal(t, "Please return your response in Markdown, the request is:Generate a project timeline", captured.Messages[1].Content)
	require.Equal(t, generationMaxTokens, captured.MaxTokens)
	require.Equal(t, 1.0, captured.Temperature)
	require.Equal(t, "text", captured.ResponseFormat.Type)
}

func TestHTTPClientClassificationRequestShape(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(completionBody("roadmap")))
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL, Model: "deepseek-chat"})
	payload, err := client.Generate(context.Background(), "Generate a project timeline", PurposeClassification)

	require.NoError(t, err)
	require.Equal(t, "roadmap", payload.Content)

	require.Contains(t, captured.Messages[0].Content, "document, roadmap, email, and unknown")
	// Classification sends the original message untouched.
	require.Equal(t, "Generate a project timeline", captured.Messages[1].Content)
	require.Equal(t, classificationMaxTokens, captured.MaxTokens)
	require.Equal(t, 0.0, captured.Temperature)
}

func TestHTTPClientServerErrorExtractsMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "hello", PurposeGeneration)

	require.Error(t, err)
	ce, ok := llmerrors.AsCompletionError(err)
	require.True(t, ok)
	require.Equal(t, llmerrors.CategoryServerError, ce.Category)
	require.Contains(t, ce.Message, "rate limited")
}

func TestHTTPClientServerErrorWithoutBodyMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "hello", PurposeGeneration)

	ce, ok := llmerrors.AsCompletionError(err)
	require.True(t, ok)
	require.Equal(t, llmerrors.CategoryServerError, ce.Category)
	require.Contains(t, ce.Message, "Unknown error")
}

func TestHTTPClientNoResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "hello", PurposeGeneration)

	ce, ok := llmerrors.AsCompletionError(err)
	require.True(t, ok)
	require.Equal(t, llmerrors.CategoryNoResponse, ce.Category)
}

func TestHTTPClientMalformedResponse(t *testing.T) {
	cases := map[string]string{
		"not json":        "<html>hi</html>",
		"empty choices":   `{"choices":[]}`,
		"missing content": `{"choices":[{"message":{}}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
			_, err := client.Generate(context.Background(), "hello", PurposeGeneration)

			ce, ok := llmerrors.AsCompletionError(err)
			require.True(t, ok)
			require.Equal(t, llmerrors.CategoryMalformedResponse, ce.Category)
		})
	}
}

func TestHTTPClientDefaults(t *testing.T) {
	client := NewHTTPClient(HTTPClientConfig{})
	require.Equal(t, "https://api.deepseek.com/v1", client.config.BaseURL)
	require.Equal(t, "deepseek-chat", client.config.Model)
	require.Equal(t, 30*time.Second, client.config.Timeout)
}
