package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"loft/internal/llmerrors"
	"loft/internal/logging"
)

// HTTPClientConfig configures the HTTP completion client.
type HTTPClientConfig struct {
	BaseURL string        // e.g. https://api.deepseek.com/v1
	APIKey  string
	Model   string        // e.g. deepseek-chat
	Timeout time.Duration // per-attempt network timeout
}

// DefaultHTTPClientConfig returns the client defaults.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		BaseURL: "https://api.deepseek.com/v1",
		Model:   "deepseek-chat",
		Timeout: 30 * time.Second,
	}
}

// HTTPClient implements Client over a chat-completions HTTP endpoint. It
// performs exactly one network call per Generate; retry policy lives in the
// wrapping retry client.
type HTTPClient struct {
	config     HTTPClientConfig
	httpClient *http.Client
	logger     logging.Logger
}

// NewHTTPClient creates an HTTP-based completion client.
func NewHTTPClient(config HTTPClientConfig) *HTTPClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultHTTPClientConfig().BaseURL
	}
	if config.Model == "" {
		config.Model = DefaultHTTPClientConfig().Model
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultHTTPClientConfig().Timeout
	}
	return &HTTPClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logging.NewComponentLogger("llm"),
	}
}

// Generate sends one chat-completion request and normalizes the outcome into
// a Payload or a *llmerrors.CompletionError.
func (c *HTTPClient) Generate(ctx context.Context, message string, purpose Purpose) (*Payload, error) {
	body, err := json.Marshal(buildRequest(c.config.Model, message, purpose))
	if err != nil {
		return nil, llmerrors.RequestSetup(fmt.Errorf("marshal request: %w", err))
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, llmerrors.RequestSetup(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("Completion request transport failure: %v", err)
		return nil, llmerrors.NoResponse(err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("Error closing response body: %v", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llmerrors.NoResponse(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Completion API HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 512))
		return nil, llmerrors.ServerError(extractAPIErrorMessage(respBody),
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, llmerrors.MalformedResponse(fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, llmerrors.MalformedResponse(fmt.Errorf("response missing choices[0].message.content"))
	}

	return &Payload{Content: parsed.Choices[0].Message.Content}, nil
}

// extractAPIErrorMessage pulls error.message out of an error body when present.
func extractAPIErrorMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Error.Message
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
