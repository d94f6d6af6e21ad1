package llm

import (
	"context"

	"loft/internal/llmerrors"
	"loft/internal/logging"
)

// retryClient wraps a completion client with bounded retry logic.
type retryClient struct {
	underlying  Client
	retryConfig llmerrors.RetryConfig
	logger      logging.Logger
}

var _ Client = (*retryClient)(nil)

// WrapWithRetry wraps a completion client so transient failures (NoResponse,
// ServerError) are retried with exponential backoff up to the configured
// budget. Contract-breach failures surface immediately.
func WrapWithRetry(client Client, retryConfig llmerrors.RetryConfig) Client {
	return &retryClient{
		underlying:  client,
		retryConfig: retryConfig,
		logger:      logging.NewComponentLogger("llm-retry"),
	}
}

func (c *retryClient) Generate(ctx context.Context, message string, purpose Purpose) (*Payload, error) {
	return llmerrors.RetryWithResult(ctx, c.retryConfig, c.logger, func(ctx context.Context) (*Payload, error) {
		return c.underlying.Generate(ctx, message, purpose)
	})
}
