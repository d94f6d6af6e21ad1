// Package classify maps free-text user requests to a content kind via a
// constrained completion call.
package classify

import (
	"context"
	"strings"

	"loft/internal/llm"
	"loft/internal/logging"
	"loft/internal/task"
)

// Classifier determines the semantic kind of a raw message.
type Classifier struct {
	client llm.Client
	logger logging.Logger
}

// New creates a classifier over a completion client.
func New(client llm.Client) *Classifier {
	return &Classifier{
		client: client,
		logger: logging.NewComponentLogger("classify"),
	}
}

// Classify issues the classification completion and maps the returned label
// to a kind. The label is trimmed and lowercased; only the exact strings
// document, roadmap and email are recognized, everything else (empty,
// multi-word, malformed) is unknown.
//
// Errors are returned typed so the boundary that swallows them is explicit in
// the caller; the orchestrator maps any error to KindUnknown.
func (c *Classifier) Classify(ctx context.Context, message string) (task.Kind, error) {
	payload, err := c.client.Generate(ctx, message, llm.PurposeClassification)
	if err != nil {
		return task.KindUnknown, err
	}

	label := strings.ToLower(strings.TrimSpace(payload.Content))
	kind := task.ParseKind(label)
	c.logger.Debug("Classified message as %s (raw label %q)", kind, label)
	return kind, nil
}
