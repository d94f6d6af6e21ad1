package llm

import "context"

// Purpose selects between the constrained classification prompt and the open
// generation prompt.
type Purpose int

const (
	// PurposeClassification - short prompt, temperature 0, tiny output budget;
	// the response is expected to be a single type label.
	PurposeClassification Purpose = iota
	// PurposeGeneration - open prompt, temperature 1, full output budget; the
	// response is the generated artifact in Markdown.
	PurposeGeneration
)

const (
	classificationSystemPrompt = "Please return one of the following message types based on my input, the types are: document, roadmap, email, and unknown."
	generationSystemPrompt     = "You are a helpful assistant"
	generationUserPrefix       = "Please return your response in Markdown, the request is:"

	classificationMaxTokens = 20
	generationMaxTokens     = 2048
)

// Payload is the normalized success shape of a completion call.
type Payload struct {
	Content string
}

// Client is the remote completion dependency the classifier and orchestrator
// drive. Failures are *llmerrors.CompletionError values.
type Client interface {
	Generate(ctx context.Context, message string, purpose Purpose) (*Payload, error)
}

// chatMessage, chatRequest and chatResponse mirror the chat-completions wire
// contract.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	MaxTokens      int            `json:"max_tokens"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// buildRequest assembles the wire request for a message under a purpose.
func buildRequest(model, message string, purpose Purpose) chatRequest {
	if purpose == PurposeClassification {
		return chatRequest{
			Model: model,
			Messages: []chatMessage{
				{Role: "system", Content: classificationSystemPrompt},
				{Role: "user", Content: message},
			},
			MaxTokens:      classificationMaxTokens,
			Temperature:    0,
			ResponseFormat: responseFormat{Type: "text"},
		}
	}
	return chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: generationSystemPrompt},
			{Role: "user", Content: generationUserPrefix + message},
		},
		MaxTokens:      generationMaxTokens,
		Temperature:    1,
		ResponseFormat: responseFormat{Type: "text"},
	}
}
