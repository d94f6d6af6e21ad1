package llmerrors

import (
	"errors"
	"fmt"
)

// Category classifies a completion failure for retry and display decisions.
type Category int

const (
	// CategoryNoResponse - the request went out but no HTTP response came back.
	CategoryNoResponse Category = iota
	// CategoryServerError - the API answered with an HTTP error status.
	CategoryServerError
	// CategoryRequestSetupError - the request could not be constructed.
	CategoryRequestSetupError
	// CategoryMalformedResponse - the API answered 200 but the body does not
	// match the contract (missing choices[0].message.content).
	CategoryMalformedResponse
)

func (c Category) String() string {
	switch c {
	case CategoryNoResponse:
		return "no_response"
	case CategoryServerError:
		return "server_error"
	case CategoryRequestSetupError:
		return "request_setup_error"
	case CategoryMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// CompletionError is the uniform failure shape returned by the completion
// client. NoResponse and ServerError are plausibly transient and have already
// absorbed the retry budget before reaching the caller; the other two indicate
// a contract breach that retries will not fix.
type CompletionError struct {
	Category Category
	Message  string // operator-facing message
	Err      error  // underlying cause, may be nil
}

func (e *CompletionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("completion %s: %v", e.Category, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// New creates a CompletionError with an operator-facing message.
func New(category Category, message string, err error) *CompletionError {
	return &CompletionError{Category: category, Message: message, Err: err}
}

// NoResponse marks a transport-level failure where no response was received.
func NoResponse(err error) *CompletionError {
	return New(CategoryNoResponse,
		"No response received from the completion API. Please check your network connection.", err)
}

// ServerError marks an HTTP error status returned by the API.
func ServerError(message string, err error) *CompletionError {
	if message == "" {
		message = "Unknown error"
	}
	return New(CategoryServerError, fmt.Sprintf("API error: %s", message), err)
}

// RequestSetup marks a failure to build the outbound request.
func RequestSetup(err error) *CompletionError {
	return New(CategoryRequestSetupError, fmt.Sprintf("Error setting up request: %v", err), err)
}

// MalformedResponse marks a 200 response whose body breaks the contract.
func MalformedResponse(err error) *CompletionError {
	return New(CategoryMalformedResponse, "Invalid response format from completion API", err)
}

// AsCompletionError extracts a CompletionError from an error chain.
func AsCompletionError(err error) (*CompletionError, bool) {
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsTransient reports whether an error is worth retrying. Only failures where
// the remote side may simply have been unavailable qualify.
func IsTransient(err error) bool {
	ce, ok := AsCompletionError(err)
	if !ok {
		return false
	}
	switch ce.Category {
	case CategoryNoResponse, CategoryServerError:
		return true
	default:
		return false
	}
}
