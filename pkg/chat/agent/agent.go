// Package agent declares the contract between the conversation loop and a
// model backend.
package agent

import (
	"context"
	"fmt"

	"github.com/jmuk/recipes/pkg/chat/parts"
	"github.com/jmuk/recipes/pkg/tools"
)

// Response is one reply of the model.
type Response struct {
	StopReason parts.StopReason
	// Message is nil when the backend returned no output message.
	Message *parts.Message
}

// Agent sends a whole conversation to the model and returns its reply. It
// keeps no history of its own.
type Agent interface {
	Converse(ctx context.Context, messages []parts.Message) (*Response, error)
}

type Factory interface {
	NewAgent(
		ctx context.Context,
		modelName string,
		systemPrompt string,
		toolDefs []tools.ToolDefinition,
	) (Agent, error)
}

type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}

// APIError is a non-2xx answer of a model service.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("model service error (%s): %s", e.Type, e.Message)
	}
	if e.Type == "" {
		return fmt.Sprintf("model service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("model service returned %d (%s): %s", e.StatusCode, e.Type, e.Message)
}
