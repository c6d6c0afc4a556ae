// Package openai implements the agent on the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"

	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/parts"
	"github.com/jmuk/recipes/pkg/session"
	"github.com/openai/openai-go/v3"
)

type Agent struct {
	client       openai.ChatCompletionService
	modelName    string
	systemPrompt string

	tools []openai.ChatCompletionToolUnionParam
}

// Converse implements agent.Agent.
func (a *Agent) Converse(ctx context.Context, messages []parts.Message) (*agent.Response, error) {
	logger, err := session.LoggerFromContext(ctx, "openai")
	if err != nil {
		return nil, err
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.modelName),
		Tools: a.tools,
	}
	if a.systemPrompt != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(a.systemPrompt))
	}
	for _, m := range messages {
		converted, err := toMessageParams(m, logger)
		if err != nil {
			return nil, err
		}
		params.Messages = append(params.Messages, converted...)
	}
	logger.Debug("Sending", "model", a.modelName, "messages", len(params.Messages))
	resp, err := a.client.New(ctx, params)
	if err != nil {
		logger.Error("Request failed", "error", err)
		return nil, wrapError(err)
	}
	logger.Debug("Received", "id", resp.ID, "choices", len(resp.Choices))
	return fromCompletion(resp, logger), nil
}

func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	msg := apiErr.Message
	if msg == "" {
		msg = err.Error()
	}
	return &agent.APIError{
		StatusCode: apiErr.StatusCode,
		Type:       apiErr.Type,
		Message:    msg,
	}
}
