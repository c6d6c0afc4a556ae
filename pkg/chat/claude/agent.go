// Package claude implements the agent on the Anthropic Messages API with
// streamed responses.
package claude

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/parts"
	"github.com/jmuk/recipes/pkg/session"
	"github.com/jmuk/recipes/pkg/tools"
)

type Agent struct {
	systemPrompt string
	modelName    string

	url    *url.URL
	apiKey string
	client *http.Client

	config *Config

	tools []tool
}

// Converse implements agent.Agent.
func (a *Agent) Converse(ctx context.Context, messages []parts.Message) (*agent.Response, error) {
	logger, err := session.LoggerFromContext(ctx, "claude")
	if err != nil {
		return nil, err
	}
	body, err := a.buildRequestBody(messages, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Sending", "model", a.modelName, "messages", len(messages))
	respBody, err := a.request(ctx, body)
	if err != nil {
		logger.Error("Request failed", "error", err)
		return nil, err
	}
	defer respBody.Close()
	resp, err := newEventProcessor(respBody, logger).process()
	if err != nil {
		logger.Error("Failed to read the response stream", "error", err)
		return nil, err
	}
	logger.Debug("Received", "stop_reason", resp.StopReason)
	return resp, nil
}

func New(ctx context.Context, config *Config, modelName string, systemPrompt string, toolDefs []tools.ToolDefinition) (*Agent, error) {
	if modelName == "" {
		modelName = config.DefaultModel()
	}
	a := &Agent{
		systemPrompt: systemPrompt,
		modelName:    modelName,
		config:       config,
		client:       http.DefaultClient,
	}
	for _, toolDef := range toolDefs {
		a.tools = append(a.tools, tool{
			Name:        toolDef.Name(),
			Description: toolDef.Description(),
			InputSchema: toolDef.RequestSchema(),
		})
	}
	var err error
	a.apiKey, err = config.apiKey()
	if err != nil {
		return nil, err
	}
	a.url, err = url.Parse(config.BaseURL)
	if err != nil {
		return nil, err
	}
	a.url = a.url.JoinPath("v1", "messages")
	return a, nil
}
