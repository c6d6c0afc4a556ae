// Package gemini implements the agent on the Gemini API through genai.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/parts"
	"github.com/jmuk/recipes/pkg/session"
	"github.com/jmuk/recipes/pkg/tools"
	"google.golang.org/genai"
)

func toSchema(s *jsonschema.Schema) (*genai.Schema, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	decoded := &genai.Schema{}
	if err := json.Unmarshal(encoded, decoded); err != nil {
		return nil, err
	}
	upperTypes(decoded)
	return decoded, nil
}

// upperTypes rewrites JSON schema type names ("string") into the genai
// spelling ("STRING").
func upperTypes(s *genai.Schema) {
	if s == nil {
		return
	}
	s.Type = genai.Type(strings.ToUpper(string(s.Type)))
	for _, p := range s.Properties {
		upperTypes(p)
	}
	upperTypes(s.Items)
}

type Agent struct {
	client    *genai.Client
	modelName string
	config    *genai.GenerateContentConfig
}

func New(
	ctx context.Context,
	modelName string,
	clientConfig *genai.ClientConfig,
	systemPrompt string,
	toolDefs []tools.ToolDefinition,
	includeThoughts bool,
) (*Agent, error) {
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, err
	}

	var funcs []*genai.FunctionDeclaration
	for _, d := range toolDefs {
		params, err := toSchema(d.RequestSchema())
		if err != nil {
			return nil, fmt.Errorf("failed to encode request schema for %s: %w", d.Name(), err)
		}
		funcs = append(funcs, &genai.FunctionDeclaration{
			Name:        d.Name(),
			Description: d.Description(),
			Parameters:  params,
		})
	}

	config := &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: includeThoughts,
		},
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if len(funcs) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: funcs}}
	}
	return &Agent{client: client, modelName: modelName, config: config}, nil
}

// Converse implements agent.Agent.
func (a *Agent) Converse(ctx context.Context, messages []parts.Message) (*agent.Response, error) {
	logger, err := session.LoggerFromContext(ctx, "gemini")
	if err != nil {
		return nil, err
	}
	contents, err := toContents(messages, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Sending", "model", a.modelName, "contents", len(contents))
	resp, err := a.client.Models.GenerateContent(ctx, a.modelName, contents, a.config)
	if err != nil {
		logger.Error("Request failed", "error", err)
		return nil, wrapError(err)
	}
	return fromResponse(resp, logger), nil
}

func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &agent.APIError{
			StatusCode: apiErr.Code,
			Type:       apiErr.Status,
			Message:    apiErr.Message,
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &agent.APIError{
			StatusCode: apiErrPtr.Code,
			Type:       apiErrPtr.Status,
			Message:    apiErrPtr.Message,
		}
	}
	return err
}
