package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/session"
	"github.com/jmuk/recipes/pkg/tools"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
)

const DefaultModel = "gpt-4.1-mini"

type Config struct {
	ConfigName    string `toml:"name"`
	BaseURL       string `toml:"base_url,omitempty"`
	APIKey        string `toml:"api_key,omitempty"`
	APIKeyFromEnv string `toml:"api_key_env,omitempty"`
	ModelName     string `toml:"model_name,omitempty"`
}

func (c *Config) Name() string {
	return c.ConfigName
}

func (c *Config) DefaultModel() string {
	if c.ModelName != "" {
		return c.ModelName
	}
	return DefaultModel
}

// GetOpts returns the request options shared by every OpenAI service. The
// configured values take precedence over the OPENAI_* environment variables.
func (c *Config) GetOpts() ([]option.RequestOption, error) {
	opts := openai.DefaultClientOptions()
	if c.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.BaseURL))
	}
	if c.APIKeyFromEnv != "" {
		apikey := os.Getenv(c.APIKeyFromEnv)
		if apikey == "" {
			return nil, fmt.Errorf("environment variable %s not found", c.APIKeyFromEnv)
		}
		opts = append(opts, option.WithAPIKey(apikey))
	} else if c.APIKey != "" {
		opts = append(opts, option.WithAPIKey(c.APIKey))
	}
	return opts, nil
}

func convertToolDef(d tools.ToolDefinition) (openai.ChatCompletionToolUnionParam, error) {
	encoded, err := json.Marshal(d.RequestSchema())
	if err != nil {
		return openai.ChatCompletionToolUnionParam{}, err
	}
	parameters := map[string]any{}
	if err := json.Unmarshal(encoded, &parameters); err != nil {
		return openai.ChatCompletionToolUnionParam{}, err
	}
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        d.Name(),
				Description: param.NewOpt(d.Description()),
				Parameters:  parameters,
			},
			Type: "function",
		},
	}, nil
}

func (c *Config) NewAgent(
	ctx context.Context,
	modelName string,
	systemPrompt string,
	toolDefs []tools.ToolDefinition,
) (agent.Agent, error) {
	opts, err := c.GetOpts()
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = c.DefaultModel()
	}
	var toolParams []openai.ChatCompletionToolUnionParam
	for _, tdef := range toolDefs {
		toolParam, err := convertToolDef(tdef)
		if err != nil {
			return nil, fmt.Errorf("failed to convert tool %s: %w", tdef.Name(), err)
		}
		toolParams = append(toolParams, toolParam)
	}
	return &Agent{
		client:       openai.NewChatCompletionService(opts...),
		modelName:    modelName,
		systemPrompt: systemPrompt,
		tools:        toolParams,
	}, nil
}

func (c *Config) Models(ctx context.Context) ([]string, error) {
	logger, err := session.LoggerFromContext(ctx, "openai")
	if err != nil {
		return nil, err
	}
	opts, err := c.GetOpts()
	if err != nil {
		return nil, err
	}
	client := openai.NewModelService(opts...)
	models, err := client.List(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	var results []string
	for models != nil {
		for _, m := range models.Data {
			logger.Debug("model", "model", m.ID)
			results = append(results, m.ID)
		}
		models, err = models.GetNextPage()
		if err != nil {
			return nil, wrapError(err)
		}
	}
	return results, nil
}
