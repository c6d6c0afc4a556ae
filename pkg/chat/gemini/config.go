package gemini

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/session"
	"github.com/jmuk/recipes/pkg/tools"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	ConfigName      string `toml:"name"`
	ModelName       string `toml:"model_name,omitempty"`
	APIKey          string `toml:"api_key,omitempty"`
	APIKeyFromEnv   string `toml:"api_key_env,omitempty"`
	BaseURL         string `toml:"base_url,omitempty"`
	Backend         string `toml:"backend,omitempty"`
	Project         string `toml:"project,omitempty"`
	Location        string `toml:"location,omitempty"`
	ExcludeThoughts bool   `toml:"exclude_thoughts,omitempty"`
}

func (gc *Config) Name() string {
	return gc.ConfigName
}

func (gc *Config) DefaultModel() string {
	if gc.ModelName != "" {
		return gc.ModelName
	}
	return DefaultModel
}

// ClientConfig returns the genai client settings. An empty backend lets
// genai decide from the GOOGLE_* environment variables.
func (gc *Config) ClientConfig() *genai.ClientConfig {
	backend := genai.BackendUnspecified
	switch strings.ToLower(gc.Backend) {
	case "gemini", "gemini-api", strings.ToLower(genai.BackendGeminiAPI.String()):
		backend = genai.BackendGeminiAPI
	case "vertex", "vertex-ai", strings.ToLower(genai.BackendVertexAI.String()):
		backend = genai.BackendVertexAI
	}
	apiKey := gc.APIKey
	if gc.APIKeyFromEnv != "" {
		apiKey = os.Getenv(gc.APIKeyFromEnv)
	}
	cc := &genai.ClientConfig{
		APIKey:   apiKey,
		Backend:  backend,
		Project:  gc.Project,
		Location: gc.Location,
	}
	if gc.BaseURL != "" {
		cc.HTTPOptions.BaseURL = gc.BaseURL
	}
	return cc
}

func (gc *Config) NewAgent(
	ctx context.Context,
	modelName string,
	systemPrompt string,
	toolDefs []tools.ToolDefinition,
) (agent.Agent, error) {
	if modelName == "" {
		modelName = gc.DefaultModel()
	}
	return New(ctx, modelName, gc.ClientConfig(), systemPrompt, toolDefs, !gc.ExcludeThoughts)
}

func (gc *Config) Models(ctx context.Context) ([]string, error) {
	logger, err := session.LoggerFromContext(ctx, "gemini")
	if err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, gc.ClientConfig())
	if err != nil {
		return nil, err
	}
	var results []string
	for m, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, wrapError(err)
		}
		logger.Debug("model", "model", m.Name, "actions", m.SupportedActions)
		if len(m.SupportedActions) > 0 && !slices.Contains(m.SupportedActions, "generateContent") {
			continue
		}
		results = append(results, strings.TrimPrefix(m.Name, "models/"))
	}
	return results, nil
}
