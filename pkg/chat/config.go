package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/claude"
	"github.com/jmuk/recipes/pkg/chat/gemini"
	"github.com/jmuk/recipes/pkg/chat/openai"
	"github.com/jmuk/recipes/pkg/config"
	"github.com/jmuk/recipes/pkg/imagegen"
	imagegemini "github.com/jmuk/recipes/pkg/imagegen/gemini"
	imageopenai "github.com/jmuk/recipes/pkg/imagegen/openai"
)

type ModelType string

const (
	ModelTypeGemini ModelType = "gemini"
	ModelTypeClaude ModelType = "claude"
	ModelTypeOpenAI ModelType = "openai"
)

type ModelConfig interface {
	Name() string
	DefaultModel() string
	agent.Factory
	agent.ModelLister
}

type ImageConfig interface {
	Name() string
	NewGenerator(ctx context.Context) (imagegen.Generator, error)
}

func configType(m map[string]any) (ModelType, []byte, error) {
	mtData, ok := m["type"]
	if !ok {
		return "", nil, fmt.Errorf("missing field type for backend config")
	}
	mtStr, ok := mtData.(string)
	if !ok {
		return "", nil, fmt.Errorf("type mismatch for type field: want string got %T", mtData)
	}
	marshaled, err := toml.Marshal(m)
	if err != nil {
		return "", nil, err
	}
	return ModelType(mtStr), marshaled, nil
}

func modelConfigFrom(m map[string]any) (ModelConfig, error) {
	mt, marshaled, err := configType(m)
	if err != nil {
		return nil, err
	}
	switch mt {
	case ModelTypeGemini:
		geminiConfig := &gemini.Config{}
		if err := toml.Unmarshal(marshaled, geminiConfig); err != nil {
			return nil, err
		}
		return geminiConfig, nil
	case ModelTypeClaude:
		return claude.ParseConfig(marshaled)
	case ModelTypeOpenAI:
		openaiConfig := &openai.Config{}
		if err := toml.Unmarshal(marshaled, openaiConfig); err != nil {
			return nil, err
		}
		return openaiConfig, nil
	}
	return nil, fmt.Errorf("unknown model type %s", mt)
}

func imageConfigFrom(m map[string]any) (ImageConfig, error) {
	mt, marshaled, err := configType(m)
	if err != nil {
		return nil, err
	}
	switch mt {
	case ModelTypeGemini:
		c := &imagegemini.Config{}
		if err := toml.Unmarshal(marshaled, c); err != nil {
			return nil, err
		}
		return c, nil
	case ModelTypeOpenAI:
		c := &imageopenai.Config{}
		if err := toml.Unmarshal(marshaled, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown image backend type %s", mt)
}

func getBackendNames(cfg *config.Config) ([]string, error) {
	names := make([]string, 0, len(cfg.Backends))
	for _, b := range cfg.Backends {
		mc, err := modelConfigFrom(b)
		if err != nil {
			return nil, err
		}
		names = append(names, mc.Name())
	}
	return names, nil
}

func getBackend(cfg *config.Config) (ModelConfig, error) {
	for _, b := range cfg.Backends {
		mc, err := modelConfigFrom(b)
		if err != nil {
			slog.Warn("Failed to parse backend config", "error", err)
			continue
		}
		if mc.Name() == cfg.Backend {
			return mc, nil
		}
	}
	return nil, fmt.Errorf("backend %q not found in the config", cfg.Backend)
}

// modelName is the top-level model_name when set, or else the default of
// the backend.
func modelName(cfg *config.Config, mc ModelConfig) string {
	if cfg.ModelName != "" {
		return cfg.ModelName
	}
	return mc.DefaultModel()
}

func newImageGenerator(ctx context.Context, cfg *config.Config) (imagegen.Generator, error) {
	for _, b := range cfg.ImageBackends {
		ic, err := imageConfigFrom(b)
		if err != nil {
			slog.Warn("Failed to parse image backend config", "error", err)
			continue
		}
		if ic.Name() == cfg.ImageBackend {
			return ic.NewGenerator(ctx)
		}
	}
	return nil, fmt.Errorf("image backend %q not found in the config", cfg.ImageBackend)
}
