// Package config loads and edits the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const DefaultMaxToolRounds = 8

type Config struct {
	// Backend names the entry of Backends used for the conversation.
	Backend string `toml:"backend"`
	// ModelName overrides the model_name of the selected backend.
	ModelName string `toml:"model_name,omitempty"`
	// ImageBackend names the entry of ImageBackends used for pictures.
	ImageBackend     string     `toml:"image_backend"`
	Output           string     `toml:"output"`
	LogLevel         slog.Level `toml:"loglevel"`
	MaxToolRounds    int        `toml:"max_tool_rounds"`
	SystemPromptFile string     `toml:"system_prompt_file,omitempty"`

	// Backends and ImageBackends are dispatched on their "type" key.
	Backends      []map[string]any `toml:"backends"`
	ImageBackends []map[string]any `toml:"image_backends"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:       "claude",
		ImageBackend:  "openai",
		Output:        ".",
		LogLevel:      slog.LevelInfo,
		MaxToolRounds: DefaultMaxToolRounds,
		Backends: []map[string]any{
			{
				"name":        "claude",
				"type":        "claude",
				"api_key_env": "ANTHROPIC_API_KEY",
			},
			{
				"name":        "gemini",
				"type":        "gemini",
				"api_key_env": "GEMINI_API_KEY",
				"backend":     "gemini",
			},
			{
				"name":        "openai",
				"type":        "openai",
				"api_key_env": "OPENAI_API_KEY",
			},
		},
		ImageBackends: []map[string]any{
			{
				"name":        "openai",
				"type":        "openai",
				"api_key_env": "OPENAI_API_KEY",
			},
			{
				"name":        "imagen",
				"type":        "gemini",
				"api_key_env": "GEMINI_API_KEY",
				"backend":     "gemini",
			},
		},
	}
}

// DefaultConfigFile returns the path of the per-user configuration file.
func DefaultConfigFile() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "recipes", "config.toml"), nil
}

func (c *Config) validate() error {
	if c.MaxToolRounds <= 0 {
		return fmt.Errorf("max_tool_rounds must be positive, got %d", c.MaxToolRounds)
	}
	if c.Backend == "" {
		return errors.New("backend must be specified")
	}
	return nil
}

func writeConfig(configFile string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(configFile, data, 0644)
}

// LoadConfig reads configFile. A missing file is created with the default
// configuration. Keys absent from the file keep their default values.
func LoadConfig(configFile string) (*Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(configFile)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeConfig(configFile, config); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", configFile, err)
		}
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	md, err := toml.Decode(string(data), config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("Unknown keys in the config file", "file", configFile, "keys", undecoded)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}
	return config, nil
}

// EditConfig loads configFile, applies edit, and writes the result back.
func EditConfig(configFile string, edit func(*Config) (*Config, error)) error {
	config, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	edited, err := edit(config)
	if err != nil {
		return err
	}
	if err := edited.validate(); err != nil {
		return err
	}
	return writeConfig(configFile, edited)
}
