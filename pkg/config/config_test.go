package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "recipes", "config.toml")
	c, err := LoadConfig(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(configFile); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	reloaded, err := LoadConfig(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Backend != c.Backend || len(reloaded.Backends) != len(c.Backends) {
		t.Errorf("reloaded config differs: %+v", reloaded)
	}
}

func TestLoadConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.toml")
	content := `
backend = "local"
model_name = "gpt-test"
output = "~/Desktop"
loglevel = "debug"
max_tool_rounds = 3

[[backends]]
name = "local"
type = "openai"
base_url = "http://localhost:8080/v1/"
`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(configFile)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Backend = "local"
	want.ModelName = "gpt-test"
	want.Output = "~/Desktop"
	want.LogLevel = slog.LevelDebug
	want.MaxToolRounds = 3
	want.Backends = []map[string]any{{
		"name":     "local",
		"type":     "openai",
		"base_url": "http://localhost:8080/v1/",
	}}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "backend = ", "failed to parse"},
		{"rounds", "max_tool_rounds = 0", "max_tool_rounds"},
		{"loglevel", `loglevel = "loud"`, "failed to parse"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configFile, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(configFile)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestEditConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.toml")
	err := EditConfig(configFile, func(c *Config) (*Config, error) {
		c.Backend = "gemini"
		c.ModelName = "gemini-2.5-pro"
		return c, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if c.Backend != "gemini" || c.ModelName != "gemini-2.5-pro" {
		t.Errorf("edit not persisted: %+v", c)
	}

	err = EditConfig(configFile, func(c *Config) (*Config, error) {
		c.MaxToolRounds = -1
		return c, nil
	})
	if err == nil {
		t.Error("want error for an invalid edit")
	}
}
