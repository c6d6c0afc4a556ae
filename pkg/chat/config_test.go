package chat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jmuk/recipes/pkg/chat/claude"
	"github.com/jmuk/recipes/pkg/chat/gemini"
	"github.com/jmuk/recipes/pkg/chat/openai"
	"github.com/jmuk/recipes/pkg/config"
	imagegemini "github.com/jmuk/recipes/pkg/imagegen/gemini"
	imageopenai "github.com/jmuk/recipes/pkg/imagegen/openai"
)

func TestModelConfigFrom(t *testing.T) {
	for _, tc := range []struct {
		name      string
		m         map[string]any
		wantModel string
		wantType  any
	}{
		{
			name:      "claude",
			m:         map[string]any{"name": "c", "type": "claude", "api_key": "k"},
			wantModel: claude.DefaultModel,
			wantType:  &claude.Config{},
		},
		{
			name:      "gemini",
			m:         map[string]any{"name": "g", "type": "gemini", "model_name": "gemini-2.5-pro"},
			wantModel: "gemini-2.5-pro",
			wantType:  &gemini.Config{},
		},
		{
			name:      "openai",
			m:         map[string]any{"name": "o", "type": "openai"},
			wantModel: openai.DefaultModel,
			wantType:  &openai.Config{},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mc, err := modelConfigFrom(tc.m)
			if err != nil {
				t.Fatal(err)
			}
			if mc.Name() != tc.m["name"] {
				t.Errorf("Name() = %s, want %s", mc.Name(), tc.m["name"])
			}
			if mc.DefaultModel() != tc.wantModel {
				t.Errorf("DefaultModel() = %s, want %s", mc.DefaultModel(), tc.wantModel)
			}
			if got, want := typeName(mc), typeName(tc.wantType); got != want {
				t.Errorf("type = %s, want %s", got, want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *claude.Config:
		return "claude"
	case *gemini.Config:
		return "gemini"
	case *openai.Config:
		return "openai"
	case *imagegemini.Config:
		return "imagegemini"
	case *imageopenai.Config:
		return "imageopenai"
	}
	return "unknown"
}

func TestModelConfigFromErrors(t *testing.T) {
	for _, m := range []map[string]any{
		{"name": "x"},
		{"name": "x", "type": 3},
		{"name": "x", "type": "llama"},
	} {
		if _, err := modelConfigFrom(m); err == nil {
			t.Errorf("modelConfigFrom(%v) succeeded, want error", m)
		}
	}
}

func TestImageConfigFrom(t *testing.T) {
	ic, err := imageConfigFrom(map[string]any{"name": "imagen", "type": "gemini"})
	if err != nil {
		t.Fatal(err)
	}
	if ic.Name() != "imagen" || typeName(ic) != "imagegemini" {
		t.Errorf("unexpected image config %#v", ic)
	}
	ic, err = imageConfigFrom(map[string]any{"name": "dalle", "type": "openai", "model_name": "gpt-image-1"})
	if err != nil {
		t.Fatal(err)
	}
	if ic.Name() != "dalle" || typeName(ic) != "imageopenai" {
		t.Errorf("unexpected image config %#v", ic)
	}
	if _, err := imageConfigFrom(map[string]any{"name": "c", "type": "claude"}); err == nil {
		t.Error("claude has no image backend, want error")
	}
}

func TestGetBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	names, err := getBackendNames(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"claude", "gemini", "openai"}, names); diff != "" {
		t.Errorf("backend names mismatch (-want +got):\n%s", diff)
	}

	cfg.Backend = "gemini"
	mc, err := getBackend(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := modelName(cfg, mc); got != gemini.DefaultModel {
		t.Errorf("modelName() = %s, want %s", got, gemini.DefaultModel)
	}
	cfg.ModelName = "gemini-2.5-pro"
	if got := modelName(cfg, mc); got != "gemini-2.5-pro" {
		t.Errorf("modelName() = %s, want the override", got)
	}

	cfg.Backend = "missing"
	if _, err := getBackend(cfg); err == nil {
		t.Error("want error for a missing backend")
	}
}

func TestNewImageGeneratorMissing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ImageBackend = "missing"
	if _, err := newImageGenerator(context.Background(), cfg); err == nil {
		t.Error("want error for a missing image backend")
	}
}

func TestSystemPrompt(t *testing.T) {
	got, err := SystemPrompt("")
	if err != nil {
		t.Fatal(err)
	}
	if got != systemPrompt {
		t.Errorf("SystemPrompt(\"\") is not the built-in prompt")
	}
	if !strings.Contains(got, "transmit the recipe") {
		t.Errorf("built-in prompt does not ask for the tool")
	}

	file := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(file, []byte("  Only desserts.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = SystemPrompt(file)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Only desserts." {
		t.Errorf("SystemPrompt(file) = %q", got)
	}

	if _, err := SystemPrompt(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("want error for a missing prompt file")
	}
}
