package gemini

import (
	"context"

	chatgemini "github.com/jmuk/recipes/pkg/chat/gemini"
	"github.com/jmuk/recipes/pkg/imagegen"
)

// Config shares the connection settings of the chat backend; model_name
// names the Imagen model instead.
type Config chatgemini.Config

func (c *Config) Name() string {
	return c.ConfigName
}

func (c *Config) NewGenerator(ctx context.Context) (imagegen.Generator, error) {
	return New(ctx, (*chatgemini.Config)(c).ClientConfig(), c.ModelName)
}
