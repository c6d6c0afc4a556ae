package openai

import (
	"context"

	chatopenai "github.com/jmuk/recipes/pkg/chat/openai"
	"github.com/jmuk/recipes/pkg/imagegen"
)

// Config shares the connection settings of the chat backend; model_name
// names the image model instead.
type Config chatopenai.Config

func (c *Config) Name() string {
	return c.ConfigName
}

func (c *Config) NewGenerator(ctx context.Context) (imagegen.Generator, error) {
	opts, err := (*chatopenai.Config)(c).GetOpts()
	if err != nil {
		return nil, err
	}
	return New(opts, c.ModelName), nil
}
