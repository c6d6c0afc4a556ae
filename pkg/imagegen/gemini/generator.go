// Package gemini generates images with Imagen through the genai client.
package gemini

import (
	"context"

	"github.com/jmuk/recipes/pkg/imagegen"
	"github.com/jmuk/recipes/pkg/session"
	"google.golang.org/genai"
)

const DefaultModel = "imagen-4.0-generate-001"

type Generator struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, clientConfig *genai.ClientConfig, model string) (*Generator, error) {
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (*imagegen.Result, error) {
	logger, err := session.LoggerFromContext(ctx, "gemini")
	if err != nil {
		return nil, err
	}
	logger.Debug("Generating image", "model", g.model, "prompt", prompt)
	resp, err := g.client.Models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages:   1,
		OutputMIMEType:   "image/png",
		IncludeRAIReason: true,
	})
	if err != nil {
		return nil, err
	}
	return toResult(resp, logger.Warn), nil
}

func toResult(resp *genai.GenerateImagesResponse, warn func(string, ...any)) *imagegen.Result {
	result := &imagegen.Result{}
	for i, gi := range resp.GeneratedImages {
		if gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			warn("Image filtered or empty", "index", i, "reason", gi.RAIFilteredReason)
			continue
		}
		result.Images = append(result.Images, imagegen.Image{
			Data:     gi.Image.ImageBytes,
			MIMEType: gi.Image.MIMEType,
		})
	}
	return result
}
