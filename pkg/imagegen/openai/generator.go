// Package openai generates images with the OpenAI images API.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmuk/recipes/pkg/imagegen"
	"github.com/jmuk/recipes/pkg/session"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const DefaultModel = "gpt-image-1"

type Generator struct {
	images openai.ImageService
	model  string
	count  int64
}

func New(opts []option.RequestOption, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		images: openai.NewImageService(opts...),
		model:  model,
		count:  1,
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (*imagegen.Result, error) {
	logger, err := session.LoggerFromContext(ctx, "openai")
	if err != nil {
		return nil, err
	}
	params := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(g.model),
		N:      openai.Int(g.count),
	}
	// gpt-image models always answer with base64; dall-e needs to be asked.
	if strings.HasPrefix(g.model, "dall-e") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}
	var httpResp *http.Response
	logger.Debug("Generating image", "model", g.model, "prompt", prompt)
	resp, err := g.images.Generate(ctx, params, option.WithResponseInto(&httpResp))
	if err != nil {
		return nil, err
	}
	result := &imagegen.Result{}
	if httpResp != nil {
		result.TraceID = httpResp.Header.Get("x-request-id")
	}
	for i, img := range resp.Data {
		if img.B64JSON == "" {
			logger.Warn("Image without inline data", "index", i, "url", img.URL)
			continue
		}
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %d-th image: %w", i, err)
		}
		result.Images = append(result.Images, imagegen.Image{
			Data:     data,
			MIMEType: "image/png",
		})
	}
	logger.Info("Generated images", "count", len(result.Images), "trace_id", result.TraceID)
	return result, nil
}
