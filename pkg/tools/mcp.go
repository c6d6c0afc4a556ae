package tools

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmuk/recipes/pkg/chat/parts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// transmitRecipeArgs mirrors the transmit_recipe arguments for MCP clients.
// All fields are optional on the wire; Dispatch fills in defaults.
type transmitRecipeArgs struct {
	RecipeDetails string `json:"recipe_details,omitempty" jsonschema:"the actual recipe, including ingredients, instructions, and shopping list"`
	ImagePrompt   string `json:"image_prompt,omitempty" jsonschema:"a prompt for an image generation model to produce an appetizing photo of the final dish"`
	FileStem      string `json:"file_stem,omitempty" jsonschema:"a lowercase file stem with words separated by underscores"`
}

func (a transmitRecipeArgs) input() map[string]any {
	in := map[string]any{}
	for k, v := range map[string]string{
		ArgRecipeDetails: a.RecipeDetails,
		ArgImagePrompt:   a.ImagePrompt,
		ArgFileStem:      a.FileStem,
	} {
		if v != "" {
			in[k] = v
		}
	}
	return in
}

// NewMCPServer exposes transmit_recipe of the registry to MCP clients, so
// that other agents can store recipes the same way the chat does.
func NewMCPServer(r *Registry, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "recipes",
		Version: version,
	}, nil)
	var description string
	for _, d := range r.Defs() {
		if d.Name() == TransmitRecipeName {
			description = d.Description()
		}
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        TransmitRecipeName,
		Description: description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args transmitRecipeArgs) (*mcp.CallToolResult, any, error) {
		res, err := r.Dispatch(ctx, parts.ToolUse{
			ID:    uuid.NewString(),
			Name:  TransmitRecipeName,
			Input: args.input(),
		})
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Content}},
			IsError: res.IsError,
		}, nil, nil
	})
	return server
}

// ServeMCP serves the registry over stdin/stdout until ctx is done or the
// client disconnects.
func ServeMCP(ctx context.Context, r *Registry, version string) error {
	logger := getLogger(ctx)
	logger.Info("Serving MCP on stdio")
	return NewMCPServer(r, version).Run(ctx, &mcp.StdioTransport{})
}
