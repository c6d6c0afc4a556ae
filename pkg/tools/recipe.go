package tools

import (
	"context"
	"errors"
	"fmt"
)

const (
	TransmitRecipeName = "transmit_recipe"

	ArgRecipeDetails = "recipe_details"
	ArgImagePrompt   = "image_prompt"
	ArgFileStem      = "file_stem"
)

const transmitRecipeDescription = `this tool transmits a recipe (ingredients, instructions, and shopping list), a prompt for an
image generation model to produce an appetizing photo of the recipe, as well as a file stem for
saving the actual data.  It will return the actual location so that you can respond to the user.`

// Transmitter stores a recipe and its pictures and reports where they went.
type Transmitter interface {
	Transmit(ctx context.Context, fileStem, imagePrompt, recipe string) (string, error)
}

// TransmitRecipeSpec declares the transmit_recipe tool.
func TransmitRecipeSpec() *ToolSpec {
	return NewToolSpec(
		TransmitRecipeName,
		transmitRecipeDescription,
		Argument{
			Name:        ArgRecipeDetails,
			Type:        ArgTypeString,
			Description: "The actual recipe, including ingredients, instructions, and shopping list",
			Required:    true,
		},
		Argument{
			Name:        ArgImagePrompt,
			Type:        ArgTypeString,
			Description: "A prompt suitable for an image generation model to produce an appetizing photo of final dish",
			Required:    true,
		},
		Argument{
			Name: ArgFileStem,
			Type: ArgTypeString,
			Description: "a file stem for this recipe, all lowercase, with words separated by underscores, " +
				"with a 4 digit random numeric appended to the end. such as: banana_bread_#### " +
				"but with numbers in place of #",
			Required: true,
		},
	)
}

// TransmitRecipe binds the transmit_recipe declaration to t.
func TransmitRecipe(t Transmitter) ToolDefinition {
	return &toolDefinition{
		ToolSpec: TransmitRecipeSpec(),
		proc: func(ctx context.Context, args map[string]string) (string, error) {
			logger := getLogger(ctx)
			outdir, err := t.Transmit(ctx, args[ArgFileStem], args[ArgImagePrompt], args[ArgRecipeDetails])
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return "", err
				}
				logger.Error("Failed to transmit the recipe", "error", err)
				return "", &ToolError{err}
			}
			return fmt.Sprintf("written output to %s", outdir), nil
		},
	}
}
