package chat

import (
	"context"
	"errors"

	"github.com/jmuk/recipes/pkg/config"
	"github.com/manifoldco/promptui"
)

func (c *Chat) handleModelsCommand(ctx context.Context) error {
	models, err := ListModels(ctx, c.cfg)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.New("the backend offers no models")
	}
	pos := 0
	for i, m := range models {
		if m == c.state.ModelID {
			pos = i
			break
		}
	}
	sel := promptui.Select{
		Label:     "Select the model",
		Items:     models,
		CursorPos: pos,
		Size:      20,
	}
	_, selected, err := sel.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return nil
		}
		return err
	}
	if selected == c.state.ModelID {
		return nil
	}
	err = config.EditConfig(c.configFile, func(cfg *config.Config) (*config.Config, error) {
		cfg.ModelName = selected
		return cfg, nil
	})
	if err != nil {
		return err
	}
	c.cfg.ModelName = selected
	return c.resetAgent(ctx)
}
