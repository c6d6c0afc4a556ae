package chat

import (
	"context"
	"errors"

	"github.com/jmuk/recipes/pkg/config"
	"github.com/manifoldco/promptui"
)

func (c *Chat) handleBackendsCommand(ctx context.Context) error {
	backendNames, err := getBackendNames(c.cfg)
	if err != nil {
		return err
	}
	pos := 0
	for i, name := range backendNames {
		if name == c.cfg.Backend {
			pos = i
			break
		}
	}
	sel := promptui.Select{
		Label:     "Select the backend",
		Items:     backendNames,
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
	if selected == c.cfg.Backend {
		return nil
	}

	// The model of the previous backend rarely exists on the new one.
	err = config.EditConfig(c.configFile, func(cfg *config.Config) (*config.Config, error) {
		cfg.Backend = selected
		cfg.ModelName = ""
		return cfg, nil
	})
	if err != nil {
		return err
	}
	c.cfg.Backend = selected
	c.cfg.ModelName = ""
	if err := c.resetAgent(ctx); err != nil {
		return err
	}
	return c.handleModelsCommand(ctx)
}
