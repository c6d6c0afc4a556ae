// Package chat runs the recipe conversation: the turn protocol, the tool-use
// loop, and the interactive prompt around them.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chzyer/readline"
	"github.com/jmuk/recipes/pkg/artifacts"
	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/config"
	"github.com/jmuk/recipes/pkg/tools"
)

type Chat struct {
	cfg        *config.Config
	configFile string

	store *artifacts.Store
	state *State
	rl    *readline.Instance
	out   io.Writer
}

// OpenTools builds the transmit_recipe registry on top of a store rooted at
// the configured output directory. The caller closes the store.
func OpenTools(ctx context.Context, cfg *config.Config, out io.Writer) (*tools.Registry, *artifacts.Store, error) {
	gen, err := newImageGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := artifacts.NewStore(cfg.Output, gen, out)
	if err != nil {
		return nil, nil, err
	}
	registry, err := tools.NewRegistry(tools.TransmitRecipe(store))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return registry, store, nil
}

// ListModels returns the models offered by the configured backend.
func ListModels(ctx context.Context, cfg *config.Config) ([]string, error) {
	backend, err := getBackend(cfg)
	if err != nil {
		return nil, err
	}
	return backend.Models(ctx)
}

func newAgent(ctx context.Context, cfg *config.Config, systemPrompt string, registry *tools.Registry) (agent.Agent, string, error) {
	backend, err := getBackend(cfg)
	if err != nil {
		return nil, "", err
	}
	model := modelName(cfg, backend)
	ag, err := backend.NewAgent(ctx, model, systemPrompt, registry.Defs())
	if err != nil {
		return nil, "", fmt.Errorf("failed to start %s with %s: %w", cfg.Backend, model, err)
	}
	return ag, model, nil
}

func promptFor(model string) string {
	return fmt.Sprintf("[%s] > ", model)
}

// New prepares a conversation with the backend selected in cfg. configFile
// is rewritten when the user switches backends or models.
func New(ctx context.Context, cfg *config.Config, configFile string) (*Chat, error) {
	prompt, err := SystemPrompt(cfg.SystemPromptFile)
	if err != nil {
		return nil, err
	}
	out := os.Stdout
	registry, store, err := OpenTools(ctx, cfg, out)
	if err != nil {
		return nil, err
	}
	ag, model, err := newAgent(ctx, cfg, prompt, registry)
	if err != nil {
		store.Close()
		return nil, err
	}
	state := NewState(model, prompt, ag, registry, store.OutputRoot(), out)
	state.MaxToolRounds = cfg.MaxToolRounds

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptFor(model),
		AutoComplete:    newCombinedCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	return &Chat{
		cfg:        cfg,
		configFile: configFile,
		store:      store,
		state:      state,
		rl:         rl,
		out:        out,
	}, nil
}

func (c *Chat) OutputRoot() string {
	return c.store.OutputRoot()
}

func (c *Chat) Close() error {
	return errors.Join(c.rl.Close(), c.store.Close())
}

// resetAgent reconnects with the current config. The history is kept, so
// the conversation continues on the new backend.
func (c *Chat) resetAgent(ctx context.Context) error {
	ag, model, err := newAgent(ctx, c.cfg, c.state.SystemPrompt, c.state.Registry)
	if err != nil {
		return err
	}
	c.state.Agent = ag
	c.state.ModelID = model
	c.rl.SetPrompt(promptFor(model))
	fmt.Fprintf(c.out, "Switched to %s on %s\n", model, c.cfg.Backend)
	return nil
}

// say runs one prompt. Ctrl-C cancels it and returns to the input line.
func (c *Chat) say(ctx context.Context, prompt string) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if err := Say(ctx, c.state, prompt); err != nil {
		getLogger(ctx).Error("Say failed", "error", err)
		fmt.Fprintln(c.out, Describe(err))
	}
}

func (c *Chat) RunLoop(ctx context.Context) error {
	c.say(ctx, openingPrompt)
	for {
		line, err := c.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		command, arg := parseCommand(line)
		switch command {
		case commandNone:
		case commandSay:
			c.say(ctx, arg)
		case commandQuit:
			return nil
		case commandList:
			handleListCommand(c.out)
		case commandModels:
			if err := c.handleModelsCommand(ctx); err != nil {
				fmt.Fprintf(c.out, "Failed to switch the model: %v\n", err)
			}
		case commandBackends:
			if err := c.handleBackendsCommand(ctx); err != nil {
				fmt.Fprintf(c.out, "Failed to switch the backend: %v\n", err)
			}
		case commandUnknown:
			fmt.Fprintf(c.out, "Unknown command %s, ignoring...\n", arg)
		}
	}
}
