package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jmuk/recipes/pkg/chat"
	"github.com/jmuk/recipes/pkg/config"
	"github.com/jmuk/recipes/pkg/session"
	"github.com/jmuk/recipes/pkg/tools"
)

const version = "0.1.0"

var (
	configFile   = flag.String("config", "", "the config file; defaults to recipes/config.toml in the user config dir")
	output       = flag.String("output", "", "the directory to store recipes and pictures")
	backend      = flag.String("backend", "", "the backend to talk to, as named in the config")
	model        = flag.String("model", "", "the model name, overriding the backend's default")
	imageBackend = flag.String("image-backend", "", "the image backend, as named in the config")
	verbose      = flag.Bool("v", false, "log at debug level")
	listModels   = flag.Bool("list", false, "list the models of the backend and exit")
	serveMCP     = flag.Bool("mcp", false, "serve the transmit_recipe tool over MCP on stdio")
)

func loadConfig() (*config.Config, string) {
	file := *configFile
	if file == "" {
		var err error
		file, err = config.DefaultConfigFile()
		if err != nil {
			log.Fatal(err)
		}
	}
	cfg, err := config.LoadConfig(file)
	if err != nil {
		log.Fatal(err)
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *backend != "" {
		cfg.Backend = *backend
		cfg.ModelName = ""
	}
	if *model != "" {
		cfg.ModelName = *model
	}
	if *imageBackend != "" {
		cfg.ImageBackend = *imageBackend
	}
	if *verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg, file
}

func main() {
	flag.Parse()
	ctx := context.Background()
	cfg, file := loadConfig()

	s, err := session.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	if err := s.Init(cfg.Output, cfg.Backend); err != nil {
		log.Fatal(err)
	}
	ctx = s.With(ctx)
	log.Printf("Logs are stored into %s", s.LogPath())

	if *listModels {
		models, err := chat.ListModels(ctx, cfg)
		if err != nil {
			log.Fatal(err)
		}
		for _, m := range models {
			fmt.Println(m)
		}
		return
	}

	if *serveMCP {
		// stdout carries the protocol.
		registry, store, err := chat.OpenTools(ctx, cfg, os.Stderr)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		if err := tools.ServeMCP(ctx, registry, version); err != nil {
			log.Fatal(err)
		}
		return
	}

	c, err := chat.New(ctx, cfg, file)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()
	fmt.Printf("Recipes are saved into %s\n", c.OutputRoot())
	if err := c.RunLoop(ctx); err != nil {
		log.Fatal(err)
	}
}
