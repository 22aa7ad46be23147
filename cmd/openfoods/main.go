package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/openfoods/openfoods/config"
	"github.com/openfoods/openfoods/internal/cli"
	"github.com/openfoods/openfoods/internal/infrastructure/openfoods"
	"github.com/openfoods/openfoods/internal/logger"
	"github.com/openfoods/openfoods/internal/tui"
	"github.com/openfoods/openfoods/internal/usecase"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("openfoods", pflag.ContinueOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }

	asJSON := fs.Bool("json", false, "print foods as JSON")
	likedOnly := fs.Bool("liked", false, "only list liked foods")
	verbose := fs.BoolP("verbose", "v", false, "debug logging to stderr")
	fs.Bool("ui.no_color", false, "disable colors")
	fs.String("api.base_url", config.DefaultBaseURL, "OpenFoods API base URL")
	_ = fs.MarkHidden("ui.no_color")
	noColor := fs.Bool("no-color", false, "disable colors")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	// Unset flags fall back to env, config file and defaults.
	cfg, err := config.LoadWithFlags(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "openfoods: %v\n", err)
		return 1
	}
	if *noColor {
		cfg.UI.NoColor = true
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{Level: level, Format: "console", Output: os.Stderr})
	defer log.Sync()

	client, err := openfoods.NewClient(openfoods.Config{
		BaseURL:         cfg.API.BaseURL,
		RequestTimeout:  cfg.API.RequestTimeout,
		ResourceTimeout: cfg.API.ResourceTimeout,
		UserAgent:       cfg.API.UserAgent,
	}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "openfoods: %v\n", err)
		return 1
	}
	svc := usecase.NewFoodListService(client, nil, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.Run(ctx, svc, fs.Args(), cli.Options{
		JSON:      *asJSON,
		LikedOnly: *likedOnly,
		NoColor:   cfg.UI.NoColor,
		Browse: func(ctx context.Context, svc *usecase.FoodListService) error {
			return tui.Run(ctx, svc, tui.Options{NoColor: cfg.UI.NoColor})
		},
	})
}
