package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/3-lines-studio/genfig"
)

func main() {
	config, err := genfig.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	gen, err := genfig.New(config)
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	basename, err := gen.GenerateStatic(ctx, "./figures/sine", genfig.Options{
		"amplitude": 0.8,
		"frequency": 3,
	})
	if err != nil {
		slog.Error("generation failed", "error", err, "transient", genfig.IsTransient(err))
		os.Exit(1)
	}

	slog.Info("figure ready", "basename", basename)
}
