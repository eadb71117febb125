package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/3-lines-studio/genfig"
	"github.com/3-lines-studio/genfig/internal/adapters/cli"
	"github.com/3-lines-studio/genfig/internal/adapters/env"
	"github.com/3-lines-studio/genfig/internal/adapters/fs"
	"github.com/3-lines-studio/genfig/internal/adapters/http"
	"github.com/3-lines-studio/genfig/internal/adapters/process"
	"github.com/3-lines-studio/genfig/internal/core"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if os.Args[1] == "--help" || os.Args[1] == "-h" || os.Args[1] == "help" {
		printUsage()
		os.Exit(0)
	}

	output := cli.NewOutput()

	config, err := env.Load()
	if err != nil {
		output.PrintError("Invalid configuration: %v", err)
		os.Exit(1)
	}

	// This binary serves figures itself instead of relying on python3.
	if len(config.ServerCommand) == 0 {
		if config.ServerCommand, err = process.SelfCommand(); err != nil {
			output.PrintError("%v", err)
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "preview":
		err = runPreview(config, logger, output, args)
	case "generate-static":
		err = runGenerate(ctx, config, logger, output, args)
	case "check":
		err = runCheck(config, logger, output, args)
	case "serve":
		err = runServe(ctx, config, logger, args)
	default:
		output.PrintError("Unknown command %q", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			output.PrintError("%v", err)
		}
		stop()
		os.Exit(1)
	}
}

func runPreview(config env.Config, logger *slog.Logger, output *cli.Output, args []string) error {
	flags := flag.NewFlagSet("preview", flag.ContinueOnError)
	modeName := flags.String("mode", string(core.PreviewDynamic), "preview mode: dynamic or static")
	optionsFile := flags.String("options", "", "YAML or JSON file with figure options")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("usage: genfig preview [-mode dynamic|static] [-options file] <figure-dir>")
	}

	mode, err := core.ParsePreviewMode(*modeName)
	if err != nil {
		return err
	}

	opts, err := cli.LoadOptions(fs.NewOSFileSystem(), *optionsFile)
	if err != nil {
		return err
	}

	gen, err := genfig.New(config, genfig.WithLogger(logger))
	if err != nil {
		return err
	}

	path, err := gen.MakePreview(flags.Arg(0), mode, opts)
	if err != nil {
		return err
	}

	output.PrintSuccess("Preview written")
	output.PrintFile(path)
	return nil
}

func runGenerate(ctx context.Context, config env.Config, logger *slog.Logger, output *cli.Output, args []string) error {
	flags := flag.NewFlagSet("generate-static", flag.ContinueOnError)
	noCache := flags.Bool("no-cache", false, "capture even when the artifacts are up to date")
	delay := flags.Duration("delay", config.CaptureDelay, "wait before each screenshot")
	optionsFile := flags.String("options", "", "YAML or JSON file with figure options")
	publishDir := flags.String("publish", config.PublishDir, "copy artifacts below this output directory")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return errors.New("usage: genfig generate-static [-no-cache] [-delay d] [-options file] [-publish dir] <figure-dir>...")
	}

	opts, err := cli.LoadOptions(fs.NewOSFileSystem(), *optionsFile)
	if err != nil {
		return err
	}

	config.PublishDir = *publishDir
	gen, err := genfig.New(config, genfig.WithLogger(logger))
	if err != nil {
		return err
	}

	output.PrintHeader("genfig generate-static")
	report := cli.NewReport(output, *publishDir)

	for _, dir := range flags.Args() {
		start := time.Now()
		res, err := gen.Generate(ctx, dir, opts, genfig.WithCache(!*noCache), genfig.WithDelay(*delay))
		if err == nil {
			err = gen.Publish(ctx, dir, res.Basename)
		}

		report.Add(cli.FigureResult{
			Figure:    filepath.Base(filepath.Clean(dir)),
			Basename:  res.Basename,
			Cached:    res.Cached,
			Artifacts: res.Artifacts,
			Duration:  time.Since(start),
			Err:       err,
		})

		if errors.Is(err, genfig.ErrPortUnavailable) || ctx.Err() != nil {
			break
		}
	}

	report.Render()
	if report.HasFailures() {
		return errors.New("generation failed")
	}
	return nil
}

func runCheck(config env.Config, logger *slog.Logger, output *cli.Output, args []string) error {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	optionsFile := flags.String("options", "", "YAML or JSON file with figure options")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("usage: genfig check [-options file] <figure-dir>")
	}

	opts, err := cli.LoadOptions(fs.NewOSFileSystem(), *optionsFile)
	if err != nil {
		return err
	}

	gen, err := genfig.New(config, genfig.WithLogger(logger))
	if err != nil {
		return err
	}

	basename, err := gen.Basename(opts)
	if err != nil {
		return err
	}
	upToDate, err := gen.IsUpToDate(flags.Arg(0), opts)
	if err != nil {
		return err
	}

	if upToDate {
		output.PrintSuccess("%s is up to date", basename)
	} else {
		output.PrintWarning("%s needs to be generated", basename)
	}
	return nil
}

func runServe(ctx context.Context, config env.Config, logger *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	root := flags.String("root", ".", "directory to serve")
	host := flags.String("host", config.Host, "address to bind")
	port := flags.Int("port", config.Port, "port to bind")
	if err := flags.Parse(args); err != nil {
		return err
	}

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		return fmt.Errorf("failed to resolve root: %w", err)
	}

	return http.Serve(ctx, logger, http.ServeConfig{
		Addr: core.ServerAddr(*host, *port),
		Root: absRoot,
	})
}

func printUsage() {
	fmt.Println("genfig: render JavaScript figures to themed PNG artifacts")
	fmt.Println()
	fmt.Println("Usage: genfig <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  preview [-mode dynamic|static] [-options file] <figure-dir>")
	fmt.Println("  generate-static [-no-cache] [-delay d] [-options file] [-publish dir] <figure-dir>...")
	fmt.Println("  check [-options file] <figure-dir>")
	fmt.Println("  serve [-root dir] [-host h] [-port p]")
	fmt.Println()
	fmt.Println("Configuration is read from GENFIG_* environment variables and .env.")
}
