package genfig

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/3-lines-studio/genfig/internal/adapters/browser"
	"github.com/3-lines-studio/genfig/internal/adapters/env"
	"github.com/3-lines-studio/genfig/internal/adapters/fs"
	"github.com/3-lines-studio/genfig/internal/adapters/process"
	"github.com/3-lines-studio/genfig/internal/adapters/publish"
	"github.com/3-lines-studio/genfig/internal/core"
	"github.com/3-lines-studio/genfig/internal/types"
	"github.com/3-lines-studio/genfig/internal/usecase"
)

type Config = env.Config

type S3Config = env.S3Config

type Options = core.Options

type PreviewMode = core.PreviewMode

type GenerateOption = types.GenerateOption

type Publisher = usecase.Publisher

const (
	PreviewDynamic = core.PreviewDynamic
	PreviewStatic  = core.PreviewStatic
)

var (
	ErrMissingEntryPoint    = core.ErrMissingEntryPoint
	ErrPortUnavailable      = core.ErrPortUnavailable
	ErrRenderTargetNotFound = core.ErrRenderTargetNotFound
	ErrNavigationTimeout    = core.ErrNavigationTimeout
	ErrSerialization        = core.ErrSerialization
)

// IsTransient reports whether err came from the environment (a busy port, a
// preview that never became reachable) rather than from the figure itself.
func IsTransient(err error) bool {
	return core.IsTransient(err)
}

func DefaultConfig() Config {
	return env.Default()
}

// LoadConfig reads GENFIG_* variables, after loading .env if present.
func LoadConfig() (Config, error) {
	return env.Load()
}

func WithCache(enabled bool) GenerateOption {
	return types.WithCache(enabled)
}

func WithoutCache() GenerateOption {
	return types.WithoutCache()
}

func WithDelay(d time.Duration) GenerateOption {
	return types.WithDelay(d)
}

type Option func(*Generator)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithPublisher adds a destination that Publish copies artifacts to, in
// addition to the ones named by the config.
func WithPublisher(p Publisher) Option {
	return func(g *Generator) {
		if p != nil {
			g.extraPublishers = append(g.extraPublishers, p)
		}
	}
}

// Generator turns figure directories into themed PNG artifacts. A Generator
// owns one server port: calls on the same Generator, or on two Generators
// sharing a port, must not overlap.
type Generator struct {
	config          Config
	logger          *slog.Logger
	fs              fs.FileSystem
	extraPublishers []Publisher

	server          *process.StaticServer
	previewService  *usecase.PreviewService
	freshness       *usecase.FreshnessOracle
	generateService *usecase.GenerateService
	publishService  *usecase.PublishService
}

// New builds a Generator. Fields left unset in config take the values of
// DefaultConfig. Without a ServerCommand the figures are served by
// "python3 -m http.server".
func New(config Config, opts ...Option) (*Generator, error) {
	config = config.WithDefaults()

	g := &Generator{
		config: config,
		logger: slog.Default(),
		fs:     fs.NewOSFileSystem(),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.server = process.NewStaticServer(process.ServerConfig{
		Host:    config.Host,
		Port:    config.Port,
		Command: config.ServerCommand,
	}, g.logger)

	launcher := browser.NewChromeLauncher(browser.Config{
		ExecPath:    config.ChromePath,
		ShowWindow:  config.ShowBrowser,
		ScaleFactor: config.DeviceScale,
	}, g.logger)

	capturer := usecase.NewCaptureService(launcher, usecase.CaptureConfig{
		Host:               config.Host,
		Port:               config.Port,
		RenderTarget:       config.RenderTarget,
		NavigationAttempts: config.NavigationAttempts,
		NavigationBackoff:  config.NavigationBackoff,
		RenderTimeout:      config.RenderTimeout,
		Inset:              config.CropInset,
	}, g.logger)

	publisher, err := g.publisher()
	if err != nil {
		return nil, err
	}

	g.previewService = usecase.NewPreviewService(g.fs, nil)
	g.freshness = usecase.NewFreshnessOracle(g.fs)
	g.generateService = usecase.NewGenerateService(g.fs, g.previewService, g.server, capturer, g.logger)
	g.publishService = usecase.NewPublishService(g.fs, publisher)

	return g, nil
}

func (g *Generator) publisher() (usecase.Publisher, error) {
	var publishers publish.Multi
	if g.config.PublishDir != "" {
		publishers = append(publishers, publish.NewLocalPublisher(g.fs, g.config.PublishDir))
	}
	if s3 := toS3Config(g.config.S3); s3.Enabled() {
		p, err := publish.NewS3Publisher(s3, g.fs)
		if err != nil {
			return nil, fmt.Errorf("configure s3 publisher: %w", err)
		}
		publishers = append(publishers, p)
	}
	publishers = append(publishers, g.extraPublishers...)

	if len(publishers) == 0 {
		return nil, nil
	}
	return publishers, nil
}

func toS3Config(c S3Config) publish.S3Config {
	return publish.S3Config{
		Endpoint:  c.Endpoint,
		Region:    c.Region,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Bucket:    c.Bucket,
		UseSSL:    c.UseSSL,
		Prefix:    c.Prefix,
	}
}

// Basename returns the artifact basename for opts: "figure" when opts is
// empty, "figure-<md5 of the canonical options>" otherwise.
func (g *Generator) Basename(opts Options) (string, error) {
	return core.DeriveBasename(opts)
}

// MakePreview writes the preview document for figureDir and returns its path.
func (g *Generator) MakePreview(figureDir string, mode PreviewMode, opts Options) (string, error) {
	dir, err := filepath.Abs(figureDir)
	if err != nil {
		return "", err
	}
	return g.previewService.MakePreview(usecase.PreviewInput{
		FigureDir: dir,
		Mode:      mode,
		Options:   opts,
	})
}

// IsUpToDate reports whether both artifacts for opts exist and are newer than
// every script in figureDir.
func (g *Generator) IsUpToDate(figureDir string, opts Options) (bool, error) {
	dir, err := filepath.Abs(figureDir)
	if err != nil {
		return false, err
	}
	basename, err := core.DeriveBasename(opts)
	if err != nil {
		return false, err
	}
	return g.freshness.IsUpToDate(dir, basename)
}

type Result = usecase.GenerateOutput

// Generate runs the pipeline and reports whether the cached pair was reused.
func (g *Generator) Generate(ctx context.Context, figureDir string, opts Options, gopts ...GenerateOption) (Result, error) {
	dir, err := filepath.Abs(figureDir)
	if err != nil {
		return Result{}, err
	}

	base := types.DefaultGenerateConfig()
	base.Delay = g.config.CaptureDelay
	gc := types.ApplyGenerateOptions(base, gopts)

	return g.generateService.GenerateStatic(ctx, usecase.GenerateInput{
		FigureDir: dir,
		Options:   opts,
		Cache:     gc.Cache,
		Delay:     gc.Delay,
	})
}

// GenerateStatic makes sure {basename}-light.png and {basename}-dark.png exist
// and are current in figureDir/_build, and returns basename.
func (g *Generator) GenerateStatic(ctx context.Context, figureDir string, opts Options, gopts ...GenerateOption) (string, error) {
	res, err := g.Generate(ctx, figureDir, opts, gopts...)
	if err != nil {
		return "", err
	}
	return res.Basename, nil
}

// Publish copies the artifact pair for basename to every configured
// destination. It does nothing when none is configured.
func (g *Generator) Publish(ctx context.Context, figureDir, basename string) error {
	dir, err := filepath.Abs(figureDir)
	if err != nil {
		return err
	}
	return g.publishService.Publish(ctx, usecase.PublishInput{
		FigureDir: dir,
		Basename:  basename,
	})
}
