package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"time"

	"github.com/3-lines-studio/genfig/internal/core"
)

type GenerateInput struct {
	FigureDir string
	Options   core.Options
	Cache     bool
	Delay     time.Duration
}

type GenerateOutput struct {
	Basename string
	// Cached is true when the existing artifact pair was reused.
	Cached    bool
	Artifacts []string
}

type GenerateService struct {
	fs        FileSystem
	preview   *PreviewService
	freshness *FreshnessOracle
	server    Server
	capturer  Capturer
	logger    *slog.Logger
}

func NewGenerateService(fs FileSystem, preview *PreviewService, server Server, capturer Capturer, logger *slog.Logger) *GenerateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateService{
		fs:        fs,
		preview:   preview,
		freshness: NewFreshnessOracle(fs),
		server:    server,
		capturer:  capturer,
		logger:    logger,
	}
}

// GenerateStatic produces {basename}-light.png and {basename}-dark.png in the
// figure's build directory, reusing them when caching is on and no script
// changed since they were written. The local server is always stopped before
// GenerateStatic returns.
func (s *GenerateService) GenerateStatic(ctx context.Context, input GenerateInput) (GenerateOutput, error) {
	basename, err := core.DeriveBasename(input.Options)
	if err != nil {
		return GenerateOutput{}, fmt.Errorf("derive basename: %w", err)
	}

	artifacts := make([]string, 0, len(core.Themes))
	for _, theme := range core.Themes {
		artifacts = append(artifacts, core.ArtifactPath(input.FigureDir, basename, theme))
	}

	upToDate := false
	if core.ShouldCheckFreshness(input.Cache) {
		upToDate, err = s.freshness.IsUpToDate(input.FigureDir, basename)
		if err != nil {
			return GenerateOutput{}, err
		}
	}

	action := core.DecideGenerate(core.GenerateDecisionInput{
		CacheEnabled: input.Cache,
		UpToDate:     upToDate,
	})
	if action == core.ActionUseCache {
		s.logger.Debug("figure up to date", "figure", input.FigureDir, "basename", basename)
		return GenerateOutput{Basename: basename, Cached: true, Artifacts: artifacts}, nil
	}

	start := time.Now()

	if _, err := s.preview.MakePreview(PreviewInput{
		FigureDir: input.FigureDir,
		Mode:      core.PreviewStatic,
		Options:   input.Options,
	}); err != nil {
		return GenerateOutput{}, err
	}

	images, err := s.captureThemes(ctx, input.FigureDir, input.Delay)
	if err != nil {
		return GenerateOutput{}, err
	}

	for i, theme := range core.Themes {
		if err := s.saveImage(artifacts[i], images[theme]); err != nil {
			return GenerateOutput{}, fmt.Errorf("save %s artifact: %w", theme, err)
		}
	}

	s.logger.Info("generated figure",
		"figure", input.FigureDir,
		"basename", basename,
		"duration", time.Since(start),
	)

	return GenerateOutput{Basename: basename, Artifacts: artifacts}, nil
}

func (s *GenerateService) captureThemes(ctx context.Context, figureDir string, delay time.Duration) (_ map[core.Theme]image.Image, err error) {
	handle, err := s.server.Start(ctx, core.ServeRoot(figureDir))
	if err != nil {
		return nil, fmt.Errorf("start server: %w", err)
	}
	defer func() {
		if stopErr := handle.Stop(); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("stop server: %w", stopErr))
		}
	}()

	images := make(map[core.Theme]image.Image, len(core.Themes))
	for _, theme := range core.Themes {
		img, err := s.capturer.Capture(ctx, figureDir, theme, delay)
		if err != nil {
			return nil, fmt.Errorf("capture %s theme: %w", theme, err)
		}
		images[theme] = img
	}

	return images, nil
}

func (s *GenerateService) saveImage(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return s.fs.WriteFile(path, buf.Bytes(), 0o644)
}
