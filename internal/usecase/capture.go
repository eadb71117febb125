package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"time"

	"github.com/3-lines-studio/genfig/internal/core"
	xdraw "golang.org/x/image/draw"
)

const (
	DefaultRenderTarget       = "defaultCanvas0"
	DefaultNavigationAttempts = 10
	DefaultNavigationBackoff  = 200 * time.Millisecond
	DefaultRenderTimeout      = 10 * time.Second
)

type CaptureConfig struct {
	Host string
	Port int
	// RenderTarget is the id of the element that is cropped out of the page.
	RenderTarget       string
	NavigationAttempts int
	NavigationBackoff  time.Duration
	RenderTimeout      time.Duration
	// Inset defaults to core.DefaultCropInset when nil.
	Inset *core.CropInset
}

func (c CaptureConfig) withDefaults() CaptureConfig {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.RenderTarget == "" {
		c.RenderTarget = DefaultRenderTarget
	}
	if c.NavigationAttempts <= 0 {
		c.NavigationAttempts = DefaultNavigationAttempts
	}
	if c.NavigationBackoff <= 0 {
		c.NavigationBackoff = DefaultNavigationBackoff
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = DefaultRenderTimeout
	}
	if c.Inset == nil {
		inset := core.DefaultCropInset
		c.Inset = &inset
	}
	return c
}

type CaptureService struct {
	launcher BrowserLauncher
	config   CaptureConfig
	logger   *slog.Logger
}

func NewCaptureService(launcher BrowserLauncher, config CaptureConfig, logger *slog.Logger) *CaptureService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CaptureService{
		launcher: launcher,
		config:   config.withDefaults(),
		logger:   logger,
	}
}

// Capture renders the figure's static preview in a fresh browser session
// with the given theme, passed in the URL so the page applies it before the
// figure draws, and returns the render target cropped out of a
// full-page screenshot. The session is closed before Capture returns.
func (s *CaptureService) Capture(ctx context.Context, figureDir string, theme core.Theme, delay time.Duration) (image.Image, error) {
	assetPath, err := core.AssetPath(core.ServeRoot(figureDir), figureDir)
	if err != nil {
		return nil, err
	}
	url := core.ThemedPreviewURL(s.config.Host, s.config.Port, assetPath, core.PreviewStatic, theme)

	browser, err := s.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			s.logger.Warn("failed to close browser", "error", err)
		}
	}()

	start := time.Now()

	if err := s.navigate(ctx, browser, url); err != nil {
		return nil, err
	}

	var applied string
	if err := browser.ExecuteScript(ctx, appliedThemeScript, &applied); err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	if applied != string(theme) {
		return nil, fmt.Errorf("preview %s rendered with theme %q, want %q", url, applied, theme)
	}

	target := s.config.RenderTarget
	waitCtx, cancel := context.WithTimeout(ctx, s.config.RenderTimeout)
	err = browser.WaitForElement(waitCtx, target)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: #%s on %s: %w", core.ErrRenderTargetNotFound, target, url, err)
	}

	box, err := browser.ElementGeometry(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("read geometry of #%s: %w", target, err)
	}

	pixelRatio, err := browser.DevicePixelRatio(ctx)
	if err != nil {
		return nil, fmt.Errorf("read device pixel ratio: %w", err)
	}

	if err := sleep(ctx, delay); err != nil {
		return nil, err
	}

	shot, err := browser.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}

	img, err := cropScreenshot(shot, box, pixelRatio, *s.config.Inset)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("captured figure",
		"figure", assetPath,
		"theme", theme,
		"pixel_ratio", pixelRatio,
		"size", img.Bounds().Size(),
		"duration", time.Since(start),
	)

	return img, nil
}

func (s *CaptureService) navigate(ctx context.Context, browser Browser, url string) error {
	for attempt := 1; ; attempt++ {
		err := browser.Navigate(ctx, url)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt >= s.config.NavigationAttempts {
			return fmt.Errorf("%w: %s after %d attempts: %w", core.ErrNavigationTimeout, url, attempt, err)
		}

		s.logger.Debug("preview not reachable yet", "url", url, "attempt", attempt, "error", err)
		if err := sleep(ctx, s.config.NavigationBackoff); err != nil {
			return err
		}
	}
}

const appliedThemeScript = `document.documentElement.getAttribute("data-bs-theme")`

func cropScreenshot(data []byte, box core.Rect, pixelRatio float64, inset core.CropInset) (image.Image, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	rect, err := core.CropRect(box, pixelRatio, inset, src.Bounds())
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(dst, image.Point{}, src, rect, xdraw.Src, nil)
	return dst, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
