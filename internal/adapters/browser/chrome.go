package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/3-lines-studio/genfig/internal/core"
	"github.com/3-lines-studio/genfig/internal/usecase"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

type Config struct {
	// ExecPath overrides chromedp's browser lookup.
	ExecPath string
	// ShowWindow runs Chrome with a visible window; the zero value is headless.
	ShowWindow   bool
	WindowWidth  int
	WindowHeight int
	// ScaleFactor overrides the device pixel ratio when positive.
	ScaleFactor float64
}

func DefaultConfig() Config {
	return Config{
		WindowWidth:  1280,
		WindowHeight: 1024,
	}
}

// ChromeLauncher starts a fresh Chrome instance for every session.
type ChromeLauncher struct {
	config Config
	logger *slog.Logger
}

func NewChromeLauncher(config Config, logger *slog.Logger) *ChromeLauncher {
	if config.WindowWidth <= 0 || config.WindowHeight <= 0 {
		config.WindowWidth, config.WindowHeight = 1280, 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromeLauncher{
		config: config,
		logger: logger,
	}
}

func (l *ChromeLauncher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.WindowSize(l.config.WindowWidth, l.config.WindowHeight),
		chromedp.Flag("hide-scrollbars", true),
	)
	if l.config.ShowWindow {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if l.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.config.ExecPath))
	}
	return opts
}

func (l *ChromeLauncher) metricsOverride() []chromedp.Action {
	if l.config.ScaleFactor <= 0 {
		return nil
	}
	return []chromedp.Action{
		emulation.SetDeviceMetricsOverride(
			int64(l.config.WindowWidth),
			int64(l.config.WindowHeight),
			l.config.ScaleFactor,
			false,
		),
	}
}

func (l *ChromeLauncher) Launch(ctx context.Context) (usecase.Browser, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, l.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			l.logger.Debug("chromedp", "message", fmt.Sprintf(format, args...))
		}),
	)

	// The first Run starts the browser; it must not see a per-call deadline
	// or the browser dies with it.
	if err := chromedp.Run(tabCtx, l.metricsOverride()...); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &Session{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
	}, nil
}

type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// run executes actions on the session's tab while honouring the deadline
// and cancellation of the per-call ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *Session) ExecuteScript(ctx context.Context, script string, result any) error {
	if result == nil {
		var ignored any
		result = &ignored
	}
	return s.run(ctx, chromedp.Evaluate(script, result))
}

func (s *Session) WaitForElement(ctx context.Context, id string) error {
	return s.run(ctx, chromedp.WaitReady(idSelector(id), chromedp.ByQuery))
}

type geometryResult struct {
	Found  bool    `json:"found"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Session) ElementGeometry(ctx context.Context, id string) (core.Rect, error) {
	script := `(() => {
  const el = document.getElementById(` + strconv.Quote(id) + `);
  if (!el) {
    return { found: false };
  }
  const r = el.getBoundingClientRect();
  return {
    found: true,
    x: r.left + window.scrollX,
    y: r.top + window.scrollY,
    width: r.width,
    height: r.height,
  };
})()`

	var res geometryResult
	if err := s.run(ctx, chromedp.Evaluate(script, &res)); err != nil {
		return core.Rect{}, err
	}
	if !res.Found {
		return core.Rect{}, fmt.Errorf("%w: #%s", core.ErrRenderTargetNotFound, id)
	}
	return core.Rect{X: res.X, Y: res.Y, Width: res.Width, Height: res.Height}, nil
}

func (s *Session) DevicePixelRatio(ctx context.Context) (float64, error) {
	var ratio float64
	if err := s.run(ctx, chromedp.Evaluate(`window.devicePixelRatio`, &ratio)); err != nil {
		return 0, err
	}
	return ratio, nil
}

// Screenshot captures the full page as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Session) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	s.allocCancel()
	return err
}

func idSelector(id string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(id)
	return `[id="` + escaped + `"]`
}
