package usecase

import (
	"context"
	"image"
	"time"

	"github.com/3-lines-studio/genfig/internal/adapters/fs"
	"github.com/3-lines-studio/genfig/internal/core"
)

type FileSystem = fs.FileSystem

// ServerHandle is a running static file server. Stop must be called exactly
// once per successful Start.
type ServerHandle interface {
	Stop() error
}

type Server interface {
	Start(ctx context.Context, root string) (ServerHandle, error)
}

// Browser is one headless browser session.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	ExecuteScript(ctx context.Context, script string, result any) error
	WaitForElement(ctx context.Context, id string) error
	ElementGeometry(ctx context.Context, id string) (core.Rect, error)
	DevicePixelRatio(ctx context.Context) (float64, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

type BrowserLauncher interface {
	Launch(ctx context.Context) (Browser, error)
}

type Capturer interface {
	Capture(ctx context.Context, figureDir string, theme core.Theme, delay time.Duration) (image.Image, error)
}

// Publisher copies a finished artifact pair somewhere the document build
// can reference it.
type Publisher interface {
	Publish(ctx context.Context, figureName string, files []string) error
}
