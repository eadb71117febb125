package usecase

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/3-lines-studio/genfig/internal/adapters/fs"
	"github.com/3-lines-studio/genfig/internal/core"
)

// newFigure creates <tmp>/book/figures/sine with a main.js entry point.
func newFigure(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "book", "figures", "sine")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, core.EntryPointName), "export function setup_static() {}\n")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setModTime(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

type stubServer struct {
	mu       sync.Mutex
	starts   int
	stops    int
	root     string
	startErr error
	stopErr  error
}

func (s *stubServer) Start(ctx context.Context, root string) (ServerHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++
	s.root = root
	if s.startErr != nil {
		return nil, s.startErr
	}
	return stubHandle{s}, nil
}

type stubHandle struct {
	server *stubServer
}

func (h stubHandle) Stop() error {
	h.server.mu.Lock()
	defer h.server.mu.Unlock()
	h.server.stops++
	return h.server.stopErr
}

type stubCapturer struct {
	mu     sync.Mutex
	themes []core.Theme
	fail   map[core.Theme]error
	delays []time.Duration
}

func (c *stubCapturer) Capture(ctx context.Context, figureDir string, theme core.Theme, delay time.Duration) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.themes = append(c.themes, theme)
	c.delays = append(c.delays, delay)
	if err := c.fail[theme]; err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, 12, 8))
	fill := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if theme == core.ThemeDark {
		fill = color.RGBA{R: 33, G: 37, B: 41, A: 255}
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			img.Set(x, y, fill)
		}
	}
	return img, nil
}

func (c *stubCapturer) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.themes)
}

type generateFixture struct {
	fs       *fs.OSFileSystem
	server   *stubServer
	capturer *stubCapturer
	service  *GenerateService
}

func newGenerateFixture() *generateFixture {
	osfs := fs.NewOSFileSystem()
	server := &stubServer{}
	capturer := &stubCapturer{}
	preview := NewPreviewService(osfs, nil)
	return &generateFixture{
		fs:       osfs,
		server:   server,
		capturer: capturer,
		service:  NewGenerateService(osfs, preview, server, capturer, nil),
	}
}
