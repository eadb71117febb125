package usecase

import (
	"fmt"

	"github.com/3-lines-studio/genfig/internal/core"
	"github.com/3-lines-studio/genfig/internal/page"
	"github.com/google/uuid"
)

type PreviewInput struct {
	FigureDir string
	Mode      core.PreviewMode
	Options   core.Options
}

type PreviewService struct {
	fs      FileSystem
	scripts []string
	newID   func() string
}

func NewPreviewService(fs FileSystem, scripts []string) *PreviewService {
	if scripts == nil {
		scripts = page.DefaultScripts
	}
	return &PreviewService{
		fs:      fs,
		scripts: scripts,
		newID:   uuid.NewString,
	}
}

// MakePreview writes the preview document into the figure's build directory
// and returns its path. The document is regenerated on every call.
func (s *PreviewService) MakePreview(input PreviewInput) (string, error) {
	entryPath := core.EntryPointPath(input.FigureDir)
	if !s.fs.FileExists(entryPath) {
		return "", fmt.Errorf("%w: %s", core.ErrMissingEntryPoint, entryPath)
	}

	optionsJSON, err := core.CanonicalOptions(input.Options)
	if err != nil {
		return "", fmt.Errorf("serialize figure options: %w", err)
	}

	assetPath, err := core.AssetPath(core.ServeRoot(input.FigureDir), input.FigureDir)
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(core.BuildDir(input.FigureDir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create build directory: %w", err)
	}

	mode := input.Mode
	if mode == "" {
		mode = core.PreviewDynamic
	}

	html, err := page.RenderPreview(page.PreviewData{
		AssetPath:   assetPath,
		Mode:        mode,
		ElementID:   s.newID(),
		OptionsJSON: optionsJSON,
		Scripts:     s.scripts,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}

	previewPath := core.PreviewPath(input.FigureDir, mode)
	if err := s.fs.WriteFile(previewPath, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("failed to write preview: %w", err)
	}

	return previewPath, nil
}
