package publish

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/3-lines-studio/genfig/internal/adapters/fs"
)

// FiguresPrefix is where published figures live below an output root, matching
// the paths the document templates reference.
const FiguresPrefix = "_static/vis/js/figures"

type LocalPublisher struct {
	fs     fs.FileSystem
	outDir string
}

func NewLocalPublisher(fsys fs.FileSystem, outDir string) *LocalPublisher {
	return &LocalPublisher{
		fs:     fsys,
		outDir: outDir,
	}
}

func (p *LocalPublisher) FigureDir(figureName string) string {
	return filepath.Join(p.outDir, filepath.FromSlash(FiguresPrefix), figureName)
}

func (p *LocalPublisher) Publish(ctx context.Context, figureName string, files []string) error {
	dstDir := p.FigureDir(figureName)
	if err := p.fs.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dstDir, err)
	}

	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := filepath.Join(dstDir, filepath.Base(src))
		if err := p.fs.CopyFile(src, dst); err != nil {
			return fmt.Errorf("failed to copy %s: %w", src, err)
		}
	}

	return nil
}
