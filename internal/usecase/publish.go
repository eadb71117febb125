package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/3-lines-studio/genfig/internal/core"
)

type PublishInput struct {
	FigureDir string
	Basename  string
}

type PublishService struct {
	fs        FileSystem
	publisher Publisher
}

func NewPublishService(fs FileSystem, publisher Publisher) *PublishService {
	return &PublishService{
		fs:        fs,
		publisher: publisher,
	}
}

// Publish hands both themed artifacts of basename to the publisher under the
// figure's directory name.
func (s *PublishService) Publish(ctx context.Context, input PublishInput) error {
	if s.publisher == nil {
		return nil
	}

	files := make([]string, 0, len(core.Themes))
	for _, theme := range core.Themes {
		path := core.ArtifactPath(input.FigureDir, input.Basename, theme)
		if !s.fs.FileExists(path) {
			return fmt.Errorf("missing %s artifact %s", theme, path)
		}
		files = append(files, path)
	}

	figureName := filepath.Base(filepath.Clean(input.FigureDir))
	if err := s.publisher.Publish(ctx, figureName, files); err != nil {
		return fmt.Errorf("publish %s: %w", figureName, err)
	}
	return nil
}
