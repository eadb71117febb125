package usecase

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"time"

	"github.com/3-lines-studio/genfig/internal/core"
)

type FreshnessOracle struct {
	fs FileSystem
}

func NewFreshnessOracle(fs FileSystem) *FreshnessOracle {
	return &FreshnessOracle{fs: fs}
}

// IsUpToDate reports whether both themed artifacts exist and are strictly
// newer than every script under figureDir. A missing artifact is never up to
// date.
func (o *FreshnessOracle) IsUpToDate(figureDir, basename string) (bool, error) {
	artifactTimes := make([]time.Time, 0, len(core.Themes))
	for _, theme := range core.Themes {
		info, err := o.fs.Stat(core.ArtifactPath(figureDir, basename, theme))
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				return false, nil
			}
			return false, fmt.Errorf("stat %s artifact: %w", theme, err)
		}
		artifactTimes = append(artifactTimes, info.ModTime())
	}

	newest, err := o.NewestSource(figureDir)
	if err != nil {
		return false, err
	}

	return core.IsFresh(artifactTimes, newest), nil
}

// NewestSource returns the latest modification time among the figure's
// scripts, or the Unix epoch when there are none.
func (o *FreshnessOracle) NewestSource(figureDir string) (time.Time, error) {
	newest := time.Unix(0, 0)

	err := o.fs.WalkDir(figureDir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != figureDir && d.Name() == core.BuildDirName {
				return iofs.SkipDir
			}
			return nil
		}
		if !core.IsSourceScript(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("scan figure sources: %w", err)
	}

	return newest, nil
}
