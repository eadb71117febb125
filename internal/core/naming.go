package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	EntryPointName = "main.js"
	ScriptExt      = ".js"
	BuildDirName   = "_build"
	ArtifactExt    = ".png"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Themes lists the variants captured for every figure, in capture order.
var Themes = []Theme{ThemeLight, ThemeDark}

type PreviewMode string

const (
	PreviewDynamic PreviewMode = "dynamic"
	PreviewStatic  PreviewMode = "static"
)

func ParsePreviewMode(s string) (PreviewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dynamic":
		return PreviewDynamic, nil
	case "static":
		return PreviewStatic, nil
	}
	return "", fmt.Errorf("invalid preview mode %q: must be either 'static' or 'dynamic'", s)
}

// EntryFunction is the name of the function the preview calls in the
// figure's module.
func (m PreviewMode) EntryFunction() string {
	return "setup_" + string(m)
}

func PreviewFileName(mode PreviewMode) string {
	return "preview-" + string(mode) + ".html"
}

func ArtifactFileName(basename string, theme Theme) string {
	return basename + "-" + string(theme) + ArtifactExt
}

func BuildDir(figureDir string) string {
	return filepath.Join(figureDir, BuildDirName)
}

func ArtifactPath(figureDir, basename string, theme Theme) string {
	return filepath.Join(BuildDir(figureDir), ArtifactFileName(basename, theme))
}

func PreviewPath(figureDir string, mode PreviewMode) string {
	return filepath.Join(BuildDir(figureDir), PreviewFileName(mode))
}

func EntryPointPath(figureDir string) string {
	return filepath.Join(figureDir, EntryPointName)
}
