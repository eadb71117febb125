package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/3-lines-studio/genfig/internal/adapters/fs"
	"github.com/3-lines-studio/genfig/internal/core"
)

func TestLoadOptions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "yaml",
			content: "amplitude: 2\ncolors:\n  - red\n  - blue\nlabels:\n  x: time\n",
			want:    `{"amplitude": 2, "colors": ["red", "blue"], "labels": {"x": "time"}}`,
		},
		{
			name:    "json",
			content: `{"labels": {"x": "time"}, "amplitude": 2.0}`,
			want:    `{"amplitude": 2, "labels": {"x": "time"}}`,
		},
		{
			name:    "empty file",
			content: "",
			want:    "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "options.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			opts, err := LoadOptions(fs.NewOSFileSystem(), path)
			if err != nil {
				t.Fatalf("LoadOptions() error = %v", err)
			}

			got, err := core.CanonicalOptions(opts)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLoadOptionsNoFile(t *testing.T) {
	opts, err := LoadOptions(fs.NewOSFileSystem(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 0 {
		t.Errorf("Expected no options, got %v", opts)
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadOptions(fs.NewOSFileSystem(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("- just\n- a list\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(fs.NewOSFileSystem(), bad); err == nil {
		t.Error("Expected error for a top-level list")
	}

	nonFinite := filepath.Join(dir, "nan.yaml")
	if err := os.WriteFile(nonFinite, []byte("x: .nan\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(fs.NewOSFileSystem(), nonFinite); !errors.Is(err, core.ErrSerialization) {
		t.Errorf("Expected ErrSerialization, got %v", err)
	}
}
