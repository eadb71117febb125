package cli

import (
	"fmt"

	"github.com/3-lines-studio/genfig/internal/adapters/fs"
	"github.com/3-lines-studio/genfig/internal/core"
	"gopkg.in/yaml.v3"
)

// LoadOptions reads figure options from a YAML or JSON file. An empty path
// means no options.
func LoadOptions(fsys fs.FileSystem, path string) (core.Options, error) {
	if path == "" {
		return core.Options{}, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}

	var opts core.Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parse options file %s: %w", path, err)
	}
	if opts == nil {
		opts = core.Options{}
	}

	if _, err := core.FromAny(opts); err != nil {
		return nil, fmt.Errorf("options file %s: %w", path, err)
	}
	return opts, nil
}
