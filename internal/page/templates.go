package page

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/3-lines-studio/genfig/internal/core"
)

// DefaultScripts are loaded before the figure module; figures draw with p5.
var DefaultScripts = []string{
	"https://cdn.jsdelivr.net/npm/p5@1.9.4/lib/p5.min.js",
}

type PreviewData struct {
	// AssetPath locates the figure directory relative to the served root.
	AssetPath string
	Mode      core.PreviewMode
	ElementID string
	// OptionsJSON is the serialized configuration; empty means "{}".
	OptionsJSON string
	Scripts     []string
	Theme       core.Theme
}

func RenderPreview(data PreviewData) (string, error) {
	if data.AssetPath == "" {
		return "", fmt.Errorf("missing asset path")
	}

	if data.ElementID == "" {
		return "", fmt.Errorf("missing element id")
	}

	if data.Mode == "" {
		data.Mode = core.PreviewDynamic
	}

	if data.Theme == "" {
		data.Theme = core.ThemeLight
	}

	optionsJSON := strings.TrimSpace(data.OptionsJSON)
	if optionsJSON == "" {
		optionsJSON = "{}"
	}
	escapedOptions := strings.ReplaceAll(optionsJSON, "</", "<\\/")

	moduleSrc, err := json.Marshal(core.NormalizePath(data.AssetPath) + "/" + core.EntryPointName)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := PreviewTemplate.Execute(&buf, map[string]any{
		"Title":         data.AssetPath,
		"Theme":         string(data.Theme),
		"Scripts":       data.Scripts,
		"ElementID":     data.ElementID,
		"EntryFunction": template.JS(data.Mode.EntryFunction()),
		"ModuleSrc":     template.JS(moduleSrc),
		"Options":       template.JS(escapedOptions),
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
