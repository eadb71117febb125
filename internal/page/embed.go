package page

import (
	_ "embed"
	"html/template"
)

//go:embed preview.html
var previewTemplateSource string

var PreviewTemplate = template.Must(template.New("preview").Parse(previewTemplateSource))
