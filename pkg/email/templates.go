package email

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// loadTemplates gömülü HTML şablonlarını ayrıştırır
func loadTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("could not parse email templates: %w", err)
	}
	return tmpl, nil
}
