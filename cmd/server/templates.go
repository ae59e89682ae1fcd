package main

import (
	"html/template"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/integrations"
)

// LoadTemplates parses HTML templates for integrations
func LoadTemplates() (*template.Template, error) {
	return integrations.Templates()
}
