package render

import (
	"os"
	"path/filepath"
)

// TemplateLoader handles loading HTML templates from disk
type TemplateLoader struct {
	templatesDir string
}

// NewTemplateLoader creates a template loader rooted at templatesDir
func NewTemplateLoader(templatesDir string) *TemplateLoader {
	return &TemplateLoader{templatesDir: templatesDir}
}

// LoadPageTemplate loads the dashboard page template from file
func (t *TemplateLoader) LoadPageTemplate() (string, error) {
	return t.load("page.html")
}

// LoadStatusTemplate loads the operator status page template from file
func (t *TemplateLoader) LoadStatusTemplate() (string, error) {
	return t.load("status_page.html")
}

func (t *TemplateLoader) load(name string) (string, error) {
	content, err := os.ReadFile(filepath.Join(t.templatesDir, name))
	if err != nil {
		return "", err
	}
	return string(content), nil
}
