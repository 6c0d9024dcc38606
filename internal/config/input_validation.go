package config

import (
	"fmt"
	"net/url"
	"unicode"

	"github.com/lamim/quillcoach/internal/util"
)

const (
	// MaxModelNameLength is the maximum allowed length for model names
	MaxModelNameLength = 100

	// MaxTemplateSize is the maximum allowed size for template content
	MaxTemplateSize = 50 * 1024 // 50KB

	// MaxDefaultLength bounds defaults.genre and defaults.element
	MaxDefaultLength = 100
)

// ValidateInputs performs additional validation on user-controllable fields
func (c *Config) ValidateInputs() error {
	if err := validateModelName(c.Model.ModelName); err != nil {
		return err
	}

	if err := validateBaseURL(c.Model.BaseURL); err != nil {
		return err
	}

	for name, value := range map[string]string{
		"defaults.genre":   c.Defaults.Genre,
		"defaults.element": c.Defaults.Element,
	} {
		if len(value) > MaxDefaultLength {
			return fmt.Errorf("%s exceeds maximum length of %d characters (got %d)", name, MaxDefaultLength, len(value))
		}
		if containsControlChars(value) {
			return fmt.Errorf("%s contains invalid control characters", name)
		}
	}

	return c.validateTemplates()
}

// validateModelName checks model name for security issues
func validateModelName(modelName string) error {
	if len(modelName) > MaxModelNameLength {
		return fmt.Errorf("model name exceeds maximum length of %d (got %d)",
			MaxModelNameLength, len(modelName))
	}

	if containsControlChars(modelName) {
		return fmt.Errorf("model name contains invalid control characters")
	}

	return nil
}

// validateBaseURL checks that the base URL is properly formatted and safe
func validateBaseURL(baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid model.base_url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("model.base_url must use http or https scheme (got %s)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("model.base_url must have a host")
	}

	return nil
}

// validateTemplates checks custom header templates for size and syntax
func (c *Config) validateTemplates() error {
	templates := []struct {
		name  string
		value string
	}{
		{"review", c.PromptTemplates.Review},
		{"element_analysis", c.PromptTemplates.ElementAnalysis},
		{"prompt_generation", c.PromptTemplates.PromptGeneration},
		{"scene_expansion", c.PromptTemplates.SceneExpansion},
		{"dialogue_coaching", c.PromptTemplates.DialogueCoaching},
	}

	for _, tmpl := range templates {
		if tmpl.value == "" {
			continue
		}
		if len(tmpl.value) > MaxTemplateSize {
			return fmt.Errorf("template '%s' exceeds maximum size of %d bytes (got %d)",
				tmpl.name, MaxTemplateSize, len(tmpl.value))
		}
		if err := util.ValidateTemplate(tmpl.value); err != nil {
			return fmt.Errorf("template '%s': %w", tmpl.name, err)
		}
	}

	return nil
}

// containsControlChars checks if a string contains control characters
// (excluding newlines, tabs, and carriage returns which are acceptable)
func containsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return true
		}
	}
	return false
}
