package util

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// forbiddenDirectives are template actions that custom templates may not use
var forbiddenDirectives = []string{"{{call", "{{define", "{{template", "{{block"}

// templateCache holds parsed templates keyed by their source text
var templateCache sync.Map

// RenderTemplate renders a template string with the given data.
// Parsed templates are cached by source, so rendering the same prompt
// repeatedly only parses it once. Values in data are inserted verbatim;
// they are never parsed as template source.
func RenderTemplate(tmpl string, data any) (string, error) {
	t, err := parseTemplate(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ValidateTemplate checks that tmpl parses and uses no forbidden directives
func ValidateTemplate(tmpl string) error {
	_, err := parseTemplate(tmpl)
	return err
}

func parseTemplate(tmpl string) (*template.Template, error) {
	if cached, ok := templateCache.Load(tmpl); ok {
		return cached.(*template.Template), nil
	}

	for _, directive := range forbiddenDirectives {
		if strings.Contains(tmpl, directive) {
			return nil, fmt.Errorf("template contains forbidden directive: %s", directive)
		}
	}

	t, err := template.New("prompt").
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	actual, _ := templateCache.LoadOrStore(tmpl, t)
	return actual.(*template.Template), nil
}

// ClearTemplateCache drops all cached templates
func ClearTemplateCache() {
	templateCache.Range(func(key, _ any) bool {
		templateCache.Delete(key)
		return true
	})
}

// TruncateString truncates a string to maxLen runes (Unicode-safe) and marks
// the cut with "...". Used for log previews.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// TruncateRunes keeps at most maxLen runes of s with no marker
func TruncateRunes(s string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
