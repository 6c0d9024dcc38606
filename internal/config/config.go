package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/lamim/quillcoach/pkg/models"
)

// Supported gateway providers
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config represents the complete application configuration
type Config struct {
	Model           ModelConfig     `toml:"model"`
	Session         SessionConfig   `toml:"session"`
	Logging         LoggingConfig   `toml:"logging"`
	Defaults        DefaultsConfig  `toml:"defaults"`
	PromptTemplates PromptTemplates `toml:"prompt_templates"`
}

// ModelConfig describes the model endpoint
type ModelConfig struct {
	Provider           string  `toml:"provider"` // "ollama" (native /api/chat) or "openai" (/chat/completions)
	BaseURL            string  `toml:"base_url"`
	ModelName          string  `toml:"model_name"`
	Temperature        float64 `toml:"temperature"`
	TopP               float64 `toml:"top_p"`
	MaxOutputTokens    int     `toml:"max_output_tokens"`
	HTTPTimeoutSeconds int     `toml:"http_timeout_seconds"` // Request timeout (default 120)
	UseJSONMode        bool    `toml:"use_json_mode"`        // Ask the endpoint for JSON-only output
	StripThinkTags     bool    `toml:"strip_think_tags"`     // Drop <think> blocks before parsing
}

// SessionConfig holds session log settings
type SessionConfig struct {
	MaxStoredText int `toml:"max_stored_text"` // Runes of submitted text kept per record (default 500)
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`  // Optional JSON log file
}

// DefaultsConfig holds the values used when a prompt is left blank
type DefaultsConfig struct {
	Genre   string `toml:"genre"`
	Element string `toml:"element"`
}

// PromptTemplates holds optional per-task header templates. The reply
// schema is always appended after the header.
type PromptTemplates struct {
	Review           string `toml:"review"`
	ElementAnalysis  string `toml:"element_analysis"`
	PromptGeneration string `toml:"prompt_generation"`
	SceneExpansion   string `toml:"scene_expansion"`
	DialogueCoaching string `toml:"dialogue_coaching"`
}

// Overrides returns the non-empty templates keyed by task kind
func (p PromptTemplates) Overrides() map[models.TaskKind]string {
	out := make(map[models.TaskKind]string)
	for kind, tmpl := range map[models.TaskKind]string{
		models.TaskReview:           p.Review,
		models.TaskElementAnalysis:  p.ElementAnalysis,
		models.TaskPromptGeneration: p.PromptGeneration,
		models.TaskSceneExpansion:   p.SceneExpansion,
		models.TaskDialogueCoaching: p.DialogueCoaching,
	} {
		if tmpl != "" {
			out[kind] = tmpl
		}
	}
	return out
}

// Secrets holds sensitive credentials loaded from environment variables
type Secrets struct {
	APIKeys map[string]string
}

const (
	// MaxStoredTextLimit caps session.max_stored_text
	MaxStoredTextLimit = 100000
	// MaxHTTPTimeoutSeconds caps model.http_timeout_seconds
	MaxHTTPTimeoutSeconds = 3600
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validateModelConfig(c.Model); err != nil {
		return err
	}

	if c.Session.MaxStoredText < 1 {
		return fmt.Errorf("session.max_stored_text must be at least 1")
	}
	if c.Session.MaxStoredText > MaxStoredTextLimit {
		return fmt.Errorf("session.max_stored_text must not exceed %d (got %d)", MaxStoredTextLimit, c.Session.MaxStoredText)
	}

	validLevel := false
	for _, level := range validLogLevels {
		if strings.EqualFold(c.Logging.Level, level) {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("logging.level must be one of: %s (got %q)", strings.Join(validLogLevels, ", "), c.Logging.Level)
	}

	if strings.TrimSpace(c.Defaults.Genre) == "" {
		return fmt.Errorf("defaults.genre must not be blank")
	}
	if strings.TrimSpace(c.Defaults.Element) == "" {
		return fmt.Errorf("defaults.element must not be blank")
	}

	return nil
}

func validateModelConfig(mc ModelConfig) error {
	if mc.Provider != ProviderOllama && mc.Provider != ProviderOpenAI {
		return fmt.Errorf("model.provider must be %q or %q (got %q)", ProviderOllama, ProviderOpenAI, mc.Provider)
	}
	if mc.BaseURL == "" {
		return fmt.Errorf("model.base_url is required")
	}
	if mc.ModelName == "" {
		return fmt.Errorf("model.model_name is required")
	}
	if mc.Temperature < 0 || mc.Temperature > 2 {
		return fmt.Errorf("model.temperature must be between 0 and 2")
	}
	if mc.TopP < 0 || mc.TopP > 1 {
		return fmt.Errorf("model.top_p must be between 0 and 1")
	}
	if mc.MaxOutputTokens < 1 {
		return fmt.Errorf("model.max_output_tokens must be at least 1")
	}
	if mc.HTTPTimeoutSeconds < 1 || mc.HTTPTimeoutSeconds > MaxHTTPTimeoutSeconds {
		return fmt.Errorf("model.http_timeout_seconds must be between 1 and %d (got %d)", MaxHTTPTimeoutSeconds, mc.HTTPTimeoutSeconds)
	}
	return nil
}

// LoadSecrets loads sensitive credentials from environment variables
func LoadSecrets() *Secrets {
	secrets := &Secrets{
		APIKeys: make(map[string]string),
	}

	// Generic key for any OpenAI-compatible provider
	if key := os.Getenv("API_KEY"); key != "" {
		secrets.APIKeys["generic"] = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		secrets.APIKeys["openai"] = key
	}
	if key := os.Getenv("OLLAMA_API_KEY"); key != "" {
		secrets.APIKeys["ollama"] = key
	}

	return secrets
}

// GetAPIKey returns the API key for a model endpoint. Provider-specific keys
// win over the generic API_KEY; a local Ollama usually needs none.
func (s *Secrets) GetAPIKey(mc ModelConfig) string {
	if strings.Contains(mc.BaseURL, "openai.com") {
		if key := s.APIKeys["openai"]; key != "" {
			return key
		}
	}
	if mc.Provider == ProviderOllama {
		if key := s.APIKeys["ollama"]; key != "" {
			return key
		}
	}
	return s.APIKeys["generic"]
}
