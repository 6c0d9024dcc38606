package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file and environment variables
func Load(configPath string) (*Config, *Secrets, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(data)
}

// LoadOrDefault behaves like Load but falls back to the built-in defaults
// when configPath does not exist
func LoadOrDefault(configPath string) (*Config, *Secrets, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return parse(nil)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, *Secrets, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ValidateInputs(); err != nil {
		return nil, nil, fmt.Errorf("input validation failed: %w", err)
	}

	return &cfg, LoadSecrets(), nil
}

// LoadEnvFile loads KEY=VALUE pairs from an env file without overriding
// variables already set in the environment
func LoadEnvFile(path string) error {
	return godotenv.Load(path)
}

// ApplyDefaults sets default values for optional configuration fields
func ApplyDefaults(cfg *Config) {
	if cfg.Model.Provider == "" {
		cfg.Model.Provider = ProviderOllama
	}
	cfg.Model.Provider = strings.ToLower(cfg.Model.Provider)
	if cfg.Model.BaseURL == "" {
		if cfg.Model.Provider == ProviderOpenAI {
			cfg.Model.BaseURL = "https://api.openai.com/v1"
		} else {
			cfg.Model.BaseURL = "http://localhost:11434"
		}
	}
	if cfg.Model.ModelName == "" {
		cfg.Model.ModelName = "llama3.2"
	}
	if cfg.Model.Temperature == 0 {
		cfg.Model.Temperature = 0.7
	}
	if cfg.Model.TopP == 0 {
		cfg.Model.TopP = 1.0
	}
	if cfg.Model.MaxOutputTokens == 0 {
		cfg.Model.MaxOutputTokens = 4096
	}
	if cfg.Model.HTTPTimeoutSeconds == 0 {
		cfg.Model.HTTPTimeoutSeconds = 120
	}

	if cfg.Session.MaxStoredText == 0 {
		cfg.Session.MaxStoredText = 500
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Defaults.Genre == "" {
		cfg.Defaults.Genre = "Fiction"
	}
	if cfg.Defaults.Element == "" {
		cfg.Defaults.Element = "Voice"
	}
}

// Default returns a validated configuration built only from defaults
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}
