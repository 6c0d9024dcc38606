package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lamim/quillcoach/pkg/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Model.Provider = "bedrock" },
			wantErr: "model.provider",
		},
		{
			name:    "missing model name",
			mutate:  func(c *Config) { c.Model.ModelName = "" },
			wantErr: "model.model_name",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.Model.Temperature = 2.5 },
			wantErr: "model.temperature",
		},
		{
			name:    "top_p out of range",
			mutate:  func(c *Config) { c.Model.TopP = 1.5 },
			wantErr: "model.top_p",
		},
		{
			name:    "timeout too large",
			mutate:  func(c *Config) { c.Model.HTTPTimeoutSeconds = MaxHTTPTimeoutSeconds + 1 },
			wantErr: "model.http_timeout_seconds",
		},
		{
			name:    "stored text too large",
			mutate:  func(c *Config) { c.Session.MaxStoredText = MaxStoredTextLimit + 1 },
			wantErr: "session.max_stored_text",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "chatty" },
			wantErr: "logging.level",
		},
		{
			name:    "blank default genre",
			mutate:  func(c *Config) { c.Defaults.Genre = "  " },
			wantErr: "defaults.genre",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Model.Provider != ProviderOllama {
		t.Errorf("Expected provider %q, got %q", ProviderOllama, cfg.Model.Provider)
	}
	if cfg.Model.BaseURL != "http://localhost:11434" {
		t.Errorf("Unexpected base URL %q", cfg.Model.BaseURL)
	}
	if cfg.Model.ModelName != "llama3.2" {
		t.Errorf("Unexpected model %q", cfg.Model.ModelName)
	}
	if cfg.Session.MaxStoredText != 500 {
		t.Errorf("Expected max_stored_text 500, got %d", cfg.Session.MaxStoredText)
	}
	if cfg.Defaults.Genre != "Fiction" || cfg.Defaults.Element != "Voice" {
		t.Errorf("Unexpected defaults %+v", cfg.Defaults)
	}

	openai := Config{Model: ModelConfig{Provider: "OpenAI"}}
	ApplyDefaults(&openai)
	if openai.Model.Provider != ProviderOpenAI || openai.Model.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("Unexpected openai defaults: %+v", openai.Model)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[model]
provider = "openai"
base_url = "http://localhost:8080/v1"
model_name = "qwen2.5-14b"
temperature = 0.4
use_json_mode = true

[session]
max_stored_text = 200

[defaults]
genre = "Poetry"

[prompt_templates]
review = "You are a poetry editor. {{.Text}}"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, secrets, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if secrets == nil {
		t.Fatal("Expected secrets")
	}

	if cfg.Model.Provider != ProviderOpenAI || cfg.Model.ModelName != "qwen2.5-14b" {
		t.Errorf("Unexpected model config: %+v", cfg.Model)
	}
	if cfg.Model.Temperature != 0.4 || !cfg.Model.UseJSONMode {
		t.Errorf("Unexpected sampling config: %+v", cfg.Model)
	}
	if cfg.Model.HTTPTimeoutSeconds != 120 {
		t.Errorf("Expected default timeout, got %d", cfg.Model.HTTPTimeoutSeconds)
	}
	if cfg.Session.MaxStoredText != 200 {
		t.Errorf("Expected max_stored_text 200, got %d", cfg.Session.MaxStoredText)
	}
	if cfg.Defaults.Genre != "Poetry" || cfg.Defaults.Element != "Voice" {
		t.Errorf("Unexpected defaults %+v", cfg.Defaults)
	}

	want := map[models.TaskKind]string{models.TaskReview: "You are a poetry editor. {{.Text}}"}
	if diff := cmp.Diff(want, cfg.PromptTemplates.Overrides()); diff != "" {
		t.Errorf("Overrides() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[model\nprovider ="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Expected parse error, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(invalid, []byte("[model]\ntemperature = 5.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(invalid); err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, _, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Expected defaults (-want +got):\n%s", diff)
	}
}

func TestSecrets_GetAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "generic-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("OLLAMA_API_KEY", "")

	secrets := LoadSecrets()

	tests := []struct {
		name string
		mc   ModelConfig
		want string
	}{
		{"openai host", ModelConfig{Provider: ProviderOpenAI, BaseURL: "https://api.openai.com/v1"}, "openai-key"},
		{"other openai-compatible host", ModelConfig{Provider: ProviderOpenAI, BaseURL: "http://localhost:8080/v1"}, "generic-key"},
		{"ollama without own key", ModelConfig{Provider: ProviderOllama, BaseURL: "http://localhost:11434"}, "generic-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := secrets.GetAPIKey(tt.mc); got != tt.want {
				t.Errorf("GetAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("# comment\nQUILLCOACH_TEST_KEY=\"from-file\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUILLCOACH_TEST_KEY", "")
	os.Unsetenv("QUILLCOACH_TEST_KEY")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("QUILLCOACH_TEST_KEY"); got != "from-file" {
		t.Errorf("Expected value from env file, got %q", got)
	}
}
