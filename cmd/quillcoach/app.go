package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lamim/quillcoach/internal/api"
	"github.com/lamim/quillcoach/internal/coach"
	"github.com/lamim/quillcoach/internal/config"
	"github.com/lamim/quillcoach/internal/logging"
	"github.com/lamim/quillcoach/internal/metrics"
	"github.com/lamim/quillcoach/internal/session"
)

// app holds everything a command needs to run tasks
type app struct {
	cfg       *config.Config
	coach     *coach.Coach
	logger    *slog.Logger
	collector *metrics.Collector
	logCloser io.Closer
	metrics   *http.Server
}

// overrides are command-line replacements for [model] settings
type overrides struct {
	provider string
	baseURL  string
	model    string
}

// applyOverrides updates the model config from flags and validates the
// result. Switching provider without a base URL selects that provider's
// default endpoint.
func applyOverrides(cfg *config.Config, o overrides) error {
	if o.provider != "" {
		p := strings.ToLower(o.provider)
		if p != cfg.Model.Provider && o.baseURL == "" {
			cfg.Model.BaseURL = ""
		}
		cfg.Model.Provider = p
	}
	if o.baseURL != "" {
		cfg.Model.BaseURL = o.baseURL
	}
	if o.model != "" {
		cfg.Model.ModelName = o.model
	}

	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.ValidateInputs(); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	return nil
}

func newApp() (*app, error) {
	// Load environment variables from file if it exists
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			if verbose && !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "Warning: failed to load env file: %v\n", err)
			}
		} else if verbose {
			fmt.Fprintf(os.Stderr, "Loaded env file: %s\n", envFile)
		}
	}

	cfg, secrets, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := applyOverrides(cfg, overrides{provider: provider, baseURL: baseURL, model: modelName}); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	logger, logCloser, err := logging.Setup(os.Stderr, level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	collector := metrics.NewCollector(logger)
	apiKey := secrets.GetAPIKey(cfg.Model)
	client := api.NewClient(cfg.Model, apiKey, logger, collector)
	log := session.New(cfg.Session.MaxStoredText)

	logger.Info("QuillCoach starting",
		"version", Version,
		"provider", cfg.Model.Provider,
		"base_url", cfg.Model.BaseURL,
		"model", client.Model(),
		"has_api_key", apiKey != "",
		"session_id", log.ID())

	a := &app{
		cfg:       cfg,
		coach:     coach.New(cfg, client, log, collector, logger),
		logger:    logger,
		collector: collector,
		logCloser: logCloser,
	}

	if metricsAddr != "" {
		a.metrics = collector.Serve(metricsAddr)
	}

	return a, nil
}

func (a *app) Close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Warn("Failed to stop metrics server", "error", err)
		}
	}
	if err := a.logCloser.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
}
