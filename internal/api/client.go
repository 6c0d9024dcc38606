package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lamim/quillcoach/internal/config"
	"github.com/lamim/quillcoach/internal/metrics"
	"github.com/lamim/quillcoach/internal/util"
)

const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests
	DefaultHTTPTimeout = 120 * time.Second

	// maxErrorBody bounds how much of a failed response is quoted in errors
	maxErrorBody = 512
)

// Gateway is the text-completion service the coach talks to. One call is
// one round trip: ordered messages in, one reply text out.
type Gateway interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Client sends chat requests to an Ollama or OpenAI-compatible endpoint.
// It makes exactly one HTTP request per Complete call; failures are returned
// to the caller untouched by any retry or backoff.
type Client struct {
	httpClient *http.Client
	modelCfg   config.ModelConfig
	apiKey     string
	logger     *slog.Logger
	metrics    *metrics.Collector
}

// NewClient creates a new API client for the configured model
func NewClient(modelCfg config.ModelConfig, apiKey string, logger *slog.Logger, collector *metrics.Collector) *Client {
	timeout := time.Duration(modelCfg.HTTPTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		modelCfg: modelCfg,
		apiKey:   apiKey,
		logger:   logger.With("component", "gateway"),
		metrics:  collector,
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.modelCfg.ModelName
}

// Complete sends messages to the model and returns the reply text
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	start := time.Now()

	var (
		content string
		err     error
	)
	switch c.modelCfg.Provider {
	case config.ProviderOllama:
		content, err = c.ollamaChat(ctx, messages)
	default:
		content, err = c.openAIChat(ctx, messages)
	}

	duration := time.Since(start)
	c.metrics.RecordGatewayRequest(c.modelCfg.ModelName, duration, err == nil)
	if err != nil {
		c.logger.Debug("Model request failed",
			"model", c.modelCfg.ModelName,
			"duration", duration,
			"error", err)
		return "", err
	}

	if c.modelCfg.StripThinkTags && util.ContainsThinkTags(content) {
		reasoning, answer := util.SplitThinkAndAnswer(content)
		c.logger.Debug("Stripped reasoning from reply",
			"reasoning_length", len(reasoning),
			"answer_length", len(answer))
		content = answer
	}

	c.logger.Debug("Model request complete",
		"model", c.modelCfg.ModelName,
		"duration", duration,
		"reply_length", len(content))

	return content, nil
}

func (c *Client) openAIChat(ctx context.Context, messages []Message) (string, error) {
	req := ChatCompletionRequest{
		Model:       c.modelCfg.ModelName,
		Messages:    messages,
		Temperature: c.modelCfg.Temperature,
		TopP:        c.modelCfg.TopP,
		MaxTokens:   c.modelCfg.MaxOutputTokens,
		N:           1,
	}
	if c.modelCfg.UseJSONMode {
		req.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	body, status, err := c.post(ctx, "chat/completions", req)
	if err != nil {
		return "", err
	}

	if status != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", &APIError{
				Message:    errResp.Error.Message,
				StatusCode: status,
				Type:       errResp.Error.Type,
				Code:       errResp.Error.Code,
			}
		}
		return "", statusError(status, body)
	}

	var resp ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned in response")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) ollamaChat(ctx context.Context, messages []Message) (string, error) {
	req := OllamaChatRequest{
		Model:    c.modelCfg.ModelName,
		Messages: messages,
		Stream:   false,
		Options: &OllamaOptions{
			Temperature: c.modelCfg.Temperature,
			TopP:        c.modelCfg.TopP,
			NumPredict:  c.modelCfg.MaxOutputTokens,
		},
	}
	if c.modelCfg.UseJSONMode {
		req.Format = "json"
	}

	body, status, err := c.post(ctx, "api/chat", req)
	if err != nil {
		return "", err
	}

	if status != http.StatusOK {
		var errResp OllamaErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return "", &APIError{Message: errResp.Error, StatusCode: status}
		}
		return "", statusError(status, body)
	}

	var resp OllamaChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return resp.Message.Content, nil
}

// post sends payload as JSON to path under the base URL and returns the
// raw response body and status code
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.endpoint(path)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	c.logger.Debug("API request",
		"endpoint", endpoint,
		"has_key", c.apiKey != "",
		"body_bytes", buf.Len())

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, &APIError{Message: fmt.Sprintf("request failed: %v", err), Err: err}
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	return respBody, httpResp.StatusCode, nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.modelCfg.BaseURL, "/") + "/" + path
}

func statusError(status int, body []byte) *APIError {
	return &APIError{
		Message:    fmt.Sprintf("API request failed with status %d: %s", status, util.TruncateString(string(body), maxErrorBody)),
		StatusCode: status,
	}
}

// APIError represents an error returned by the API or the transport
type APIError struct {
	Message    string
	StatusCode int
	Type       string
	Code       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// Unwrap exposes the transport error, if any
func (e *APIError) Unwrap() error {
	return e.Err
}
