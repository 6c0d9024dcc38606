// Package coach runs the writing-coach tasks: build the instruction, make
// one model round trip, and recover the structured reply.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lamim/quillcoach/internal/api"
	"github.com/lamim/quillcoach/internal/config"
	"github.com/lamim/quillcoach/internal/metrics"
	"github.com/lamim/quillcoach/internal/prompts"
	"github.com/lamim/quillcoach/internal/session"
	"github.com/lamim/quillcoach/internal/util"
	"github.com/lamim/quillcoach/pkg/models"
)

// ErrGateway matches any failure of the model gateway
var ErrGateway = errors.New("model gateway failed")

// GatewayError carries a gateway failure back to the caller. errors.Is
// matches ErrGateway; errors.As reaches the gateway's own error.
type GatewayError struct {
	Task models.TaskKind
	Err  error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Task, ErrGateway, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrGateway
func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

// Coach handles the five coaching tasks
type Coach struct {
	gateway  api.Gateway
	builder  *prompts.Builder
	session  *session.Log
	defaults config.DefaultsConfig
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// New creates a coach. A nil log starts a fresh session sized from cfg.
func New(cfg *config.Config, gateway api.Gateway, log *session.Log, collector *metrics.Collector, logger *slog.Logger) *Coach {
	if log == nil {
		log = session.New(cfg.Session.MaxStoredText)
	}
	return &Coach{
		gateway:  gateway,
		builder:  prompts.NewBuilder(cfg.PromptTemplates.Overrides()),
		session:  log,
		defaults: cfg.Defaults,
		metrics:  collector,
		logger:   logger.With("component", "coach", "session_id", log.ID()),
	}
}

// Session returns the log the coach records reviews in
func (c *Coach) Session() *session.Log {
	return c.session
}

// Review gives full feedback on a piece of writing and records the submission
func (c *Coach) Review(ctx context.Context, text, genre string) (models.ParsedResult, error) {
	return c.Run(ctx, models.TaskRequest{
		Kind:  models.TaskReview,
		Text:  text,
		Genre: genre,
	})
}

// AnalyzeElement focuses on one craft element of the writing
func (c *Coach) AnalyzeElement(ctx context.Context, text, element string) (models.ParsedResult, error) {
	return c.Run(ctx, models.TaskRequest{
		Kind:    models.TaskElementAnalysis,
		Text:    text,
		Element: element,
	})
}

// GeneratePrompt asks for a new writing prompt; theme and constraints are optional
func (c *Coach) GeneratePrompt(ctx context.Context, genre, theme, constraints string) (models.ParsedResult, error) {
	return c.Run(ctx, models.TaskRequest{
		Kind:        models.TaskPromptGeneration,
		Genre:       genre,
		Theme:       theme,
		Constraints: constraints,
	})
}

// ExpandScene develops a short scene summary
func (c *Coach) ExpandScene(ctx context.Context, summary string) (models.ParsedResult, error) {
	return c.Run(ctx, models.TaskRequest{
		Kind: models.TaskSceneExpansion,
		Text: summary,
	})
}

// CoachDialogue gives feedback on a passage of dialogue
func (c *Coach) CoachDialogue(ctx context.Context, dialogue, dialogueContext string) (models.ParsedResult, error) {
	return c.Run(ctx, models.TaskRequest{
		Kind:    models.TaskDialogueCoaching,
		Text:    dialogue,
		Context: dialogueContext,
	})
}

// Run executes one task: one instruction, one gateway call, one parse.
// A blank genre or element is replaced by the configured default for the
// kinds that use it. Reviews are appended to the session log. Gateway
// failures are returned as *GatewayError and nothing is recorded; the
// result is the zero value whenever err != nil.
func (c *Coach) Run(ctx context.Context, req models.TaskRequest) (models.ParsedResult, error) {
	req = c.withDefaults(req)

	instruction, err := c.builder.Build(req)
	if err != nil {
		return models.ParsedResult{}, err
	}

	c.logger.Debug("Sending task to model",
		"task", req.Kind,
		"input_length", len(req.Text),
		"instruction_length", len(instruction))

	reply, err := c.gateway.Complete(ctx, []api.Message{
		{Role: api.RoleUser, Content: instruction},
	})
	if err != nil {
		c.metrics.RecordTask(string(req.Kind), metrics.OutcomeGatewayError, 0)
		c.logger.Error("Model gateway failed", "task", req.Kind, "error", err)
		return models.ParsedResult{}, &GatewayError{Task: req.Kind, Err: err}
	}

	result := util.ExtractObject(reply)
	outcome := outcomeOf(result)
	c.metrics.RecordTask(string(req.Kind), outcome, len(reply))

	if result.IsDecoded() {
		c.logger.Debug("Decoded model reply",
			"task", req.Kind,
			"reply_length", len(reply),
			"fields", len(result.Fields()))
	} else {
		c.logger.Warn("Model reply was not a JSON object, keeping raw text",
			"task", req.Kind,
			"reason", result.Reason(),
			"reply_length", len(reply),
			"first_200_chars", util.TruncateString(reply, 200))
	}

	if req.Kind == models.TaskReview {
		rec := c.session.Record(req.Kind, req.Genre, req.Text, result)
		c.metrics.SetSessionSubmissions(c.session.Len())
		c.logger.Info("Recorded submission",
			"submission_id", rec.ID,
			"stored_length", len([]rune(rec.Text)))
	}

	return result, nil
}

func (c *Coach) withDefaults(req models.TaskRequest) models.TaskRequest {
	switch req.Kind {
	case models.TaskReview, models.TaskPromptGeneration:
		req.Genre = orDefault(req.Genre, c.defaults.Genre)
	case models.TaskElementAnalysis:
		req.Element = orDefault(req.Element, c.defaults.Element)
	}
	return req
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func outcomeOf(r models.ParsedResult) string {
	switch r.Reason() {
	case models.FallbackNone:
		return metrics.OutcomeDecoded
	case models.FallbackNoObject:
		return metrics.OutcomeNoObject
	default:
		return metrics.OutcomeMalformed
	}
}
