// Package prompts renders the instruction sent to the model for each
// coaching task: a header with the caller's inputs followed by an example
// JSON reply that fixes the field names the renderer expects back.
package prompts

import (
	"fmt"

	"github.com/lamim/quillcoach/internal/util"
	"github.com/lamim/quillcoach/pkg/models"
)

// schemaIntro separates the header from the reply schema
const schemaIntro = "\n\nReturn JSON:\n"

// Builder renders instructions. The zero value is not usable; use NewBuilder.
type Builder struct {
	headers map[models.TaskKind]string
}

// templateData is the data every header and schema is executed with
type templateData struct {
	Text        string
	Genre       string
	Element     string
	Theme       string
	Constraints string
	Context     string
}

// NewBuilder creates a builder. Non-empty entries in overrides replace the
// default header for that task kind; the reply schema is never overridable.
func NewBuilder(overrides map[models.TaskKind]string) *Builder {
	headers := make(map[models.TaskKind]string, len(models.AllTaskKinds()))
	for _, kind := range models.AllTaskKinds() {
		headers[kind] = DefaultHeader(kind)
		if custom := overrides[kind]; custom != "" {
			headers[kind] = custom
		}
	}
	return &Builder{headers: headers}
}

var defaultBuilder = NewBuilder(nil)

// Build renders the instruction for req with the default headers
func Build(req models.TaskRequest) (string, error) {
	return defaultBuilder.Build(req)
}

// Build renders the instruction for req. Caller text is inserted verbatim and
// unbounded; only an unknown task kind or a broken custom header fails.
func (b *Builder) Build(req models.TaskRequest) (string, error) {
	schema, err := SchemaFor(req.Kind)
	if err != nil {
		return "", err
	}

	source := b.headers[req.Kind] + schemaIntro + schema.Render()
	instruction, err := util.RenderTemplate(source, templateData{
		Text:        req.Text,
		Genre:       req.Genre,
		Element:     req.Element,
		Theme:       req.Theme,
		Constraints: req.Constraints,
		Context:     req.Context,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s instruction: %w", req.Kind, err)
	}

	return instruction, nil
}

// SchemaFor returns the reply schema for a task kind
func SchemaFor(kind models.TaskKind) (Schema, error) {
	switch kind {
	case models.TaskReview:
		return reviewSchema, nil
	case models.TaskElementAnalysis:
		return elementSchema, nil
	case models.TaskPromptGeneration:
		return promptSchema, nil
	case models.TaskSceneExpansion:
		return sceneSchema, nil
	case models.TaskDialogueCoaching:
		return dialogueSchema, nil
	default:
		return Schema{}, fmt.Errorf("%w: %q", models.ErrUnknownTaskKind, kind)
	}
}
