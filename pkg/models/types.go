package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskKind identifies one of the coaching tasks
type TaskKind string

const (
	// TaskReview is a full review of a piece of writing
	TaskReview TaskKind = "review"
	// TaskElementAnalysis focuses on a single craft element (voice, pacing, ...)
	TaskElementAnalysis TaskKind = "element_analysis"
	// TaskPromptGeneration produces a new writing prompt
	TaskPromptGeneration TaskKind = "prompt_generation"
	// TaskSceneExpansion develops a short scene summary
	TaskSceneExpansion TaskKind = "scene_expansion"
	// TaskDialogueCoaching gives feedback on a passage of dialogue
	TaskDialogueCoaching TaskKind = "dialogue_coaching"
)

// ErrUnknownTaskKind is returned when a task name cannot be resolved
var ErrUnknownTaskKind = errors.New("unknown task kind")

// AllTaskKinds lists the task kinds in menu order
func AllTaskKinds() []TaskKind {
	return []TaskKind{
		TaskReview,
		TaskElementAnalysis,
		TaskPromptGeneration,
		TaskSceneExpansion,
		TaskDialogueCoaching,
	}
}

// Valid reports whether k is a known task kind
func (k TaskKind) Valid() bool {
	for _, known := range AllTaskKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Title returns a human-readable name for display
func (k TaskKind) Title() string {
	switch k {
	case TaskReview:
		return "Writing Review"
	case TaskElementAnalysis:
		return "Element Analysis"
	case TaskPromptGeneration:
		return "Writing Prompt"
	case TaskSceneExpansion:
		return "Expanded Scene"
	case TaskDialogueCoaching:
		return "Dialogue Feedback"
	default:
		return string(k)
	}
}

// taskAliases maps short CLI names onto task kinds
var taskAliases = map[string]TaskKind{
	"review":   TaskReview,
	"analyze":  TaskElementAnalysis,
	"element":  TaskElementAnalysis,
	"prompt":   TaskPromptGeneration,
	"expand":   TaskSceneExpansion,
	"scene":    TaskSceneExpansion,
	"dialogue": TaskDialogueCoaching,
}

// ParseTaskKind resolves a task kind from its canonical name or a short alias
func ParseTaskKind(s string) (TaskKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if k := TaskKind(name); k.Valid() {
		return k, nil
	}
	if k, ok := taskAliases[name]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTaskKind, s)
}

// TaskRequest carries the inputs for one coaching task.
// Text holds the writing, the scene summary, or the dialogue depending on Kind;
// prompt generation takes no text.
type TaskRequest struct {
	Kind        TaskKind
	Text        string
	Genre       string
	Element     string
	Theme       string
	Constraints string
	Context     string
}

// SubmissionRecord is one reviewed piece of writing kept for the session
type SubmissionRecord struct {
	ID          string       `json:"id"`
	Kind        TaskKind     `json:"kind"`
	Genre       string       `json:"genre,omitempty"`
	Text        string       `json:"text"`
	Result      ParsedResult `json:"result"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// Genres are the genres offered by the interactive menu
var Genres = []string{
	"Fiction", "Poetry", "Creative Non-Fiction", "Flash Fiction", "Short Story",
	"Personal Essay", "Memoir", "Screenplay", "Playwriting", "Children's Literature",
}

// WritingElements are the craft elements that can be analyzed individually
var WritingElements = []string{
	"Character", "Plot", "Setting", "Dialogue", "Theme",
	"Voice", "Imagery", "Pacing", "Conflict", "Structure",
}
