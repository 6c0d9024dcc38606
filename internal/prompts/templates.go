package prompts

import "github.com/lamim/quillcoach/pkg/models"

// Default header templates. They are executed with the request as data, so
// {{.Text}}, {{.Genre}}, {{.Element}}, {{.Theme}}, {{.Constraints}} and
// {{.Context}} are available. Custom headers from config use the same fields.
const (
	defaultReviewHeader = `Review this creative writing piece and provide constructive feedback.

Genre: {{.Genre}}

Text:
{{.Text}}`

	defaultElementHeader = `Analyze the {{.Element}} in this creative writing.

Text:
{{.Text}}

Element to Analyze: {{.Element}}`

	defaultPromptHeader = `Generate a creative writing prompt.

Genre: {{.Genre}}
Theme (if specified): {{.Theme}}
Constraints (if any): {{.Constraints}}`

	defaultSceneHeader = `Help expand this scene with more detail and craft.

Scene Summary:
{{.Text}}`

	defaultDialogueHeader = `Coach me on improving this dialogue.

Context: {{.Context}}

Dialogue:
{{.Text}}`
)

// DefaultHeader returns the built-in header template for a task kind
func DefaultHeader(kind models.TaskKind) string {
	switch kind {
	case models.TaskReview:
		return defaultReviewHeader
	case models.TaskElementAnalysis:
		return defaultElementHeader
	case models.TaskPromptGeneration:
		return defaultPromptHeader
	case models.TaskSceneExpansion:
		return defaultSceneHeader
	case models.TaskDialogueCoaching:
		return defaultDialogueHeader
	default:
		return ""
	}
}

func scored(score int, key, example string) Value {
	return Obj(F("score", Num(score)), F(key, Str(example)))
}

var reviewSchema = Schema{Fields: []Field{
	F("overview", Obj(
		F("genre", Str("{{.Genre}}")),
		F("word_count", Str("approximate")),
		F("overall_impression", Str("brief overall assessment")),
		F("overall_score", Num(75)),
	)),
	F("strengths", List(Obj(
		F("element", Str("what's strong")),
		F("example", Str("quote from text")),
		F("why_effective", Str("why it works")),
	))),
	F("areas_for_improvement", List(Obj(
		F("element", Str("what needs work")),
		F("current_issue", Str("the problem")),
		F("suggestion", Str("how to improve")),
		F("example_revision", Str("suggested rewrite")),
	))),
	F("craft_analysis", Obj(
		F("voice", scored(75, "feedback", "assessment")),
		F("imagery", scored(70, "feedback", "assessment")),
		F("dialogue", scored(65, "feedback", "assessment")),
		F("pacing", scored(70, "feedback", "assessment")),
		F("structure", scored(80, "feedback", "assessment")),
	)),
	F("memorable_lines", List(Str("lines that stand out positively"))),
	F("lines_to_revise", List(Obj(
		F("original", Str("current line")),
		F("issue", Str("what's wrong")),
		F("suggested", Str("improved version")),
	))),
	F("next_steps", List(Str("prioritized revision tasks"))),
	F("encouragement", Str("motivating closing comment")),
}}

var elementSchema = Schema{Fields: []Field{
	F("element", Str("{{.Element}}")),
	F("analysis", Obj(
		F("current_state", Str("how it's being used")),
		F("effectiveness", Str("how well it works")),
		F("score", Num(70)),
	)),
	F("specific_observations", List(Obj(
		F("observation", Str("what you notice")),
		F("example", Str("from the text")),
		F("impact", Str("effect on reader")),
	))),
	F("techniques_used", List(Str("writing techniques identified"))),
	F("missing_opportunities", List(Str("where {{.Element}} could be stronger"))),
	F("improvement_exercises", List(Obj(
		F("exercise", Str("practice activity")),
		F("purpose", Str("what it develops")),
		F("instructions", Str("how to do it")),
	))),
	F("mentor_texts", List(Str("published works to study for {{.Element}}"))),
	F("revision_suggestions", List(Str("specific changes to make"))),
}}

var promptSchema = Schema{Fields: []Field{
	F("prompt", Obj(
		F("main_prompt", Str("the writing prompt")),
		F("genre", Str("{{.Genre}}")),
		F("suggested_length", Str("word count range")),
		F("time_limit", Str("suggested writing time")),
	)),
	F("inspiration_elements", Obj(
		F("character_seeds", List(Str("character ideas"))),
		F("setting_options", List(Str("setting ideas"))),
		F("conflict_possibilities", List(Str("potential conflicts"))),
		F("opening_lines", List(Str("possible first lines"))),
	)),
	F("optional_challenges", List(Obj(
		F("challenge", Str("extra constraint")),
		F("purpose", Str("what skill it develops")),
	))),
	F("mentor_examples", List(Str("published works with similar prompts"))),
	F("tips_for_this_prompt", List(Str("advice specific to this prompt"))),
	F("common_pitfalls", List(Str("mistakes to avoid"))),
}}

var sceneSchema = Schema{Fields: []Field{
	F("original_summary", Str("{{.Text}}")),
	F("expanded_elements", Obj(
		F("sensory_details", Obj(
			F("sight", List(Str("visual details to add"))),
			F("sound", List(Str("audio details"))),
			F("smell", List(Str("scent details"))),
			F("touch", List(Str("tactile details"))),
			F("taste", List(Str("taste details if relevant"))),
		)),
		F("character_interiority", List(Str("thoughts/feelings to explore"))),
		F("setting_enrichment", List(Str("environmental details"))),
		F("dialogue_opportunities", List(Str("conversations to develop"))),
	)),
	F("expanded_draft", Str("a more detailed version of the scene")),
	F("show_dont_tell_opportunities", List(Obj(
		F("telling", Str("abstract statement")),
		F("showing", Str("concrete scene that shows it")),
	))),
	F("pacing_suggestions", Obj(
		F("slow_down", List(Str("moments to linger on"))),
		F("speed_up", List(Str("moments to compress"))),
	)),
}}

var dialogueSchema = Schema{Fields: []Field{
	F("dialogue_analysis", Obj(
		F("naturalness", scored(70, "assessment", "feedback")),
		F("subtext", scored(65, "assessment", "feedback")),
		F("character_distinction", scored(75, "assessment", "feedback")),
		F("purpose", scored(80, "assessment", "feedback")),
	)),
	F("line_by_line_feedback", List(Obj(
		F("original_line", Str("the line")),
		F("speaker", Str("who says it")),
		F("feedback", Str("what works or doesn't")),
		F("revision", Str("improved version")),
	))),
	F("subtext_opportunities", List(Str("where to add unspoken meaning"))),
	F("dialogue_tags", Obj(
		F("overused", List(Str("tags used too much"))),
		F("suggestions", List(Str("better alternatives"))),
	)),
	F("revised_dialogue", Str("improved version of the dialogue")),
	F("dialogue_exercises", List(Str("practice activities"))),
}}
