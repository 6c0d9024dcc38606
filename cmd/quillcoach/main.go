package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lamim/quillcoach/internal/prompts"
	"github.com/lamim/quillcoach/internal/render"
	"github.com/lamim/quillcoach/pkg/models"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// flags shared by every command
var (
	configPath  string
	envFile     string
	verbose     bool
	modelName   string
	baseURL     string
	provider    string
	metricsAddr string
)

// one-shot flags
var (
	inputFile   string
	rawOutput   bool
	genre       string
	element     string
	theme       string
	constraints string
	dialogueCtx string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quillcoach",
		Short: "QuillCoach - Creative Writing Coach",
		Long: `QuillCoach reviews creative writing with a local or hosted language model.
It returns structured feedback on craft, focused element analyses, writing
prompts, scene expansions and dialogue coaching.

Run without a command to open the interactive menu.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runMenu,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "config.toml", "Path to configuration file (optional)")
	pf.StringVar(&envFile, "env-file", ".env", "Path to environment file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVar(&modelName, "model", "", "Override the configured model name")
	pf.StringVar(&baseURL, "base-url", "", "Override the configured API base URL")
	pf.StringVar(&provider, "provider", "", "Override the configured provider (ollama or openai)")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Args:  cobra.NoArgs,
		RunE:  runMenu,
	}

	reviewCmd := &cobra.Command{
		Use:   "review [text]",
		Short: "Get full feedback on a piece of writing",
		Long:  "Review writing read from --file, the arguments, or stdin. The submission is kept in the session history.",
		RunE:  runTask(models.TaskReview),
	}
	reviewCmd.Flags().StringVar(&genre, "genre", "", "Genre of the writing (default from config)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze one craft element of a piece of writing",
		RunE:  runTask(models.TaskElementAnalysis),
	}
	analyzeCmd.Flags().StringVar(&element, "element", "", "Element to analyze (default from config)")

	promptCmd := &cobra.Command{
		Use:   "prompt",
		Short: "Generate a writing prompt",
		Args:  cobra.NoArgs,
		RunE:  runTask(models.TaskPromptGeneration),
	}
	promptCmd.Flags().StringVar(&genre, "genre", "", "Genre for the prompt (default from config)")
	promptCmd.Flags().StringVar(&theme, "theme", "", "Optional theme")
	promptCmd.Flags().StringVar(&constraints, "constraints", "", "Optional constraints")

	expandCmd := &cobra.Command{
		Use:   "expand [summary]",
		Short: "Expand a brief scene summary",
		RunE:  runTask(models.TaskSceneExpansion),
	}

	dialogueCmd := &cobra.Command{
		Use:   "dialogue [text]",
		Short: "Get coaching on a passage of dialogue",
		RunE:  runTask(models.TaskDialogueCoaching),
	}
	dialogueCmd.Flags().StringVar(&dialogueCtx, "context", "", "Optional context for the dialogue")

	for _, cmd := range []*cobra.Command{reviewCmd, analyzeCmd, promptCmd, expandCmd, dialogueCmd} {
		cmd.Flags().BoolVar(&rawOutput, "raw", false, "Print plain JSON instead of a formatted panel")
		if cmd != promptCmd {
			cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the input from a file ('-' for stdin)")
		}
	}

	elementsCmd := &cobra.Command{
		Use:   "elements",
		Short: "List writing elements and genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := render.New(cmd.OutOrStdout(), render.Options{})
			if err != nil {
				return err
			}
			r.Elements(models.WritingElements, models.Genres)
			return nil
		},
	}

	schemaCmd := &cobra.Command{
		Use:   "schema <task>",
		Short: "Print the reply schema requested for a task",
		Long: `Print the JSON layout the model is asked to reply with.
Tasks: review, analyze, prompt, expand, dialogue.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseTaskKind(args[0])
			if err != nil {
				return err
			}
			schema, err := prompts.SchemaFor(kind)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), schema.Render())
			return nil
		},
	}

	rootCmd.AddCommand(menuCmd, reviewCmd, analyzeCmd, promptCmd, expandCmd, dialogueCmd, elementsCmd, schemaCmd)

	return rootCmd
}
