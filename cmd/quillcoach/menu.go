package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/lamim/quillcoach/internal/render"
	"github.com/lamim/quillcoach/pkg/models"
)

const endOfInput = "EOF"

var menuItems = []render.MenuItem{
	{Key: "1", Feature: "Review Writing", Description: "Get full feedback"},
	{Key: "2", Feature: "Analyze Element", Description: "Focus on one craft element"},
	{Key: "3", Feature: "Generate Prompt", Description: "Get writing prompt"},
	{Key: "4", Feature: "Expand Scene", Description: "Develop a scene"},
	{Key: "5", Feature: "Dialogue Coach", Description: "Improve dialogue"},
	{Key: "6", Feature: "View Elements", Description: "See writing elements"},
	{Key: "7", Feature: "Session History", Description: "Reviews from this session"},
	{Key: "0", Feature: "Exit", Description: "Close application"},
}

// errInputCanceled is returned when the user interrupts a prompt
var errInputCanceled = errors.New("input canceled")

// lineReader is the part of readline the menu uses
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// prompter asks the user for values one line at a time
type prompter struct {
	rl lineReader
}

// ask prompts for a single value. An empty answer selects def.
func (p *prompter) ask(label, def string) (string, error) {
	prompt := label + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s (%s): ", label, def)
	}
	p.rl.SetPrompt(prompt)

	line, err := p.rl.Readline()
	if err != nil {
		return "", inputErr(err)
	}
	if v := strings.TrimSpace(line); v != "" {
		return v, nil
	}
	return def, nil
}

// multiline reads lines until one that is exactly EOF, or until end of input
func (p *prompter) multiline() (string, error) {
	p.rl.SetPrompt("")

	var lines []string
	for {
		line, err := p.rl.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", inputErr(err)
		}
		if strings.TrimSpace(line) == endOfInput {
			break
		}
		lines = append(lines, line)
	}

	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return "", errEmptyInput
	}
	return text, nil
}

func inputErr(err error) error {
	if errors.Is(err, readline.ErrInterrupt) {
		return errInputCanceled
	}
	return err
}

// menuSession drives one interactive session
type menuSession struct {
	app    *app
	r      *render.Renderer
	in     *prompter
	runner func(ctx context.Context, req models.TaskRequest) (models.ParsedResult, error)
}

// collect gathers the inputs for a menu choice. ok is false for choices
// that are not coaching tasks.
func (m *menuSession) collect(choice string) (req models.TaskRequest, ok bool, err error) {
	defaults := m.app.cfg.Defaults

	switch choice {
	case "1":
		m.r.Hint("Paste your writing (end with 'EOF'):")
		text, err := m.in.multiline()
		if err != nil {
			return req, true, err
		}
		g, err := m.in.ask("Genre", defaults.Genre)
		if err != nil {
			return req, true, err
		}
		return models.TaskRequest{Kind: models.TaskReview, Text: text, Genre: g}, true, nil

	case "2":
		m.r.Hint("Paste your writing (end with 'EOF'):")
		text, err := m.in.multiline()
		if err != nil {
			return req, true, err
		}
		e, err := m.in.ask("Element to analyze", defaults.Element)
		if err != nil {
			return req, true, err
		}
		return models.TaskRequest{Kind: models.TaskElementAnalysis, Text: text, Element: e}, true, nil

	case "3":
		g, err := m.in.ask("Genre", defaults.Genre)
		if err != nil {
			return req, true, err
		}
		t, err := m.in.ask("Theme (optional)", "")
		if err != nil {
			return req, true, err
		}
		c, err := m.in.ask("Constraints (optional)", "")
		if err != nil {
			return req, true, err
		}
		return models.TaskRequest{Kind: models.TaskPromptGeneration, Genre: g, Theme: t, Constraints: c}, true, nil

	case "4":
		s, err := m.in.ask("Describe your scene briefly", "")
		if err != nil {
			return req, true, err
		}
		if s == "" {
			return req, true, errEmptyInput
		}
		return models.TaskRequest{Kind: models.TaskSceneExpansion, Text: s}, true, nil

	case "5":
		m.r.Hint("Paste dialogue (end with 'EOF'):")
		text, err := m.in.multiline()
		if err != nil {
			return req, true, err
		}
		c, err := m.in.ask("Context", "")
		if err != nil {
			return req, true, err
		}
		return models.TaskRequest{Kind: models.TaskDialogueCoaching, Text: text, Context: c}, true, nil
	}

	return req, false, nil
}

// title is the result heading shown for req
func title(req models.TaskRequest) string {
	if req.Kind == models.TaskElementAnalysis && req.Element != "" {
		return req.Element + " Analysis"
	}
	return req.Kind.Title()
}

// loop runs the menu until the user exits or input ends
func (m *menuSession) loop(ctx context.Context) error {
	for {
		m.r.Menu("Creative Writing Coach", menuItems)

		m.r.Println("")
		choice, err := m.in.ask("Select option", "0")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, errInputCanceled) {
				m.goodbye()
				return nil
			}
			return err
		}

		switch choice {
		case "0":
			m.goodbye()
			return nil
		case "6":
			m.r.Elements(models.WritingElements, models.Genres)
			continue
		case "7":
			m.r.History(m.app.coach.Session().Records())
			continue
		}

		req, ok, err := m.collect(choice)
		if !ok {
			m.r.Notice(fmt.Sprintf("Unknown option %q", choice))
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.goodbye()
				return nil
			}
			m.r.Error(err)
			continue
		}

		// Ctrl+C cancels the request in flight and returns to the menu
		taskCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		result, err := m.runner(taskCtx, req)
		stop()

		if err != nil {
			m.r.Error(err)
		} else if err := m.r.Result(title(req), result); err != nil {
			m.r.Error(err)
		}

		m.r.Separator()
	}
}

func (m *menuSession) goodbye() {
	m.r.Notice("Goodbye! Keep writing! ✨")
	if summary := m.app.collector.Summary(); summary != "" {
		m.r.Hint(summary)
	}
}

func runMenu(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := render.New(os.Stdout, render.Options{})
	if err != nil {
		return err
	}

	// no history file: submissions are never written to disk
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "> ",
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		DisableAutoSaveHistory: true,

		Stdin:  readline.NewCancelableStdin(os.Stdin),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	r.Banner("✨ Creative Writing Coach", "AI-Powered Creative Writing Feedback")

	m := &menuSession{
		app: a,
		r:   r,
		in:  &prompter{rl: rl},
		runner: func(ctx context.Context, req models.TaskRequest) (models.ParsedResult, error) {
			return runWithSpinner(ctx, a.coach, req)
		},
	}
	return m.loop(cmd.Context())
}
