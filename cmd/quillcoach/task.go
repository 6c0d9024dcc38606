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
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lamim/quillcoach/internal/coach"
	"github.com/lamim/quillcoach/internal/render"
	"github.com/lamim/quillcoach/pkg/models"
)

var errEmptyInput = errors.New("no input text provided")

// runTask builds the RunE for a one-shot task command
func runTask(kind models.TaskKind) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		req := models.TaskRequest{
			Kind:        kind,
			Genre:       genre,
			Element:     element,
			Theme:       theme,
			Constraints: constraints,
			Context:     dialogueCtx,
		}

		if kind != models.TaskPromptGeneration {
			text, err := readInput(inputFile, args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			req.Text = text
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := render.New(cmd.OutOrStdout(), render.Options{Raw: rawOutput})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := runWithSpinner(ctx, a.coach, req)
		if err != nil {
			return err
		}
		return r.Result(kind.Title(), result)
	}
}

// readInput returns the task text from a file, the arguments, or stdin,
// in that order of preference
func readInput(path string, args []string, stdin io.Reader) (string, error) {
	var text string
	switch {
	case path == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		text = string(data)
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimRight(text, "\r\n")
	if strings.TrimSpace(text) == "" {
		return "", errEmptyInput
	}
	return text, nil
}

// runWithSpinner runs one coach task while a spinner ticks on stderr.
// The spinner is skipped when stderr is not a terminal.
func runWithSpinner(ctx context.Context, c *coach.Coach, req models.TaskRequest) (models.ParsedResult, error) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return c.Run(ctx, req)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Analyzing your writing..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	result, err := c.Run(ctx, req)
	close(done)
	_ = bar.Finish()

	return result, err
}
