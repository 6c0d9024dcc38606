// Package render prints coaching results, menus and listings to the console.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/lamim/quillcoach/internal/util"
	"github.com/lamim/quillcoach/pkg/models"
)

const (
	defaultWidth = 80
	maxWidth     = 120
)

// MenuItem is one row of the interactive menu
type MenuItem struct {
	Key         string
	Feature     string
	Description string
}

// Options control how a Renderer formats output
type Options struct {
	// Raw prints results as plain indented JSON
	Raw bool
	// Plain disables colors in Markdown rendering
	Plain bool
	// Width overrides the detected terminal width
	Width int
}

// Renderer writes formatted output to a single destination
type Renderer struct {
	out    io.Writer
	raw    bool
	width  int
	md     *glamour.TermRenderer
	styles Styles
}

// New creates a renderer writing to out
func New(out io.Writer, opts Options) (*Renderer, error) {
	width := opts.Width
	if width <= 0 {
		width = TerminalWidth(out)
	}

	style := glamour.WithStandardStyle("dark")
	if opts.Plain {
		style = glamour.WithStandardStyle("notty")
	}

	// leave room for the panel border and padding
	md, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return &Renderer{
		out:    out,
		raw:    opts.Raw,
		width:  width,
		md:     md,
		styles: DefaultStyles(),
	}, nil
}

// TerminalWidth returns the usable width of out, or a default when out is
// not a terminal
func TerminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	width -= 4
	if width > maxWidth {
		width = maxWidth
	}
	if width < 40 {
		width = 40
	}
	return width
}

// FormatJSON returns the result as two-space indented JSON. Fallback results
// are shown as {"raw_response": ...}.
func FormatJSON(result models.ParsedResult) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Result prints a task result under title
func (r *Renderer) Result(title string, result models.ParsedResult) error {
	body, err := FormatJSON(result)
	if err != nil {
		return err
	}

	if r.raw {
		_, err := fmt.Fprintln(r.out, body)
		return err
	}

	rendered, err := r.md.Render("```json\n" + body + "\n```")
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(r.styles.Title.Render(title))
	sb.WriteString("\n")
	if !result.IsDecoded() {
		sb.WriteString(r.styles.Warning.Render(fmt.Sprintf("The model did not return a JSON object (%s); showing its reply as-is.", result.Reason())))
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Trim(rendered, "\n"))

	_, err = fmt.Fprintln(r.out, r.styles.Panel.Width(r.width-2).Render(sb.String()))
	return err
}

// Banner prints the application header
func (r *Renderer) Banner(title, subtitle string) {
	content := r.styles.Title.Render(title) + "\n" + r.styles.Bullet.Render(subtitle)
	fmt.Fprintln(r.out, r.styles.Banner.Render(content))
}

// Menu prints the menu table
func (r *Renderer) Menu(title string, items []MenuItem) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Muted)).
		Headers("Option", "Feature", "Description").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.styles.Header
			case col == 0:
				return r.styles.Option
			case col == 1:
				return r.styles.Feature
			default:
				return r.styles.Cell
			}
		})
	for _, item := range items {
		t.Row(item.Key, item.Feature, item.Description)
	}

	fmt.Fprintln(r.out, r.styles.Title.Render(title))
	fmt.Fprintln(r.out, t.Render())
}

// Elements prints the writing elements and genre catalogs
func (r *Renderer) Elements(elements, genres []string) {
	r.list("Writing Elements:", elements)
	r.list("Genres:", genres)
}

func (r *Renderer) list(heading string, items []string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.styles.Heading.Render(heading))
	for _, item := range items {
		fmt.Fprintf(r.out, "  %s %s\n", r.styles.Bullet.Render("•"), item)
	}
}

// History prints the reviews recorded in the current session
func (r *Renderer) History(records []models.SubmissionRecord) {
	if len(records) == 0 {
		fmt.Fprintln(r.out, r.styles.Muted.Render("No reviews in this session yet."))
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Muted)).
		Headers("#", "Time", "Genre", "Result", "Excerpt").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.Header
			}
			return r.styles.Cell
		})

	for i, rec := range records {
		outcome := "decoded"
		if !rec.Result.IsDecoded() {
			outcome = "raw (" + string(rec.Result.Reason()) + ")"
		}
		excerpt := util.TruncateString(strings.Join(strings.Fields(rec.Text), " "), 40)
		t.Row(
			fmt.Sprintf("%d", i+1),
			rec.SubmittedAt.Format("15:04:05"),
			rec.Genre,
			outcome,
			excerpt,
		)
	}

	fmt.Fprintln(r.out, r.styles.Title.Render("Session History"))
	fmt.Fprintln(r.out, t.Render())
}

// Println prints a plain line
func (r *Renderer) Println(msg string) {
	fmt.Fprintln(r.out, msg)
}

// Hint prints a dimmed line
func (r *Renderer) Hint(msg string) {
	fmt.Fprintln(r.out, r.styles.Muted.Render(msg))
}

// Notice prints a highlighted line
func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.out, r.styles.Warning.Render(msg))
}

// Error prints err in the error style
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, r.styles.Error.Render("Error: ")+err.Error())
}

// Separator prints a horizontal rule
func (r *Renderer) Separator() {
	fmt.Fprintln(r.out, "\n"+strings.Repeat("=", 50))
}
