package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/autochangelog/internal/output"
	"github.com/fatih/color"
)

var (
	dateStyle    = color.New(color.FgYellow)
	emailStyle   = color.New(color.FgCyan)
	messageStyle = color.New(color.Bold)
	descStyle    = color.New(color.Faint)
	filesStyle   = color.New(color.FgBlue)
	addedStyle   = color.New(color.FgGreen)
	removedStyle = color.New(color.FgRed)
	hunkStyle    = color.New(color.FgMagenta)
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors
	ShowDiff bool // Include the filtered diff under each entry
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes entries to w, newest first, separated by blank lines.
func FormatTerminal(entries []Entry, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for i, e := range entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := formatEntry(e, w, opts, width); err != nil {
			return fmt.Errorf("formatting entry %q: %w", e.Message, err)
		}
	}
	return nil
}

func formatEntry(e Entry, w io.Writer, opts FormatOptions, width int) error {
	paint := func(c *color.Color, s string) string {
		if opts.Plain {
			return s
		}
		return c.Sprint(s)
	}

	if _, err := fmt.Fprintf(w, "%s  %s\n", paint(dateStyle, e.Date), paint(emailStyle, e.Email)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %s\n", paint(messageStyle, wrapText(e.Message, width-2, "  "))); err != nil {
		return err
	}
	if e.HasDescription() {
		if _, err := fmt.Fprintf(w, "  %s\n", paint(descStyle, wrapText(e.Description, width-2, "  "))); err != nil {
			return err
		}
	}
	if len(e.Files) > 0 {
		files := wrapText(strings.Join(e.Files, ", "), width-9, "         ")
		if _, err := fmt.Fprintf(w, "  files: %s\n", paint(filesStyle, files)); err != nil {
			return err
		}
	}

	if !opts.ShowDiff || e.Diff == "" {
		return nil
	}
	for _, line := range strings.Split(e.Diff, "\n") {
		if _, err := fmt.Fprintf(w, "    %s\n", paintDiffLine(line, opts.Plain)); err != nil {
			return err
		}
	}
	return nil
}

func paintDiffLine(line string, plain bool) string {
	if plain {
		return line
	}
	switch {
	case strings.HasPrefix(line, "@@"):
		return hunkStyle.Sprint(line)
	case strings.HasPrefix(line, "+"):
		return addedStyle.Sprint(line)
	case strings.HasPrefix(line, "-"):
		return removedStyle.Sprint(line)
	}
	return line
}

// FormatEntrySummary returns a brief one-line summary of an entry.
func FormatEntrySummary(e Entry, opts FormatOptions) string {
	text := truncateText(e.Message, 60)
	if opts.Plain {
		return fmt.Sprintf("[%s] %s", e.Date, text)
	}
	return fmt.Sprintf("%s %s", dateStyle.Sprint(e.Date), text)
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	return output.GetTerminalWidth()
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// truncateText truncates text to maxLen runes, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}
