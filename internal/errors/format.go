package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg     = color.New(color.FgRed).SprintFunc()
	partialLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	commitText   = color.New(color.FgGreen).SprintFunc()
	fixLabel     = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel   = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText    = color.New(color.FgCyan).SprintFunc()
	bullet       = color.New(color.FgGreen).SprintFunc()
	categoryFmt  = color.New(color.FgYellow).SprintFunc()
)

// FormatError formats a CLIError for display in the terminal.
// Colors follow fatih/color detection, so NO_COLOR and pipes get plain text.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	paint := func(fn func(a ...interface{}) string, s string) string {
		if useColors {
			return fn(s)
		}
		return s
	}

	var sb strings.Builder

	// The code commit of a partial update already exists.
	label := paint(errorLabel, "Error")
	if err.Category == PartialUpdate {
		label = paint(partialLabel, "Incomplete")
	}
	fmt.Fprintf(&sb, "%s [%s]: %s\n", label, paint(categoryFmt, err.Category.String()), paint(errorMsg, err.Message))

	if err.Committed != "" {
		fmt.Fprintf(&sb, "\nCommitted: %s (changelog not committed)\n", paint(commitText, shortHash(err.Committed)))
	}

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", paint(usageLabel, "Usage: "), paint(usageText, err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", paint(fixLabel, "To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", paint(bullet, "•"), step)
		}
	}

	return sb.String()
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// FprintError prints a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FprintSimpleError prints a plain error to w as a CLIError of category.
// A wrapped CLIError keeps its own category and remediation.
func FprintSimpleError(w io.Writer, err error, category ErrorCategory) {
	if err == nil {
		return
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		FprintError(w, cliErr)
		return
	}
	FprintError(w, &CLIError{Category: category, Message: err.Error(), Cause: err})
}
