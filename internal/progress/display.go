package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Display prints one line per finished step. On a TTY a spinner animates
// while the step is running; otherwise only the result lines are printed.
type Display struct {
	mu      sync.Mutex
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spinner *spinner.Spinner
	current string
	started time.Time
}

// NewDisplay creates a display writing to out with the given capabilities.
func NewDisplay(out io.Writer, caps TerminalCapabilities) *Display {
	return &Display{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// StartStep begins displaying progress for a named step.
func (d *Display) StartStep(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopSpinnerLocked()
	d.current = name
	d.started = time.Now()

	if !d.caps.IsTTY {
		return
	}
	s := spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(d.out))
	s.Suffix = " " + name
	s.Start()
	d.spinner = s
}

// CompleteStep marks the current step as done.
func (d *Display) CompleteStep() {
	d.finish(d.symbols.Checkmark, color.FgGreen, nil)
}

// FailStep marks the current step as failed.
func (d *Display) FailStep(err error) {
	d.finish(d.symbols.Failure, color.FgRed, err)
}

// StopSpinner stops the spinner without printing a result line. Used before
// the flow hands the terminal to another writer.
func (d *Display) StopSpinner() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopSpinnerLocked()
}

func (d *Display) finish(symbol string, attr color.Attribute, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopSpinnerLocked()
	if d.current == "" {
		return
	}

	if d.caps.SupportsColor {
		symbol = color.New(attr).Sprint(symbol)
	}
	line := fmt.Sprintf("%s %s (%s)", symbol, d.current, formatElapsed(time.Since(d.started)))
	if err != nil {
		line = fmt.Sprintf("%s: %v", line, err)
	}
	fmt.Fprintln(d.out, line)
	d.current = ""
}

func (d *Display) stopSpinnerLocked() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
