package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ariel-frischer/autochangelog/internal/git"
)

// CallRecord captures a single git invocation made through a RecordingRunner.
type CallRecord struct {
	Dir       string
	Args      []string
	Timestamp time.Time
	Response  string
	ExitCode  int
	Error     error
}

// Response is a canned git result.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RecordingRunner implements git.Runner for tests. Responses are keyed by git
// subcommand ("commit") or by subcommand and 1-based call number
// ("commit#2"); the numbered form wins. Calls without a canned response are
// passed to Delegate, or return empty output when Delegate is nil.
type RecordingRunner struct {
	Responses map[string]Response
	Delegate  git.Runner

	mu     sync.Mutex
	calls  []CallRecord
	counts map[string]int
}

// NewRecordingRunner creates a runner with the given canned responses.
func NewRecordingRunner(responses map[string]Response) *RecordingRunner {
	if responses == nil {
		responses = map[string]Response{}
	}
	return &RecordingRunner{Responses: responses}
}

// Run implements git.Runner.
func (r *RecordingRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}

	r.mu.Lock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[sub]++
	n := r.counts[sub]
	resp, ok := r.Responses[fmt.Sprintf("%s#%d", sub, n)]
	if !ok {
		resp, ok = r.Responses[sub]
	}
	r.mu.Unlock()

	record := CallRecord{Dir: dir, Args: append([]string(nil), args...), Timestamp: time.Now()}

	var out string
	var err error
	switch {
	case ok && resp.ExitCode != 0:
		out = resp.Stdout
		err = &git.CommandError{Args: args, ExitCode: resp.ExitCode, Stdout: resp.Stdout, Stderr: resp.Stderr}
	case ok:
		out = resp.Stdout
	case r.Delegate != nil:
		out, err = r.Delegate.Run(ctx, dir, args...)
	}

	record.Response = out
	record.Error = err
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) {
		record.ExitCode = cmdErr.ExitCode
	}

	r.mu.Lock()
	r.calls = append(r.calls, record)
	r.mu.Unlock()

	return out, err
}

// Calls returns a copy of all recorded invocations in order.
func (r *RecordingRunner) Calls() []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CallRecord(nil), r.calls...)
}

// Commands returns each recorded invocation as a space-joined string.
func (r *RecordingRunner) Commands() []string {
	calls := r.Calls()
	cmds := make([]string, len(calls))
	for i, c := range calls {
		cmds[i] = strings.Join(c.Args, " ")
	}
	return cmds
}

// CountOf returns how many times the given subcommand was invoked.
func (r *RecordingRunner) CountOf(sub string) int {
	n := 0
	for _, c := range r.Calls() {
		if len(c.Args) > 0 && c.Args[0] == sub {
			n++
		}
	}
	return n
}
