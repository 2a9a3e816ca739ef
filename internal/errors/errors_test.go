package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":       {category: Argument, want: "Argument Error"},
		"configuration":  {category: Configuration, want: "Configuration Error"},
		"prerequisite":   {category: Prerequisite, want: "Prerequisite Error"},
		"runtime":        {category: Runtime, want: "Runtime Error"},
		"partial update": {category: PartialUpdate, want: "Partial Update"},
		"unknown":        {category: ErrorCategory(99), want: "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	sentinel := stderrors.New("exit status 128")

	wrapped := WrapWithMessage(sentinel, Runtime, "stage changes failed")
	require.NotNil(t, wrapped)
	assert.Equal(t, "stage changes failed: exit status 128", wrapped.Error())
	assert.ErrorIs(t, wrapped, sentinel)

	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "x"))
}

func TestAsCLIError(t *testing.T) {
	cliErr := MissingCommitMessage()

	assert.Same(t, cliErr, AsCLIError(cliErr))
	assert.Same(t, cliErr, AsCLIError(fmt.Errorf("running commit: %w", cliErr)))
	assert.True(t, IsCLIError(fmt.Errorf("outer: %w", cliErr)))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
	assert.False(t, IsCLIError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	out := FormatErrorPlain(MissingCommitMessage())

	assert.True(t, strings.HasPrefix(out, "Error [Argument Error]: commit message is required\n"))
	assert.Contains(t, out, "Usage: autochangelog commit \"<message>\"")
	assert.Contains(t, out, "To fix this:\n  • Pass the message as an argument or with -m\n")
	assert.Empty(t, FormatErrorPlain(nil))
}

func TestFormatErrorPlain_PartialUpdate(t *testing.T) {
	err := PartialUpdateFailed(stderrors.New("hook rejected"), "0123456789abcdef", "/repo/CHANGELOG.md", true)

	out := FormatErrorPlain(err)

	assert.True(t, strings.HasPrefix(out, "Incomplete [Partial Update]: hook rejected\n"), out)
	assert.Contains(t, out, "\nCommitted: 0123456 (changelog not committed)\n")
	assert.Contains(t, out, "  • The entry was written to /repo/CHANGELOG.md")
	assert.NotContains(t, FormatErrorPlain(NothingToCommit()), "Committed:")
}

func TestFprintSimpleError(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	tests := map[string]struct {
		err  error
		want string
	}{
		"plain error gets the category": {
			err:  stderrors.New("unknown flag: --bogus"),
			want: "Error [Runtime Error]: unknown flag: --bogus\n",
		},
		"wrapped cli error keeps its own": {
			err:  fmt.Errorf("running: %w", NothingToCommit()),
			want: FormatErrorPlain(NothingToCommit()),
		},
		"nil prints nothing": {
			err:  nil,
			want: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			FprintSimpleError(&buf, tt.err, Runtime)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestMessages(t *testing.T) {
	cause := stderrors.New("hook failed")

	tests := map[string]struct {
		err          *CLIError
		wantCategory ErrorCategory
		wantMessage  string
		wantFix      string
	}{
		"not a repository": {
			err:          NotARepository("/tmp/x"),
			wantCategory: Prerequisite,
			wantMessage:  "no workspace: /tmp/x is not inside a git repository",
			wantFix:      "--dir",
		},
		"git not found": {
			err:          GitNotFound([]string{"gitx", "-c", "a=b"}),
			wantCategory: Prerequisite,
			wantMessage:  `git executable "gitx" not found in PATH`,
			wantFix:      "git_command",
		},
		"nothing to commit": {
			err:          NothingToCommit(),
			wantCategory: Argument,
			wantMessage:  "nothing to commit: no changes staged",
			wantFix:      "--allow-empty",
		},
		"step failed": {
			err:          StepFailed("commit changes", cause),
			wantCategory: Runtime,
			wantMessage:  "commit changes failed: hook failed",
			wantFix:      "No commit was created",
		},
		"partial update written": {
			err:          PartialUpdateFailed(cause, "0123456789abcdef", "/repo/CHANGELOG.md", true),
			wantCategory: PartialUpdate,
			wantMessage:  "hook failed",
			wantFix:      "git add -A && git commit",
		},
		"partial update not written": {
			err:          PartialUpdateFailed(cause, "0123456789abcdef", "/repo/CHANGELOG.md", false),
			wantCategory: PartialUpdate,
			wantMessage:  "hook failed",
			wantFix:      "is writable",
		},
		"flag combination": {
			err:          InvalidFlagCombination("--limit", "--clear"),
			wantCategory: Argument,
			wantMessage:  "flags --limit and --clear cannot be used together",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.wantCategory, tt.err.Category)
			assert.Equal(t, tt.wantMessage, tt.err.Message)
			if tt.wantFix != "" {
				assert.Contains(t, strings.Join(tt.err.Remediation, "\n"), tt.wantFix)
			}
		})
	}
}
