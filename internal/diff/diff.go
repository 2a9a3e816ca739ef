// Package diff captures the staged diff of a repository and reduces it to the
// lines worth keeping in a changelog entry.
package diff

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ariel-frischer/autochangelog/internal/git"
)

// NoStagedDiff replaces the diff section when nothing is staged.
const NoStagedDiff = "(no staged diff)"

// fileHeaderRe matches both plain headers and the C-quoted form git uses for
// paths with non-ASCII or special characters when core.quotepath is on.
var fileHeaderRe = regexp.MustCompile(`(?m)^diff --git (?:"a/((?:[^"\\]|\\.)*)"|a/(.+?)) "?b/`)

// Staged holds the raw output of git diff --cached alongside its filtered form.
type Staged struct {
	Raw      string
	Filtered string
}

// Text returns the filtered diff, or NoStagedDiff when it is empty.
func (s Staged) Text() string {
	if s.Filtered == "" {
		return NoStagedDiff
	}
	return s.Filtered
}

// Files returns the paths touched by the staged diff.
func (s Staged) Files() []string {
	return AffectedFiles(s.Raw)
}

// Empty reports whether nothing is staged.
func (s Staged) Empty() bool {
	return strings.TrimSpace(s.Raw) == ""
}

// Capture runs git diff --cached in dir and filters the result. A failing git
// process is returned as a *git.CommandError.
func Capture(ctx context.Context, r git.Runner, dir string) (Staged, error) {
	raw, err := git.StagedDiff(ctx, r, dir)
	if err != nil {
		return Staged{}, fmt.Errorf("capturing staged diff: %w", err)
	}
	return Staged{Raw: raw, Filtered: Filter(raw)}, nil
}

// Filter keeps file headers, index lines, hunk headers, added and removed
// lines and file mode markers. Context lines are dropped, and so are the
// ---/+++ path markers that sit between a file header and its first hunk.
// Inside a hunk every +/- line is content, even when it starts with +++ or
// ---. Filtering a filtered diff returns it unchanged.
func Filter(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	inHunk := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			inHunk = false
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		}
		if keepLine(line, inHunk) {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func keepLine(line string, inHunk bool) bool {
	switch {
	case strings.HasPrefix(line, "diff --git"),
		strings.HasPrefix(line, "index "),
		strings.HasPrefix(line, "@@"),
		strings.HasPrefix(line, "new file mode"),
		strings.HasPrefix(line, "deleted file mode"):
		return true
	case strings.HasPrefix(line, "+"):
		return inHunk || !strings.HasPrefix(line, "+++")
	case strings.HasPrefix(line, "-"):
		return inHunk || !strings.HasPrefix(line, "---")
	}
	return false
}

// AffectedFiles returns the a/ path of every diff --git header in raw, in
// order of appearance. Quoted paths are unquoted.
func AffectedFiles(raw string) []string {
	matches := fileHeaderRe.FindAllStringSubmatch(raw, -1)
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[2] != "" {
			files = append(files, m[2])
			continue
		}
		path, err := strconv.Unquote(`"` + m[1] + `"`)
		if err != nil {
			path = m[1]
		}
		files = append(files, path)
	}
	return files
}
