package changelog

import (
	"strings"
	"time"

	"github.com/ariel-frischer/autochangelog/internal/diff"
)

const (
	entryStart     = "\n<pre>\n"
	boxEnd         = "\n</pre>\n"
	messageMarker  = "<strong>Message: </strong><br>\n\""
	descMarker     = "<strong>Description:</strong><br>"
	filesMarker    = "<strong>Affected files: </strong><br>\n\""
	diffMarker     = "<strong>DIFF: </strong><br>\n```diff\n"
	diffEndMarker  = "\n```\n"
	messageEndMark = "\"<br>\n"
)

// Parse splits a changelog document into its entries, newest first.
// Text that does not look like a rendered entry is skipped.
func Parse(content string) *Changelog {
	body := strings.TrimPrefix(content, Header)

	c := &Changelog{}
	chunks := strings.Split(body, entryStart)
	for _, chunk := range chunks[1:] {
		entry, ok := parseEntry(chunk)
		if !ok {
			logDebug("[changelog] skipping unrecognised entry (%d bytes)", len(chunk))
			continue
		}
		c.Entries = append(c.Entries, entry)
	}
	return c
}

func parseEntry(chunk string) (Entry, bool) {
	box, rest, ok := strings.Cut(chunk, boxEnd)
	if !ok {
		return Entry{}, false
	}

	var e Entry
	e.Date, e.Email = parseBox(box)
	if e.Date != "" {
		if t, err := ParseDate(e.Date, time.Local); err == nil {
			e.Time = t
		}
	}

	_, rest, ok = strings.Cut(rest, messageMarker)
	if !ok {
		return Entry{}, false
	}
	head, rest, ok := strings.Cut(rest, "\n"+filesMarker)
	if !ok {
		return Entry{}, false
	}
	e.Message, e.Description = parseMessage(head)

	files, rest, ok := strings.Cut(rest, "\"\n\n")
	if !ok {
		return Entry{}, false
	}
	if files != "" {
		e.Files = strings.Split(files, ", ")
	}

	_, rest, ok = strings.Cut(rest, diffMarker)
	if !ok {
		return Entry{}, false
	}
	if idx := strings.LastIndex(rest, diffEndMarker); idx >= 0 {
		e.Diff = rest[:idx]
	} else {
		e.Diff = rest
	}
	if e.Diff == diff.NoStagedDiff {
		e.Diff = ""
	}

	return e, true
}

// parseBox extracts the date and email from the boxed blame line.
func parseBox(box string) (date, email string) {
	lines := strings.Split(box, "\n")
	if len(lines) < 3 {
		return "", ""
	}
	line := strings.TrimSpace(strings.Trim(lines[2], boxBorder))
	date, email, ok := strings.Cut(line, blameSeparator)
	if !ok {
		return line, ""
	}
	return date, email
}

// parseMessage splits the quoted message from the optional description.
func parseMessage(head string) (message, description string) {
	if before, after, ok := strings.Cut(head, messageEndMark+descMarker); ok {
		return before, strings.TrimSuffix(after, "<br>")
	}
	return strings.TrimSuffix(head, messageEndMark), ""
}
