package changelog

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ariel-frischer/autochangelog/internal/diff"
)

const (
	boxPadding = 2
	boxBorder  = "*"

	blameSeparator = " - [BLAME] => "
	closingLine    = "<p><small>This might be a 🚀 or a 🧨 XD</small></p>\n<p>&nbsp;</p>\n"
)

// FormatDate renders t as D/M/YYYY - H:MM in its own location. Day, month and
// hour carry no leading zero; minutes are always two digits.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d - %d:%02d", t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute())
}

// ParseDate is the inverse of FormatDate. Single-digit minutes are accepted.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation("2/1/2006 - 15:4", s, loc)
}

// MakeBox draws message inside a border of asterisks. The box is the message
// width plus two spaces of padding and one border character on each side.
func MakeBox(message string) string {
	width := utf8.RuneCountInString(message) + boxPadding*2 + 2
	horizontal := strings.Repeat(boxBorder, width)
	blank := boxBorder + strings.Repeat(" ", width-2) + boxBorder
	pad := strings.Repeat(" ", boxPadding)

	return strings.Join([]string{
		horizontal,
		blank,
		boxBorder + pad + message + pad + boxBorder,
		blank,
		horizontal,
	}, "\n")
}

// BlameLine returns the text placed inside the entry box.
func BlameLine(t time.Time, email string) string {
	return FormatDate(t) + blameSeparator + email
}

// Render produces the changelog entry for rec. The output starts and ends
// with a newline so consecutive entries stay separated.
func Render(rec Record) string {
	diffText := rec.Diff
	if diffText == "" {
		diffText = diff.NoStagedDiff
	}

	description := ""
	if rec.HasDescription() {
		description = "<strong>Description:</strong><br>" + rec.Description + "<br>"
	}

	var b strings.Builder
	b.WriteString("\n<pre>\n")
	b.WriteString(MakeBox(BlameLine(rec.Time, rec.Email)))
	b.WriteString("\n</pre>\n")
	b.WriteString("<strong>Message: </strong><br>\n")
	b.WriteString(`"` + rec.Message + `"<br>` + "\n")
	b.WriteString(description + "\n")
	b.WriteString("<strong>Affected files: </strong><br>\n")
	b.WriteString(`"` + strings.Join(rec.Files, ", ") + `"` + "\n\n")
	b.WriteString("<strong>DIFF: </strong><br>\n")
	b.WriteString("```diff\n" + diffText + "\n```\n")
	b.WriteString(closingLine)
	return b.String()
}
