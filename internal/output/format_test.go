package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrinters(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tests := map[string]struct {
		print func(*bytes.Buffer)
		want  string
	}{
		"success": {print: func(b *bytes.Buffer) { PrintSuccess(b, "done") }, want: "✓ done\n"},
		"failure": {print: func(b *bytes.Buffer) { PrintFailure(b, "broken") }, want: "✗ broken\n"},
		"detail":  {print: func(b *bytes.Buffer) { PrintDetail(b, "more") }, want: "  more\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			assert.Equal(t, tt.want, buf.String())
		})
	}
	assert.Equal(t, "abc1234", Highlight("abc1234"))
}

func TestGetTerminalWidth(t *testing.T) {
	assert.Positive(t, GetTerminalWidth())
}
