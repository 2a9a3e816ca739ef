package changelog

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ExportOptions controls HTML export.
type ExportOptions struct {
	// Standalone wraps the rendered body in a complete HTML page.
	Standalone bool
	// Title is the page title used when Standalone is set.
	Title string
}

// markdown renders raw HTML blocks as-is; entries are built from <pre>,
// <strong> and <p> elements.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// ExportHTML converts a changelog document to HTML and writes it to w.
func ExportHTML(content string, w io.Writer, opts ExportOptions) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(content), &body); err != nil {
		return fmt.Errorf("converting changelog to HTML: %w", err)
	}

	if !opts.Standalone {
		_, err := w.Write(body.Bytes())
		return err
	}

	title := opts.Title
	if title == "" {
		title = "Changelogs"
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body.String())
	return err
}
