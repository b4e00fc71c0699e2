package render

import "strings"

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	r, err := rendererFor(opts)
	if err != nil {
		return "", err
	}
	return r.render(content)
}

// Answer renders an assistant answer, falling back to the raw text when the
// markdown cannot be rendered. Trailing newlines added by glamour are trimmed.
func Answer(content string, opts Options) string {
	rendered, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
