// Package render provides markdown rendering for assistant answers and the
// color themes of the chat TUI.
package render

import (
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/longevai/ragchat/internal/config"
)

const defaultWidth = 80

// Options selects how an answer is rendered. It is comparable and doubles as
// the renderer cache key.
type Options struct {
	Width        int
	Style        string // glamour style name or path to a JSON style
	Emoji        bool
	KeepNewlines bool
	WrapTables   bool
}

// NewOptions maps the [markdown] config section onto render options.
// GLAMOUR_STYLE wins over the configured style.
func NewOptions(md config.MarkdownConfig) Options {
	opts := Options{
		Width:        defaultWidth,
		Style:        md.Style,
		Emoji:        md.EnableEmoji,
		KeepNewlines: md.PreserveNewLines,
		WrapTables:   md.TableWrap,
	}
	if opts.Style == "" {
		opts.Style = config.DefaultMarkdownConfig().Style
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}

// DefaultOptions renders with the default markdown config
func DefaultOptions() Options {
	return NewOptions(config.DefaultMarkdownConfig())
}

// WithWidth returns a copy wrapped at width columns
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

func (o Options) glamourOptions() []glamour.TermRendererOption {
	opts := []glamour.TermRendererOption{
		glamour.WithStylePath(o.Style),
		glamour.WithWordWrap(o.Width),
		glamour.WithTableWrap(o.WrapTables),
	}
	if o.Emoji {
		opts = append(opts, glamour.WithEmoji())
	}
	if o.KeepNewlines {
		opts = append(opts, glamour.WithPreservedNewLines())
	}
	return opts
}
