package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	clearLine  = "\r\033[K"
)

// Progress draws the chat's loading spinner on one line of a writer, for
// commands that run outside the full-screen TUI.
type Progress struct {
	out    io.Writer
	label  string
	frames spinner.Spinner
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartProgress begins drawing on out until Stop is called
func StartProgress(out io.Writer, label string) *Progress {
	p := &Progress{
		out:    out,
		label:  label,
		frames: spinner.Points,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Progress) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.frames.FPS)
	defer ticker.Stop()

	fmt.Fprint(p.out, hideCursor)
	for frame := 0; ; frame++ {
		glyph := p.frames.Frames[frame%len(p.frames.Frames)]
		fmt.Fprintf(p.out, "%s%s %s", clearLine, loadingStyle.Render(glyph), hintStyle.Render(p.label))

		select {
		case <-p.stop:
			fmt.Fprint(p.out, clearLine+showCursor)
			return
		case <-ticker.C:
		}
	}
}

// Stop erases the spinner line and restores the cursor. Later calls are no-ops.
func (p *Progress) Stop() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}
