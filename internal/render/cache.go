package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxRenderers bounds the cache. Every chat window width is a new key, so a
// resize storm would otherwise keep one renderer per width forever.
const maxRenderers = 16

// answerRenderer serializes Render calls on one glamour renderer, which is
// not safe for concurrent use.
type answerRenderer struct {
	mu sync.Mutex
	tr *glamour.TermRenderer
}

func (r *answerRenderer) render(content string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tr.Render(content)
}

var (
	renderersMu sync.Mutex
	renderers   = make(map[Options]*answerRenderer)
)

// rendererFor returns the cached renderer for opts, building it on first use
func rendererFor(opts Options) (*answerRenderer, error) {
	renderersMu.Lock()
	defer renderersMu.Unlock()

	if r, ok := renderers[opts]; ok {
		return r, nil
	}

	tr, err := glamour.NewTermRenderer(opts.glamourOptions()...)
	if err != nil {
		return nil, err
	}

	if len(renderers) >= maxRenderers {
		clear(renderers)
	}
	r := &answerRenderer{tr: tr}
	renderers[opts] = r
	return r, nil
}
