package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := newRenderer(opts)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	rendererOpts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
		glamour.WithTableWrap(opts.TableWrap),
	}

	style := strings.TrimSpace(opts.Style)
	if style == "" || style == StyleAuto {
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	} else {
		rendererOpts = append(rendererOpts, glamour.WithStylePath(style))
	}

	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}
