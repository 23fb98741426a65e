package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns backend answers into terminal text.
type Renderer interface {
	Render(markdown string) (string, error)
}

// PlainRenderer prints answers as-is.
type PlainRenderer struct{}

// Render implements Renderer.
func (PlainRenderer) Render(markdown string) (string, error) {
	return strings.TrimRight(markdown, "\n") + "\n", nil
}

// NewRenderer builds a glamour renderer for style. "plain" disables markdown rendering.
func NewRenderer(style string, wordWrap int) (Renderer, error) {
	if style == "plain" {
		return PlainRenderer{}, nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wordWrap)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create %s renderer: %w", style, err)
	}
	return r, nil
}

// RenderOrRaw falls back to the raw text when rendering fails.
func RenderOrRaw(r Renderer, text string) string {
	out, err := r.Render(text)
	if err != nil {
		return strings.TrimRight(text, "\n") + "\n"
	}
	return out
}
