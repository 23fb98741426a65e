package tui

import (
	"errors"
	"strings"
	"testing"
)

func TestNewRenderer_Plain(t *testing.T) {
	r, err := NewRenderer("plain", 80)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	out, err := r.Render("# Title\n\n")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "# Title\n" {
		t.Errorf("out = %q", out)
	}
}

func TestNewRenderer_Glamour(t *testing.T) {
	r, err := NewRenderer("notty", 80)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	out, err := r.Render("some **bold** text")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "bold") {
		t.Errorf("out = %q", out)
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) { return "", errors.New("boom") }

func TestRenderOrRaw_FallsBack(t *testing.T) {
	if got := RenderOrRaw(failingRenderer{}, "raw"); got != "raw\n" {
		t.Errorf("got %q", got)
	}
}
