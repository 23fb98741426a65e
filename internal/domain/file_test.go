package domain

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestNewFile(t *testing.T) {
	f := NewFile("report.txt", []byte("hello"))

	if f.Name() != "report.txt" {
		t.Errorf("Name() = %q", f.Name())
	}
	if f.Size() != 5 {
		t.Errorf("Size() = %d, want 5", f.Size())
	}

	rc, err := f.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}
}

func TestReadFile_UsesBaseName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("# title"), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.Name() != "doc.md" {
		t.Errorf("Name() = %q, want doc.md", f.Name())
	}
	if f.Size() != 7 {
		t.Errorf("Size() = %d, want 7", f.Size())
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
