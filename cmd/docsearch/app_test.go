package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/transport/backend"
	"github.com/kailas-cloud/docsearch/internal/tui"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/docsearch/internal/usecase/upload"
)

// fakeBackend serves the upload, search and root routes.
type fakeBackend struct {
	searches atomic.Int32
	uploads  atomic.Int32
	failAll  bool
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if f.failAll {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"disk full"}`))
		return
	}
	switch r.URL.Path {
	case "/":
		_, _ = w.Write([]byte(`{"message":"up"}`))
	case "/api/upload":
		f.uploads.Add(1)
		_, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "File '" + header.Filename + "' processed successfully.",
		})
	case "/api/search":
		f.searches.Add(1)
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"the answer"}}],"retrieved_docs":["a.pdf"]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestApp(t *testing.T, fb *fakeBackend) (*app, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(fb)
	t.Cleanup(server.Close)

	client := backend.New(server.URL)
	out := &bytes.Buffer{}
	return &app{
		uploadWidget: uploaduc.New(client),
		searchWidget: searchuc.New(client),
		health:       healthuc.New(client, server.URL),
		renderer:     tui.PlainRenderer{},
		out:          out,
	}, out
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestApp_UploadAndSearch(t *testing.T) {
	fb := &fakeBackend{}
	a, out := newTestApp(t, fb)
	path := writeTempFile(t, "notes.txt", "hello")

	if err := a.upload(context.Background()); err == nil {
		t.Error("expected error without a selected file")
	}
	if err := a.selectFile(path); err != nil {
		t.Fatalf("selectFile: %v", err)
	}
	if err := a.upload(context.Background()); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := a.search(context.Background(), "what is in the notes?"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if err := a.clearFile(); err != nil {
		t.Fatalf("clearFile: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Please select a file first!",
		"Selected: notes.txt",
		"Upload successful! File 'notes.txt' processed successfully.",
		"the answer",
		"retrieved from: a.pdf",
		"No file selected.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if n := fb.uploads.Load(); n != 1 {
		t.Errorf("uploads = %d, want 1", n)
	}
	if n := fb.searches.Load(); n != 1 {
		t.Errorf("searches = %d, want 1", n)
	}
}

func TestApp_BlankQueryPrintsHint(t *testing.T) {
	fb := &fakeBackend{}
	a, out := newTestApp(t, fb)

	err := a.search(context.Background(), "   ")
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
	if !strings.Contains(out.String(), "Enter a question to search.") {
		t.Errorf("output = %q", out.String())
	}
	if n := fb.searches.Load(); n != 0 {
		t.Errorf("searches = %d, want 0", n)
	}
}

func TestApp_Failures(t *testing.T) {
	a, out := newTestApp(t, &fakeBackend{failAll: true})
	path := writeTempFile(t, "big.pdf", "data")

	if err := a.selectFile(path); err != nil {
		t.Fatalf("selectFile: %v", err)
	}
	if err := a.upload(context.Background()); err == nil {
		t.Error("expected upload error")
	}
	if err := a.search(context.Background(), "q"); err == nil {
		t.Error("expected search error")
	}
	if err := a.ping(context.Background()); err == nil {
		t.Error("expected ping error")
	}

	got := out.String()
	for _, want := range []string{
		"Upload failed: disk full",
		"Failed to get search results. Please try again.",
		"unreachable",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}

func TestApp_SelectMissingFile(t *testing.T) {
	a, out := newTestApp(t, &fakeBackend{})

	if err := a.selectFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out.String(), "cannot read") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDispatch(t *testing.T) {
	a, out := newTestApp(t, &fakeBackend{})

	if err := dispatch(context.Background(), a, []string{"search", "two", "words"}, nil); err != nil {
		t.Fatalf("search: %v", err)
	}
	if got := a.searchWidget.State().Query; got != "two words" {
		t.Errorf("Query = %q", got)
	}
	if err := dispatch(context.Background(), a, []string{"ping"}, nil); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if !strings.Contains(out.String(), " ok (") {
		t.Errorf("ping output = %q", out.String())
	}

	for _, args := range [][]string{{"upload"}, {"search"}, {"frobnicate"}} {
		if err := dispatch(context.Background(), a, args, nil); err != errUsage {
			t.Errorf("dispatch(%v) = %v, want errUsage", args, err)
		}
	}
}
