package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/tui"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/docsearch/internal/usecase/upload"
)

// app drives both widgets from the terminal and prints what a user would see.
type app struct {
	uploadWidget *uploaduc.Service
	searchWidget *searchuc.Service
	health       *healthuc.Service
	renderer     tui.Renderer
	out          io.Writer
}

func (a *app) selectFile(path string) error {
	f, err := domain.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "cannot read %s: %v\n", path, err)
		return err
	}
	st, err := a.uploadWidget.SelectFile(f)
	if err != nil {
		fmt.Fprintln(a.out, "an upload is in progress")
		return err
	}
	fmt.Fprintln(a.out, st.Status)
	return nil
}

func (a *app) clearFile() error {
	st, err := a.uploadWidget.SelectFile(nil)
	if err != nil {
		fmt.Fprintln(a.out, "an upload is in progress")
		return err
	}
	fmt.Fprintln(a.out, st.Status)
	return nil
}

func (a *app) upload(ctx context.Context) error {
	st, err := a.uploadWidget.Submit(ctx)
	if errors.Is(err, domain.ErrBusy) {
		fmt.Fprintln(a.out, "an upload is already in progress")
		return err
	}
	fmt.Fprintln(a.out, st.Status)
	return err
}

func (a *app) search(ctx context.Context, query string) error {
	a.searchWidget.SetQuery(query)
	st, err := a.searchWidget.Submit(ctx)
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		fmt.Fprintln(a.out, "Enter a question to search.")
		return err
	case errors.Is(err, domain.ErrBusy):
		fmt.Fprintln(a.out, "a search is already in progress")
		return err
	case err != nil:
		fmt.Fprintln(a.out, st.Error)
		return err
	}

	fmt.Fprint(a.out, tui.RenderOrRaw(a.renderer, st.Result))
	if len(st.RetrievedDocs) > 0 {
		fmt.Fprintf(a.out, "retrieved from: %s\n", strings.Join(st.RetrievedDocs, ", "))
	}
	return nil
}

func (a *app) shell(ctx context.Context, in io.Reader) error {
	m := tui.New(ctx, a.uploadWidget, a.searchWidget, a.renderer)
	return tui.Run(ctx, m, in, a.out)
}

func (a *app) ping(ctx context.Context) error {
	r := a.health.Check(ctx)
	if r.Status != healthuc.Healthy {
		fmt.Fprintf(a.out, "%s unreachable: %s\n", r.Backend, r.Error)
		return fmt.Errorf("backend %s: %s", r.Backend, r.Error)
	}
	fmt.Fprintf(a.out, "%s ok (%s)\n", r.Backend, r.Latency.Round(time.Millisecond))
	return nil
}
