package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/docsearch/internal/config"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	"github.com/kailas-cloud/docsearch/internal/transport/backend"
	chiTransport "github.com/kailas-cloud/docsearch/internal/transport/chi"
	"github.com/kailas-cloud/docsearch/internal/tui"
	"github.com/kailas-cloud/docsearch/internal/version"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/docsearch/internal/usecase/upload"
)

const usage = `usage: docsearch <command> [args]

commands:
  upload <path>     upload a document
  search <query>    ask a question about the uploaded documents
  ping              check that the backend is reachable
  shell             interactive session
  version           print build information
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	if args[0] == "version" {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	// .env is optional
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	if args[0] == "shell" {
		// the full-screen UI reports failures itself
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))
	}

	logger.Debug("Starting docsearch",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("command", args[0]),
	)

	a, diag, err := build(cfg, logger, stdout)
	if err != nil {
		logger.Error("Failed to initialise", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	if diag != nil {
		go func() {
			logger.Info("Starting diagnostics server", zap.String("addr", diag.Addr))
			if err := diag.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Diagnostics server error", zap.Error(err))
			}
		}()
		defer shutdown(diag, cfg.Diagnostics.ShutdownSec, logger)
	}

	done := make(chan error, 1)
	go func() { done <- dispatch(ctx, a, args, stdin) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
		if args[0] == "shell" {
			// let bubbletea restore the terminal
			<-done
		}
		return 130
	}

	switch {
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return 2
	case err != nil:
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func dispatch(ctx context.Context, a *app, args []string, stdin io.Reader) error {
	switch args[0] {
	case "upload":
		if len(args) != 2 {
			return errUsage
		}
		if err := a.selectFile(args[1]); err != nil {
			return err
		}
		return a.upload(ctx)
	case "search":
		if len(args) < 2 {
			return errUsage
		}
		return a.search(ctx, strings.Join(args[1:], " "))
	case "ping":
		return a.ping(ctx)
	case "shell":
		return a.shell(ctx, stdin)
	default:
		return errUsage
	}
}

// build is the composition root. The returned server is nil when diagnostics are disabled.
func build(cfg config.Config, logger *zap.Logger, out io.Writer) (*app, *http.Server, error) {
	reg := prometheus.NewRegistry()

	backendMetrics, err := metrics.NewBackend(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("backend metrics: %w", err)
	}
	widgetMetrics, err := metrics.NewWidgets(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("widget metrics: %w", err)
	}

	client := backend.New(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.RequestTimeout()),
		backend.WithPaths(cfg.Backend.UploadPath, cfg.Backend.SearchPath),
		backend.WithUserAgent(version.UserAgent(cfg.Backend.UserAgent)),
		backend.WithLogger(logger),
		backend.WithMetrics(backendMetrics),
	)

	uploadSvc := uploaduc.New(client,
		uploaduc.WithMetrics(widgetMetrics),
		uploaduc.WithObserver(func(st uploaduc.State) {
			logger.Debug("upload state",
				zap.String("file", st.FileName),
				zap.String("status", st.Status),
				zap.Bool("busy", st.Busy),
			)
		}),
	)
	searchSvc := searchuc.New(client,
		searchuc.WithMetrics(widgetMetrics),
		searchuc.WithObserver(func(st searchuc.State) {
			logger.Debug("search state",
				zap.Bool("busy", st.Busy),
				zap.Bool("has_result", st.Result != ""),
				zap.String("error", st.Error),
			)
		}),
	)
	healthSvc := healthuc.New(client, cfg.Backend.BaseURL)

	r, err := tui.NewRenderer(cfg.Render.Style, cfg.Render.WordWrap)
	if err != nil {
		logger.Warn("Falling back to plain output", zap.Error(err))
		r = tui.PlainRenderer{}
	}

	a := &app{
		uploadWidget: uploadSvc,
		searchWidget: searchSvc,
		health:       healthSvc,
		renderer:     r,
		out:          out,
	}

	if cfg.Diagnostics.Addr == "" {
		return a, nil, nil
	}

	httpMetrics, err := metrics.NewHTTP(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("diagnostics metrics: %w", err)
	}
	server := chiTransport.NewServer(healthSvc, uploadSvc, searchSvc, logger)
	srv := &http.Server{
		Addr:              cfg.Diagnostics.Addr,
		Handler:           server.Routes(cfg.Diagnostics.APIKeys, httpMetrics, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return a, srv, nil
}

func shutdown(srv *http.Server, timeoutSec int, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	logger.Debug("Diagnostics server stopped")
}
