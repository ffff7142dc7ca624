// Package daemon wires every Plugin Orchestration Core component into a
// single bootstrap App: scan, optional autostart, HTTP surface, and
// signal-driven graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/libreassistant/poc/internal/poc/lm/providers"

	"github.com/libreassistant/poc/internal/poc/cli"
	"github.com/libreassistant/poc/internal/poc/dispatcher"
	"github.com/libreassistant/poc/internal/poc/httpapi"
	"github.com/libreassistant/poc/internal/poc/lifecycle"
	"github.com/libreassistant/poc/internal/poc/lm"
	"github.com/libreassistant/poc/internal/poc/manifest"
	"github.com/libreassistant/poc/internal/poc/options"
	"github.com/libreassistant/poc/internal/poc/permission"
	"github.com/libreassistant/poc/internal/poc/pluginclient"
	"github.com/libreassistant/poc/internal/poc/store"
	"github.com/libreassistant/poc/internal/poc/store/sqlite"
	"github.com/libreassistant/poc/internal/poc/supervisor"
	"github.com/libreassistant/poc/internal/poc/tracker"
	"github.com/libreassistant/poc/pkg/app"
	"github.com/libreassistant/poc/pkg/logger"
)

const AppName = "libreassistantd"

// ConfigError wraps a failure to even construct the process's dependency
// graph (missing plugins root, bad manifest root), mapped to exit code 64.
type ConfigError struct{ Cause error }

func (e *ConfigError) Error() string { return e.Cause.Error() }
func (e *ConfigError) Unwrap() error { return e.Cause }

// StartupError wraps a fatal failure during Lifecycle Controller boot,
// mapped to exit code 65.
type StartupError struct{ Cause error }

func (e *StartupError) Error() string { return e.Cause.Error() }
func (e *StartupError) Unwrap() error { return e.Cause }

// NewApp builds the daemon's cobra-driven bootstrap App.
func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	return app.NewApp(AppName, basename,
		app.WithOptions(opts),
		app.WithDescription("libreassistantd supervises local plugin subprocesses and relays a bounded LM<->plugin exchange over a loopback HTTP surface."),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
}

func run(opts *options.Options) app.RunFunc {
	return func(basename string) error {
		logPath := fmt.Sprintf("%s.log", basename)
		if err := logger.InitLog(logPath); err != nil {
			return err
		}
		defer logger.FlushLog()

		logger.Banner(cli.Banner())

		if _, err := os.Stat(opts.Manifest.PluginsRoot); err != nil {
			return &ConfigError{Cause: fmt.Errorf("plugins root %q: %w", opts.Manifest.PluginsRoot, err)}
		}

		registry := manifest.NewRegistry(opts.Manifest.PluginsRoot)
		gate := permission.NewGate()
		sup := supervisor.New(registry, gate, opts.Supervisor)
		tr := tracker.New(opts.Tracker.ArchiveSize)
		controller := lifecycle.New(registry, gate, sup, tr, opts.Manifest)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := controller.Boot(ctx); err != nil {
			return &StartupError{Cause: err}
		}

		client := pluginclient.New(sup, opts.Client.InvocationTimeout, opts.Client.MaxResponseBytes)

		backend, err := lm.Build(ctx, opts.LM)
		if err != nil {
			return &StartupError{Cause: fmt.Errorf("lm backend: %w", err)}
		}
		disp := dispatcher.New(backend, controller, client, tr, opts.Dispatcher.MaxSteps)

		var history store.ChatHistoryStore
		if opts.HTTP.SqlitePath != "" {
			db, err := sqlite.Open(opts.HTTP.SqlitePath)
			if err != nil {
				return &StartupError{Cause: fmt.Errorf("chat history store: %w", err)}
			}
			defer db.Close()
			history = db
		}

		server := httpapi.New(registry, gate, sup, controller, disp, tr, history)
		httpSrv := &http.Server{Addr: opts.HTTP.BindAddress, Handler: server.Router()}

		serveErrs := make(chan error, 1)
		go func() {
			logger.InfoX("daemon", "listening on %s", opts.HTTP.BindAddress)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErrs <- err
			}
		}()

		select {
		case <-ctx.Done():
			logger.InfoX("daemon", "shutdown signal received")
		case err := <-serveErrs:
			return &StartupError{Cause: fmt.Errorf("http surface: %w", err)}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)

		controller.Shutdown(opts.Supervisor.StopDeadline + 2*time.Second)
		return nil
	}
}
