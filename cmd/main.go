package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/okian/bottleneck/internal/adapters/http/api"
	"github.com/okian/bottleneck/internal/adapters/http/site"
	"github.com/okian/bottleneck/internal/adapters/http/swagger"
	"github.com/okian/bottleneck/internal/adapters/mcpserver"
	"github.com/okian/bottleneck/internal/adapters/updates"
	app "github.com/okian/bottleneck/internal/app"
	"github.com/okian/bottleneck/internal/config"
	"github.com/okian/bottleneck/internal/version"
	"github.com/okian/bottleneck/pkg/logger"
	"github.com/okian/bottleneck/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Print version and exit")
		stdio       = flag.Bool("stdio", false, "Serve MCP over stdin/stdout instead of HTTP")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// stdout carries the protocol in stdio mode.
	var logOut io.Writer = os.Stdout
	if *stdio {
		logOut = os.Stderr
	}
	if err := initLogging(logOut, cfg); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg, *stdio); err != nil {
		logger.Get().Error(ctx, "bottleneck exited with error", logger.Error(err))
		os.Exit(1)
	}
}

// initLogging installs the global logger and applies the configured level,
// falling back to info on invalid input.
func initLogging(w io.Writer, cfg *config.Config) error {
	if err := logger.InitWith(w, cfg.LogFormat); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

func run(ctx context.Context, cfg *config.Config, stdio bool) error {
	log := logger.Get()
	log.Info(ctx, "starting bottleneck", logger.String("version", version.Info()))

	svc := app.New(
		app.WithLogger(log),
		app.WithCatalogPath(cfg.CatalogPath),
		app.WithMaxSearchResults(cfg.MaxSearchResults),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	if stdio {
		log.Info(ctx, "serving MCP over stdio")
		return mcpserver.New(svc).Run(ctx, &mcp.StdioTransport{})
	}

	var checker *updates.Checker
	if cfg.UpdateCheckEnabled {
		checker = updates.New(
			updates.WithURL(cfg.UpdateCheckURL),
			updates.WithTimeout(cfg.UpdateCheckTimeout()),
			updates.WithLogger(log.Named("updates")),
		)
	}

	mux := newMux(ctx, cfg, svc, checker)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info(ctx, "server stopped")
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})

	if checker != nil {
		g.Go(func() error {
			checker.Run(gctx)
			return nil
		})
	}

	if path := config.Path(); path != "" {
		g.Go(func() error {
			if err := config.Watch(gctx, path, applyReload); err != nil {
				log.Warn(gctx, "config watch disabled", logger.Error(err))
			}
			return nil
		})
	}

	return g.Wait()
}

// newMux registers every HTTP surface on a fresh mux.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service, checker *updates.Checker) *http.ServeMux {
	mux := http.NewServeMux()

	opts := []api.Option{
		api.WithLogger(logger.Get().Named("api")),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	if checker != nil {
		opts = append(opts, api.WithUpdates(checker))
	}
	api.NewServer(svc, opts...).Register(ctx, mux)

	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	if cfg.MCPEnabled {
		mcpserver.New(svc).Mount(ctx, mux, cfg.MCPPath)
	}
	return mux
}

// applyReload applies the settings that may change without a restart.
// Only the log level is live; everything else needs a restart.
func applyReload(cfg *config.Config) {
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "ignoring invalid log_level from reload",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		return
	}
	logger.Get().Info(context.Background(), "log level applied", logger.String("log_level", cfg.LogLevel))
}

// startSystemMetricsUpdater refreshes the runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.SampleRuntime()
		}
	}
}
