package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/bottleneck/internal/adapters/updates"
	app "github.com/okian/bottleneck/internal/app"
	"github.com/okian/bottleneck/internal/config"
	"github.com/okian/bottleneck/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startedService() *app.Service {
	svc := app.New()
	convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
	return svc
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("BOTTLENECK_ADDR", ":8080")
			_ = os.Setenv("BOTTLENECK_MAX_SEARCH_RESULTS", "100")
			_ = os.Setenv("BOTTLENECK_MCP_ENABLED", "false")
			defer func() {
				_ = os.Unsetenv("BOTTLENECK_ADDR")
				_ = os.Unsetenv("BOTTLENECK_MAX_SEARCH_RESULTS")
				_ = os.Unsetenv("BOTTLENECK_MCP_ENABLED")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxSearchResults, convey.ShouldEqual, 100)
				convey.So(cfg.MCPEnabled, convey.ShouldBeFalse)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a mux built from the default config", t, func() {
		svc := startedService()
		defer svc.Stop()
		cfg := config.New()
		checker := updates.New(updates.WithCurrentVersion("1.0.0"))
		mux := newMux(context.Background(), cfg, svc, checker)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then every surface is reachable", func() {
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/metrics").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/stats").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/version").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/cpus?limit=1").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the MCP endpoint is mounted", func() {
			convey.So(get("/mcp").Code, convey.ShouldNotEqual, http.StatusNotFound)
		})

		convey.Convey("Then the bottleneck route answers", func() {
			w := httptest.NewRecorder()
			body := `{"cpu":"AMD Ryzen 5 5600X","gpu":"NVIDIA RTX 5060 8GB","motherboard":"B550 (AM4)"}`
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bottleneck", strings.NewReader(body)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "solid_build")
		})
	})

	convey.Convey("Given MCP is disabled", t, func() {
		svc := startedService()
		defer svc.Stop()
		cfg := config.New()
		cfg.MCPEnabled = false
		mux := newMux(context.Background(), cfg, svc, nil)

		convey.Convey("Then /mcp is not served", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mcp", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestInitLogging(t *testing.T) {
	convey.Convey("Given an invalid log level", t, func() {
		var buf bytes.Buffer
		cfg := config.New()
		cfg.LogLevel = "chatty"
		cfg.LogFormat = "json"

		err := initLogging(&buf, cfg)

		convey.Convey("Then logging falls back to info and warns", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(buf.String(), convey.ShouldContainSubstring, "falling back to info")
		})

		convey.Convey("And a reload with a valid level is applied", func() {
			reloaded := config.New()
			reloaded.LogLevel = "debug"
			applyReload(reloaded)
			convey.So(buf.String(), convey.ShouldContainSubstring, "log level applied")
		})

		convey.Reset(func() { _ = logger.Init() })
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a config on an ephemeral port", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.ShutdownTimeoutMS = 2000

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, false) }()
			time.Sleep(200 * time.Millisecond)
			cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("run did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given a catalog path that does not exist", t, func() {
		cfg := config.New()
		cfg.CatalogPath = "/non/existent/catalog.yaml"

		convey.Convey("Then run fails before listening", func() {
			convey.So(run(context.Background(), cfg, false), convey.ShouldNotBeNil)
		})
	})
}
