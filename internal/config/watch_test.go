package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/bottleneck/internal/config"
	"github.com/okian/bottleneck/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestWatch(t *testing.T) {
	_ = logger.Init()

	convey.Convey("Given a watched config file", t, func() {
		clearConfigEnvVars()
		path := createTempConfigFile("log_level: info\n")
		defer func() { _ = os.Remove(path) }()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		changes := make(chan *config.Config, 4)
		done := make(chan error, 1)
		go func() {
			done <- config.Watch(ctx, path, func(c *config.Config) {
				select {
				case changes <- c:
				case <-ctx.Done():
				}
			})
		}()
		// Give the watcher time to register the file.
		time.Sleep(200 * time.Millisecond)

		convey.Convey("When an invalid value and then a valid one are written", func() {
			convey.So(os.WriteFile(path, []byte("addr: \"\"\n"), 0o600), convey.ShouldBeNil)
			time.Sleep(200 * time.Millisecond)
			convey.So(os.WriteFile(path, []byte("log_level: debug\n"), 0o600), convey.ShouldBeNil)

			var got *config.Config
			deadline := time.After(5 * time.Second)
		wait:
			for {
				select {
				case c := <-changes:
					if c.LogLevel == "debug" {
						got = c
						break wait
					}
				case <-deadline:
					break wait
				}
			}

			convey.Convey("Then only the valid config is delivered", func() {
				convey.So(got, convey.ShouldNotBeNil)
				convey.So(got.Addr, convey.ShouldEqual, ":9080")
			})

			convey.Convey("And Watch returns once the context is cancelled", func() {
				cancel()
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("watch did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given a config file saved atomically", t, func() {
		clearConfigEnvVars()
		dir := t.TempDir()
		path := filepath.Join(dir, "bottleneck.yaml")
		convey.So(os.WriteFile(path, []byte("log_level: info\n"), 0o600), convey.ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		changes := make(chan *config.Config, 8)
		go func() {
			_ = config.Watch(ctx, path, func(c *config.Config) {
				select {
				case changes <- c:
				case <-ctx.Done():
				}
			})
		}()
		time.Sleep(200 * time.Millisecond)

		convey.Convey("When two saves each rename a temp file over the path", func() {
			levels := make([]string, 0, 2)
			for _, level := range []string{"debug", "warn"} {
				tmp := filepath.Join(dir, ".bottleneck.yaml.swp")
				convey.So(os.WriteFile(tmp, []byte("log_level: "+level+"\n"), 0o600), convey.ShouldBeNil)
				convey.So(os.Rename(tmp, path), convey.ShouldBeNil)

				deadline := time.After(5 * time.Second)
			wait:
				for {
					select {
					case c := <-changes:
						if c.LogLevel == level {
							levels = append(levels, c.LogLevel)
							break wait
						}
					case <-deadline:
						break wait
					}
				}
			}

			convey.Convey("Then both replacements are picked up", func() {
				convey.So(levels, convey.ShouldResemble, []string{"debug", "warn"})
			})
		})
	})

	convey.Convey("Given a path that does not exist", t, func() {
		err := config.Watch(context.Background(), "/non/existent/config.yaml", func(*config.Config) {})

		convey.Convey("Then Watch fails immediately", func() {
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
