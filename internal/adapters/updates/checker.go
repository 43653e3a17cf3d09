// Package updates asks the release feed whether a newer build is available.
package updates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/mod/semver"

	"github.com/okian/bottleneck/internal/version"
	"github.com/okian/bottleneck/pkg/logger"
)

const (
	// DefaultURL is the GitHub "latest release" endpoint of the project.
	DefaultURL     = "https://api.github.com/repos/okian/bottleneck/releases/latest"
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// ErrUnexpectedStatus is returned when the feed answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected release feed status")

// Release is the subset of the release payload we care about.
type Release struct {
	Tag     string `json:"tag_name"`
	URL     string `json:"html_url"`
	Version string `json:"version"`
}

// Status is the outcome of the last check, as reported by /version.
type Status struct {
	Checked   bool      `json:"checked"`
	Available bool      `json:"available"`
	Latest    string    `json:"latest,omitempty"`
	URL       string    `json:"url,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at,omitempty"`
}

// Checker polls a release feed.
type Checker struct {
	url     string
	current string
	client  *http.Client
	logger  logger.Logger

	mu   sync.RWMutex
	last Status
}

// Option applies a configuration option to the Checker.
type Option func(*Checker)

// WithURL sets the release feed URL.
func WithURL(url string) Option {
	return func(c *Checker) {
		if url != "" {
			c.url = url
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// WithCurrentVersion overrides the running version, which defaults to
// version.Version.
func WithCurrentVersion(v string) Option {
	return func(c *Checker) {
		if v != "" {
			c.current = v
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		url:     DefaultURL,
		current: version.Version,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check fetches the latest release. newer is true only when both versions
// are valid semver and the remote one is greater.
func (c *Checker) Check(ctx context.Context) (Release, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Release{}, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "bottleneck/"+c.current)

	resp, err := c.client.Do(req)
	if err != nil {
		return Release{}, false, fmt.Errorf("fetch release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, false, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&rel); err != nil {
		return Release{}, false, fmt.Errorf("decode release: %w", err)
	}
	rel.Version = strings.TrimPrefix(strings.TrimSpace(rel.Tag), "v")

	return rel, IsNewer(rel.Version, c.current), nil
}

// Run performs one check, logs the outcome and records it for Last. Errors
// are logged and swallowed.
func (c *Checker) Run(ctx context.Context) Status {
	log := c.logger
	if log == nil {
		log = logger.Get()
	}

	st := Status{Checked: true, At: time.Now().UTC()}
	rel, newer, err := c.Check(ctx)
	switch {
	case err != nil:
		st.Error = err.Error()
		log.Warn(ctx, "update check failed", logger.Error(err))
	case newer:
		st.Available, st.Latest, st.URL = true, rel.Version, rel.URL
		log.Info(ctx, "newer release available",
			logger.String("current", c.current),
			logger.String("latest", rel.Version),
			logger.String("url", rel.URL),
		)
	default:
		st.Latest = rel.Version
		log.Debug(ctx, "running the latest release", logger.String("version", c.current))
	}

	c.mu.Lock()
	c.last = st
	c.mu.Unlock()
	return st
}

// Last returns the outcome of the most recent Run.
func (c *Checker) Last() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// IsNewer reports whether latest is a greater semver than current. Either
// side may carry a leading "v".
func IsNewer(latest, current string) bool {
	l, cur := canonical(latest), canonical(current)
	if !semver.IsValid(l) || !semver.IsValid(cur) {
		return false
	}
	return semver.Compare(l, cur) > 0
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return "v" + strings.TrimPrefix(v, "v")
}
