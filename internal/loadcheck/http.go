package loadcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/bottleneck/internal/domain/types"
)

// HTTPClient wraps http.Client with a base URL and run id.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	runID   string
}

func newHTTPClient(baseURL, runID string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		runID:   runID,
	}
}

// Health performs GET /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Analyze posts one build to /bottleneck. The request id is the run id plus
// the build index so server logs can be matched to a run.
func (c *HTTPClient) Analyze(ctx context.Context, idx int, build types.BuildRequest) (types.Report, int, error) {
	body, err := json.Marshal(build)
	if err != nil {
		return types.Report{}, 0, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bottleneck", bytes.NewReader(body))
	if err != nil {
		return types.Report{}, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", fmt.Sprintf("%s-%d", c.runID, idx))

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Report{}, 0, fmt.Errorf("post build: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Report{}, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Report{}, resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var report types.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return types.Report{}, resp.StatusCode, fmt.Errorf("decode report: %w", err)
	}
	return report, resp.StatusCode, nil
}
