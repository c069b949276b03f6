package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Phuzzle/exerpal/internal/models"
	"github.com/Phuzzle/exerpal/internal/tracker"
)

// HTTPClient implements DataSource by calling the Exerpal REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale). The server
// resolves the caller's identity itself, so the userID arguments are
// ignored here.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) GetSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error) {
	body, err := c.get(ctx, "/api/v1/schedules/"+scheduleID)
	if err != nil {
		return nil, err
	}
	var schedule models.Schedule
	if err := json.Unmarshal(body, &schedule); err != nil {
		return nil, fmt.Errorf("httpclient: decode schedule: %w", err)
	}
	return &schedule, nil
}

func (c *HTTPClient) ListSchedules(ctx context.Context, userID string) ([]models.Schedule, error) {
	body, err := c.get(ctx, "/api/v1/schedules")
	if err != nil {
		return nil, err
	}
	var schedules []models.Schedule
	if err := json.Unmarshal(body, &schedules); err != nil {
		return nil, fmt.Errorf("httpclient: decode schedules: %w", err)
	}
	return schedules, nil
}

func (c *HTTPClient) LatestSchedule(ctx context.Context, userID string) (*models.Schedule, error) {
	body, err := c.get(ctx, "/api/v1/schedules/latest")
	if err != nil {
		return nil, err
	}
	var schedule models.Schedule
	if err := json.Unmarshal(body, &schedule); err != nil {
		return nil, fmt.Errorf("httpclient: decode schedule: %w", err)
	}
	return &schedule, nil
}

func (c *HTTPClient) GetOrInitProgress(ctx context.Context, userID string) (*models.Progress, error) {
	body, err := c.get(ctx, "/api/v1/progress")
	if err != nil {
		return nil, err
	}
	var progress models.Progress
	if err := json.Unmarshal(body, &progress); err != nil {
		return nil, fmt.Errorf("httpclient: decode progress: %w", err)
	}
	return &progress, nil
}

func (c *HTTPClient) History(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	body, err := c.get(ctx, "/api/v1/history")
	if err != nil {
		return nil, err
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	return entries, nil
}

func (c *HTTPClient) Stats(ctx context.Context, userID string) (*tracker.HistoryStats, error) {
	body, err := c.get(ctx, "/api/v1/history/stats")
	if err != nil {
		return nil, err
	}
	var stats tracker.HistoryStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}

func (c *HTTPClient) WeightProgression(ctx context.Context, userID string) (map[string][]tracker.WeightPoint, error) {
	body, err := c.get(ctx, "/api/v1/history/progression")
	if err != nil {
		return nil, err
	}
	var series map[string][]tracker.WeightPoint
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("httpclient: decode progression: %w", err)
	}
	return series, nil
}
