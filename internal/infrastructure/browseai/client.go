package browseai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"TaxNewsletter/internal/domain"
	"TaxNewsletter/internal/ports"
)

const defaultBaseURL = "https://api.browse.ai/v2"

// Client queries the Browse AI v2 API for robot runs and monitors.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ ports.MonitorSource = (*Client)(nil)

// NewClient wires an API key; baseURL falls back to the public endpoint.
func NewClient(baseURL, apiKey string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, client: client}
}

type taskListResponse struct {
	Result struct {
		RobotTasks struct {
			Items []taskItem `json:"items"`
		} `json:"robotTasks"`
	} `json:"result"`
}

type taskItem struct {
	ID                 string                      `json:"id"`
	Status             string                      `json:"status"`
	CreatedAt          int64                       `json:"createdAt"`
	RunByTaskMonitorID *string                     `json:"runByTaskMonitorId"`
	CapturedLists      map[string][]capturedRecord `json:"capturedLists"`
}

type capturedRecord map[string]string

// RecentRuns returns the first page of a robot's task history mapped to
// monitor runs, most fields verbatim; createdAt arrives as epoch millis.
func (c *Client) RecentRuns(ctx context.Context, robotID string) ([]domain.MonitorRun, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("browse.ai client misconfigured: missing api key")
	}

	url := fmt.Sprintf("%s/robots/%s/tasks?page=1", c.baseURL, robotID)

	var payload taskListResponse
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("list robot tasks: %w", err)
	}

	runs := make([]domain.MonitorRun, 0, len(payload.Result.RobotTasks.Items))
	for _, task := range payload.Result.RobotTasks.Items {
		runs = append(runs, toMonitorRun(task))
	}
	return runs, nil
}

func toMonitorRun(task taskItem) domain.MonitorRun {
	origin := domain.OriginManual
	if task.RunByTaskMonitorID != nil && *task.RunByTaskMonitorID != "" {
		origin = domain.OriginScheduled
	}

	run := domain.MonitorRun{
		ID:        task.ID,
		CreatedAt: time.UnixMilli(task.CreatedAt).UTC(),
		Origin:    origin,
		Status:    task.Status,
	}

	for _, rec := range firstCapturedList(task.CapturedLists) {
		run.Records = append(run.Records, domain.CapturedRecord(rec))
	}
	return run
}

// firstCapturedList picks the record sequence out of the captured-lists
// map. A robot normally captures a single list; when several exist, the
// lexicographically first name is used so selection stays deterministic.
func firstCapturedList(lists map[string][]capturedRecord) []capturedRecord {
	if len(lists) == 0 {
		return nil
	}
	names := make([]string, 0, len(lists))
	for name := range lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return lists[names[0]]
}

// Monitor describes one configured monitor of a robot.
type Monitor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Schedule string `json:"schedule"`
}

type monitorListResponse struct {
	Result struct {
		Monitors struct {
			Items []Monitor `json:"items"`
		} `json:"monitors"`
	} `json:"result"`
}

// Monitors lists the monitors configured for a robot. Used for operator
// inspection; the pipeline itself never depends on monitor metadata.
func (c *Client) Monitors(ctx context.Context, robotID string) ([]Monitor, error) {
	url := fmt.Sprintf("%s/robots/%s/monitors", c.baseURL, robotID)

	var payload monitorListResponse
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("list robot monitors: %w", err)
	}
	return payload.Result.Monitors.Items, nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
