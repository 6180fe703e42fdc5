package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WorkerVersion is sent with every poll so the server can gate old workers.
const WorkerVersion = "v0.1.0"

// Client is the feedlet side of the long-poll loop.
type Client struct {
	ServerURL   string
	Token       string
	PollTimeout time.Duration
	HTTPClient  *http.Client
}

func NewClient(serverURL, token string) *Client {
	return &Client{
		ServerURL:   serverURL,
		Token:       token,
		PollTimeout: 30 * time.Second,
		HTTPClient: &http.Client{
			Timeout: 35 * time.Second, // slightly above the poll timeout
		},
	}
}

func (c *Client) setHeaders(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Feed-Let-Version", WorkerVersion)
}

// GetTask long-polls for the next task. A nil task means the poll timed out.
func (c *Client) GetTask(ctx context.Context) (*Task, error) {
	url := fmt.Sprintf("%s/tasks/poll?timeout=%d", c.ServerURL, int(c.PollTimeout.Seconds()))

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}

	return &task, nil
}

// SubmitResult posts a finished task's result back to the server.
func (c *Client) SubmitResult(result *Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	url := fmt.Sprintf("%s/tasks/result", c.ServerURL)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(resultJSON))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil
}
