// Package client provides a JSON HTTP client for the docchat server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound indicates an unknown job id or collection name.
var ErrNotFound = errors.New("not found")

// ErrPollBudgetExceeded indicates the job did not reach a terminal state
// within the caller's attempt budget. The server-side job keeps running.
var ErrPollBudgetExceeded = errors.New("job still running after polling budget")

// Client talks to the docchat HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. If baseURL is empty, uses DOCCHAT_SERVER_URL or
// defaults to localhost:3001. Timeout is configurable via
// DOCCHAT_CLIENT_TIMEOUT (completion calls can be slow).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("DOCCHAT_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:3001"
	}

	timeout := 5 * time.Minute
	if t := os.Getenv("DOCCHAT_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UploadResult is the server's response to a document submission.
type UploadResult struct {
	JobID          string `json:"jobId"`
	CollectionName string `json:"collectionName"`
	Message        string `json:"message"`
}

// Job mirrors the server's status projection.
type Job struct {
	JobID          string `json:"jobId"`
	Status         string `json:"status"`
	Progress       int    `json:"progress"`
	CollectionName string `json:"collectionName"`
	Error          string `json:"error"`
}

// Terminal reports whether the job reached completed or failed.
func (j *Job) Terminal() bool {
	return j.Status == "completed" || j.Status == "failed"
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Upload submits the file at path for ingestion.
func (c *Client) Upload(ctx context.Context, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return c.UploadReader(ctx, filepath.Base(path), f)
}

// UploadReader submits a document read from r under the given filename.
func (c *Client) UploadReader(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("pdf", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Status fetches the current job record. Returns ErrNotFound for an
// unknown id.
func (c *Client) Status(ctx context.Context, jobID string) (*Job, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/status/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var job Job
	if err := c.do(req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Chat asks one question against a collection.
func (c *Client) Chat(ctx context.Context, query, collectionName string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"query":          query,
		"collectionName": collectionName,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		Response string `json:"response"`
	}
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	return result.Response, nil
}

// Health checks the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, nil)
}

// WaitForJob polls the status endpoint until the job is terminal or the
// attempt budget runs out. Running out of budget is a client-side failure
// only; the server-side job keeps going.
func (c *Client) WaitForJob(ctx context.Context, jobID string, attempts int, interval time.Duration) (*Job, error) {
	for i := 0; i < attempts; i++ {
		job, err := c.Status(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil, ErrPollBudgetExceeded
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			msg := apiErr.Error
			if apiErr.Details != "" {
				msg = msg + ": " + apiErr.Details
			}
			if resp.StatusCode == http.StatusNotFound {
				return fmt.Errorf("%w: %s", ErrNotFound, msg)
			}
			return errors.New(msg)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(body))
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
