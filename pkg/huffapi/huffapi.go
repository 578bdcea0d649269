// Package huffapi is a client for the huffpack HTTP server.
package huffapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// 응답 시 받는 데이터 구조체
type Run struct {
	ID            string        `json:"id"`
	Mode          string        `json:"mode"`
	Name          string        `json:"name"`
	BytesIn       int64         `json:"bytes_in"`
	BytesOut      int64         `json:"bytes_out"`
	Workers       int           `json:"workers"`
	Chunks        int           `json:"chunks"`
	BaselineBytes int64         `json:"baseline_bytes,omitempty"`
	Duration      time.Duration `json:"duration_ns"`
	CreatedAt     time.Time     `json:"created_at"`
	Err           string        `json:"error,omitempty"`
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("huffapi: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Encode sends data to the server and returns the encoded stream together
// with the id of the recorded run.
func (c *Client) Encode(ctx context.Context, name string, data []byte) ([]byte, string, error) {
	return c.transform(ctx, "/api/v1/encode", name, data)
}

func (c *Client) Decode(ctx context.Context, name string, data []byte) ([]byte, string, error) {
	return c.transform(ctx, "/api/v1/decode", name, data)
}

func (c *Client) GetRun(ctx context.Context, id string) (*Run, error) {
	return doRequest[*Run](ctx, c, "/api/v1/runs/"+url.PathEscape(id))
}

// ListRuns returns the newest runs first. limit <= 0 lists all.
func (c *Client) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	path := "/api/v1/runs"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return doRequest[[]Run](ctx, c, path)
}

func (c *Client) transform(ctx context.Context, path, name string, data []byte) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if name != "" {
		req.Header.Set("X-File-Name", name)
	}

	body, resp, err := c.do(req)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("X-Run-ID"), nil
}

func doRequest[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("Accept", "application/json")

	body, _, err := c.do(req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("huffapi: decode %s: %w", path, err)
	}
	return out, nil
}

func (c *Client) do(req *http.Request) ([]byte, *http.Response, error) {
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return nil, nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return data, resp, nil
}
