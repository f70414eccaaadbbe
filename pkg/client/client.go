// Package client calls a running chime hub through its HTTP API over a
// Unix socket. This is what the CLI and the dashboard use instead of
// talking MQTT directly.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/grovetools/chime/errors"
	"github.com/grovetools/chime/pkg/api"
	"github.com/grovetools/chime/pkg/paths"
	"github.com/grovetools/chime/pkg/profiling"
)

// Client calls the hub's HTTP API over a Unix socket.
type Client struct {
	httpClient *http.Client
	socketPath string
}

// New creates a Client for the hub socket at the given path.
func New(socketPath string) *Client {
	// Create HTTP client that dials Unix socket
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
		DisableKeepAlives: false,
		MaxIdleConns:      10,
		IdleConnTimeout:   90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
		socketPath: socketPath,
	}
}

// NewDefault creates a Client for the hub socket at its default path.
func NewDefault() *Client {
	return New(paths.SocketPath())
}

// baseURL is the dummy host used for Unix socket HTTP requests.
// The actual connection goes through the Unix socket, not this URL.
const baseURL = "http://unix"

// IsRunning returns true if the hub is available and responding.
func (c *Client) IsRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Health returns the hub's health endpoint response.
func (c *Client) Health(ctx context.Context) (api.HealthResponse, error) {
	var out api.HealthResponse
	err := c.get(ctx, "/api/health", &out)
	return out, err
}

// Status returns a full hub snapshot.
func (c *Client) Status(ctx context.Context) (api.StatusResponse, error) {
	var out api.StatusResponse
	err := c.get(ctx, "/api/status", &out)
	return out, err
}

// Sessions returns all tracked sessions plus aggregate metrics.
func (c *Client) Sessions(ctx context.Context) (api.SessionsResponse, error) {
	var out api.SessionsResponse
	err := c.get(ctx, "/api/sessions", &out)
	return out, err
}

// Metrics returns the aggregate session metrics alone.
func (c *Client) Metrics(ctx context.Context) (api.MetricsView, error) {
	var out api.MetricsView
	err := c.get(ctx, "/api/metrics", &out)
	return out, err
}

// History lists stored notifications, newest first. A limit of 0 uses
// the hub's configured history size; unreadOnly filters read entries.
func (c *Client) History(ctx context.Context, limit int, unreadOnly bool) (api.HistoryResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if unreadOnly {
		q.Set("unread", "true")
	}
	path := "/api/history"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out api.HistoryResponse
	err := c.get(ctx, path, &out)
	return out, err
}

// MarkRead marks a single history entry read and returns the unread
// count. An empty id acknowledges everything: the unread counter and
// every stored entry.
func (c *Client) MarkRead(ctx context.Context, id string) (int, error) {
	var body interface{}
	if id != "" {
		body = map[string]string{"id": id}
	}

	var out struct {
		Unread int `json:"unread"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/history/read", body, &out); err != nil {
		return 0, err
	}
	return out.Unread, nil
}

// ClearHistory deletes all stored notifications.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/history", nil, nil)
}

// GetSettings returns the hub's active notification settings.
func (c *Client) GetSettings(ctx context.Context) (api.Settings, error) {
	var out api.Settings
	err := c.get(ctx, "/api/settings", &out)
	return out, err
}

// PutSettings persists new notification settings and returns what the
// hub applied.
func (c *Client) PutSettings(ctx context.Context, settings api.Settings) (api.Settings, error) {
	var out api.Settings
	err := c.do(ctx, http.MethodPut, "/api/settings", settings, &out)
	return out, err
}

// SetFocused reports dashboard visibility to the hub.
func (c *Client) SetFocused(ctx context.Context, focused bool, clientName string) error {
	req := api.FocusRequest{Focused: focused, Client: clientName}
	return c.do(ctx, http.MethodPost, "/api/focus", req, nil)
}

// Test asks the hub to emit a synthetic notification through the full
// delivery pipeline and returns what was sent.
func (c *Client) Test(ctx context.Context, kind string) (api.Notification, error) {
	var out api.Notification
	err := c.do(ctx, http.MethodPost, "/api/test", api.TestRequest{Kind: kind}, &out)
	return out, err
}

// Events subscribes to live hub updates via Server-Sent Events (SSE).
// Returns a channel that receives events. The channel is closed when
// the context is cancelled or the connection is lost.
func (c *Client) Events(ctx context.Context) (<-chan api.StreamEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/events", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream request: %w", err)
	}

	// Use a separate client with no timeout for streaming
	streamTransport := &http.Transport{
		DialContext: func(dialCtx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(dialCtx, "unix", c.socketPath)
		},
	}
	streamClient := &http.Client{
		Transport: streamTransport,
		Timeout:   0, // No timeout for streaming
	}

	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHubUnreachable, "could not connect to the event stream")
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}

	ch := make(chan api.StreamEvent, 10)

	go func() {
		defer resp.Body.Close()
		defer close(ch)
		defer streamTransport.CloseIdleConnections()

		scanner := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()

			// Skip comments and empty lines
			if strings.HasPrefix(line, ":") || line == "" {
				continue
			}

			// Parse SSE data lines
			if strings.HasPrefix(line, "data: ") {
				jsonStr := strings.TrimPrefix(line, "data: ")
				var ev api.StreamEvent
				if err := json.Unmarshal([]byte(jsonStr), &ev); err != nil {
					continue // Skip malformed data
				}

				select {
				case ch <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close cleans up any resources used by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// get issues a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do issues a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	route := path
	if i := strings.IndexByte(route, '?'); i >= 0 {
		route = route[:i]
	}
	defer profiling.Start("hub " + method + " " + route).Stop()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeHubUnreachable, "could not reach the hub")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if text := strings.TrimSpace(string(msg)); text != "" {
			return fmt.Errorf("hub returned status %d: %s", resp.StatusCode, text)
		}
		return fmt.Errorf("hub returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
