package control

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/promptcast/internal/domain/entity"
)

const defaultClientTimeout = 10 * time.Second

// ErrDaemonUnreachable means nothing answered on the control address.
var ErrDaemonUnreachable = errors.New("promptcast daemon is not reachable")

// APIError is a non-2xx answer from the daemon.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("daemon answered %d: %s", e.Status, e.Message)
}

// Client talks to a running daemon.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the host:port the daemon listens on.
func NewClient(addr string) *Client {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: defaultClientTimeout},
	}
}

// Execute asks the daemon to run an action on text.
func (c *Client) Execute(ctx context.Context, ref entity.ActionRef, text string) (*ExecuteResponse, error) {
	body, err := json.Marshal(entity.ExecutionRequest{Ref: ref, SelectionText: text})
	if err != nil {
		return nil, err
	}
	var resp ExecuteResponse
	if err := c.do(ctx, http.MethodPost, "/execute", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shortcuts returns the daemon's shortcut map.
func (c *Client) Shortcuts(ctx context.Context) ([]entity.ShortcutBinding, error) {
	var bindings []entity.ShortcutBinding
	if err := c.do(ctx, http.MethodGet, "/shortcuts", nil, &bindings); err != nil {
		return nil, err
	}
	return bindings, nil
}

// Menus returns the daemon's menu tree.
func (c *Client) Menus(ctx context.Context) ([]entity.MenuEntry, error) {
	var entries []entity.MenuEntry
	if err := c.do(ctx, http.MethodGet, "/menus", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Health checks that the daemon is up.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var h HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w at %s: %w", ErrDaemonUnreachable, c.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		if json.NewDecoder(resp.Body).Decode(&e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
