package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediaspawner/internal/config"
	"mediaspawner/internal/services"
)

const userAgent = "MediaSpawner-Go/0.1.0"

// AuthStatus reports whether the remote endpoint accepts our token.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	NeedsRefresh  bool   `json:"needsRefresh"`
	Error         string `json:"error,omitempty"`
}

// Client is the remote backup surface. The HTTP implementation is swapped
// for a fake in tests.
type Client interface {
	AuthStatus(ctx context.Context) (AuthStatus, error)
	Upload(ctx context.Context, payload []byte) error
	Revoke(ctx context.Context) error
}

// NewClient builds a backup client for the configured endpoint. When no
// endpoint is configured, a noop client that reports unauthenticated is
// returned so callers need no nil checks.
func NewClient(cfg *config.Config) Client {
	endpoint := strings.TrimSpace(cfg.Backup.Endpoint)
	if endpoint == "" {
		return noopClient{}
	}

	timeout := time.Duration(cfg.Backup.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &httpClient{
		endpoint: endpoint,
		token:    strings.TrimSpace(cfg.Backup.Token),
		client:   &http.Client{Timeout: timeout},
	}
}

type httpClient struct {
	endpoint string
	token    string
	client   *http.Client
}

func (c *httpClient) AuthStatus(ctx context.Context) (AuthStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/status", nil, "")
	if err != nil {
		return AuthStatus{}, services.Wrap(services.ErrAuthentication, "backup", "auth status", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		drain(resp.Body)
		return AuthStatus{Authenticated: false}, nil
	}
	if resp.StatusCode >= 300 {
		return AuthStatus{}, services.Wrap(services.ErrAuthentication, "backup", "auth status",
			httpFailure(resp), nil)
	}

	var status AuthStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&status); err != nil {
		return AuthStatus{}, services.Wrap(services.ErrAuthentication, "backup", "auth status",
			"decode response", err)
	}
	return status, nil
}

func (c *httpClient) Upload(ctx context.Context, payload []byte) error {
	resp, err := c.do(ctx, http.MethodPut, "/backup", bytes.NewReader(payload), "application/json")
	if err != nil {
		return services.Wrap(services.ErrUpload, "backup", "upload", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return services.Wrap(services.ErrUpload, "backup", "upload", httpFailure(resp), nil)
	}
	drain(resp.Body)
	return nil
}

func (c *httpClient) Revoke(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/auth", nil, "")
	if err != nil {
		return services.Wrap(services.ErrAuthentication, "backup", "revoke", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return services.Wrap(services.ErrAuthentication, "backup", "revoke", httpFailure(resp), nil)
	}
	drain(resp.Body)
	return nil
}

func (c *httpClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.client.Do(req)
}

func httpFailure(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	message := strings.TrimSpace(string(body))
	if message == "" {
		return fmt.Sprintf("endpoint returned %d", resp.StatusCode)
	}
	return fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, message)
}

func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, body)
}

type noopClient struct{}

func (noopClient) AuthStatus(context.Context) (AuthStatus, error) { return AuthStatus{}, nil }
func (noopClient) Upload(context.Context, []byte) error {
	return services.Wrap(services.ErrNotAuthenticated, "backup", "upload", "no endpoint configured", nil)
}
func (noopClient) Revoke(context.Context) error { return nil }
