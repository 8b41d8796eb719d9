package homeserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hushpost/internal/domain"
)

// DefaultTimeout bounds a single storage request so a slow or unreachable
// homeserver degrades the read rather than blocking the caller.
const DefaultTimeout = 10 * time.Second

// HTTPClient talks to homeservers over their HTTP object API. An owner's
// object at path p lives at <base>/<owner-hex><p>; listing a directory
// returns its object paths newline-delimited.
type HTTPClient struct {
	Base   string
	HTTP   *http.Client
	Logger *zap.Logger
}

// NewHTTP returns an HTTPClient for the given base URL.
func NewHTTP(base string, hc *http.Client, logger *zap.Logger) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{Base: strings.TrimRight(base, "/"), HTTP: hc, Logger: logger}
}

// Put stores body at path under the owner's namespace.
func (c *HTTPClient) Put(ctx context.Context, owner domain.Ed25519Public, path string, body []byte) error {
	u := c.url(owner, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", domain.ErrStorageUnavailable, u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: put %s: %s", domain.ErrStorageUnavailable, u, resp.Status)
	}
	c.Logger.Debug("stored record", zap.String("url", u), zap.Int("bytes", len(body)))
	return nil
}

// Get fetches one object from the owner's namespace.
func (c *HTTPClient) Get(ctx context.Context, owner domain.Ed25519Public, path string) ([]byte, error) {
	u := c.url(owner, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", domain.ErrStorageUnavailable, u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: get %s: %s", domain.ErrStorageUnavailable, u, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// List returns the object paths under dir in the owner's namespace.
func (c *HTTPClient) List(ctx context.Context, owner domain.Ed25519Public, dir string) ([]string, error) {
	u := c.url(owner, dir)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrStorageUnavailable, u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		// An unwritten conversation directory is an empty conversation.
		return nil, nil
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: list %s: %s", domain.ErrStorageUnavailable, u, resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrStorageUnavailable, u, err)
	}

	var paths []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

func (c *HTTPClient) url(owner domain.Ed25519Public, path string) string {
	return c.Base + "/" + owner.Hex() + path
}

// Compile-time assertion that HTTPClient implements domain.HomeserverClient.
var _ domain.HomeserverClient = (*HTTPClient)(nil)
