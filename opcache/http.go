package opcache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

const maxStatusBytes = 1 << 20

// HTTPConfig configures the HTTP introspector.
type HTTPConfig struct {
	// URL serves the JSON encoding of opcache_get_status(false).
	URL string

	// Timeout bounds a single status request.
	// Default: 2 seconds
	Timeout time.Duration

	// Client is the HTTP client to use.
	// Default: a client with Timeout applied
	Client *http.Client
}

// HTTPIntrospector fetches the cache status from a status endpoint.
// Concurrent Status calls share a single in-flight request.
type HTTPIntrospector struct {
	config HTTPConfig
	client *http.Client
	group  singleflight.Group
}

// NewHTTPIntrospector creates a new HTTP introspector.
func NewHTTPIntrospector(config HTTPConfig) (*HTTPIntrospector, error) {
	if config.URL == "" {
		return nil, ErrMissingURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Second
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &HTTPIntrospector{
		config: config,
		client: client,
	}, nil
}

// phpStatus mirrors the fields of opcache_get_status(false) we read.
type phpStatus struct {
	OpcacheEnabled bool `json:"opcache_enabled"`
	MemoryUsage    struct {
		UsedMemory   uint64 `json:"used_memory"`
		FreeMemory   uint64 `json:"free_memory"`
		WastedMemory uint64 `json:"wasted_memory"`
	} `json:"memory_usage"`
	Statistics struct {
		NumCachedScripts int     `json:"num_cached_scripts"`
		HitRate          float64 `json:"opcache_hit_rate"`
	} `json:"opcache_statistics"`
}

// Status fetches and decodes the current cache status.
func (h *HTTPIntrospector) Status(ctx context.Context) (Status, error) {
	v, err, _ := h.group.Do(h.config.URL, func() (any, error) {
		return h.fetch(ctx)
	})
	if err != nil {
		return Status{}, err
	}
	return v.(Status), nil
}

func (h *HTTPIntrospector) fetch(ctx context.Context) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.config.URL, nil)
	if err != nil {
		return Status{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("fetch status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Status{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBytes))
	if err != nil {
		return Status{}, fmt.Errorf("read status: %w", err)
	}

	return decodeStatus(body)
}

// decodeStatus accepts either a status object or the literal false that
// opcache_get_status returns when the cache is off.
func decodeStatus(body []byte) (Status, error) {
	body = bytes.TrimSpace(body)
	if bytes.Equal(body, []byte("false")) || bytes.Equal(body, []byte("null")) {
		return Status{}, nil
	}

	var raw phpStatus
	if err := json.Unmarshal(body, &raw); err != nil {
		return Status{}, fmt.Errorf("%w: %v", ErrMalformedStatus, err)
	}

	return Status{
		Enabled:       raw.OpcacheEnabled,
		UsedMemory:    raw.MemoryUsage.UsedMemory,
		FreeMemory:    raw.MemoryUsage.FreeMemory,
		WastedMemory:  raw.MemoryUsage.WastedMemory,
		HitRate:       raw.Statistics.HitRate,
		CachedScripts: raw.Statistics.NumCachedScripts,
	}, nil
}
