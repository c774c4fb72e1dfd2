// Package client is the consumer-side sync layer for the release-manager
// backend. It keeps a shared in-memory mirror of the backend's state
// (release list, issue statuses, app settings) approximately consistent
// across many concurrently rendered views without a push channel: fixed
// interval polling, optimistic local mutation, and subscriber notification.
//
// Consistency contract: last write observed by a poll wins. A failed refresh
// never clears cached data; the next poll tick is the retry mechanism.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/pkg/logger"
)

// Resource names used in subscriber notifications
const (
	ResourceReleases    = "releases"
	ResourceStatuses    = "issueStatuses"
	ResourceAppSettings = "appSettings"
)

const (
	defaultPollInterval   = 5 * time.Second
	defaultDebounceWindow = 300 * time.Millisecond
)

// Client mirrors one project's shared state
type Client struct {
	BaseURL   string
	Token     string
	ProjectID string
	HTTP      *http.Client

	PollInterval   time.Duration
	DebounceWindow time.Duration

	// One in-flight request per resource; late callers attach to it
	group singleflight.Group

	mu          sync.RWMutex
	releases    []*models.ReleaseVersion
	statuses    *models.IssueStatusData
	settings    *models.AppSettings
	lastFetched map[string]time.Time

	listenersMu  sync.Mutex
	listeners    map[int]func(resource string)
	nextListener int
}

// Option tweaks a Client at construction
type Option func(*Client)

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.PollInterval = d }
}

func WithDebounceWindow(d time.Duration) Option {
	return func(c *Client) { c.DebounceWindow = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

// New creates a sync client for one project
func New(baseURL, token, projectID string, opts ...Option) *Client {
	c := &Client{
		BaseURL:        baseURL,
		Token:          token,
		ProjectID:      projectID,
		HTTP:           &http.Client{Timeout: 10 * time.Second},
		PollInterval:   defaultPollInterval,
		DebounceWindow: defaultDebounceWindow,
		statuses:       models.NewIssueStatusData(),
		lastFetched:    map[string]time.Time{},
		listeners:      map[int]func(string){},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers a callback invoked whenever a resource's cached value
// changes (poll merge or optimistic mutation). The returned function removes
// the subscription.
func (c *Client) Subscribe(fn func(resource string)) (unsubscribe func()) {
	c.listenersMu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.listenersMu.Unlock()

	return func() {
		c.listenersMu.Lock()
		delete(c.listeners, id)
		c.listenersMu.Unlock()
	}
}

func (c *Client) notify(resource string) {
	c.listenersMu.Lock()
	callbacks := make([]func(string), 0, len(c.listeners))
	for _, fn := range c.listeners {
		callbacks = append(callbacks, fn)
	}
	c.listenersMu.Unlock()

	for _, fn := range callbacks {
		fn(resource)
	}
}

// Start polls all shared resources at the configured interval until ctx is
// cancelled. Poll results are discarded once ctx is done, so a fetch that
// resolves after Stop cannot resurrect state.
func (c *Client) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.PollInterval)
		defer ticker.Stop()

		c.pollAll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.pollAll(ctx)
			}
		}
	}()
}

func (c *Client) pollAll(ctx context.Context) {
	if err := c.RefreshReleases(ctx); err != nil {
		logger.Warn().Err(err).Msg("Release poll failed; keeping cached data")
	}
	if err := c.RefreshStatuses(ctx); err != nil {
		logger.Warn().Err(err).Msg("Status poll failed; keeping cached data")
	}
	if err := c.RefreshSettings(ctx); err != nil {
		logger.Warn().Err(err).Msg("Settings poll failed; keeping cached data")
	}
}

// debounced reports whether a fetch for resource fired within the debounce
// window, suppressing redundant fetches from simultaneous consumers.
func (c *Client) debounced(resource string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.lastFetched[resource]; ok && time.Since(last) < c.DebounceWindow {
		return true
	}
	c.lastFetched[resource] = time.Now()
	return false
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	c.decorate(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")
}

func (c *Client) projectPath(suffix string) string {
	return "/api/projects/" + c.ProjectID + suffix
}
