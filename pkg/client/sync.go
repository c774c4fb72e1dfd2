package client

import (
	"context"

	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/pkg/logger"
)

// Releases returns the cached release list. Elements are shared, not copied:
// an unchanged row keeps its identity across polls so memoized consumers can
// skip re-rendering it.
func (c *Client) Releases() []*models.ReleaseVersion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.releases
}

// IssueStatuses returns the cached status maps. Updates replace the whole
// value, so holders of a stale snapshot stay safe.
func (c *Client) IssueStatuses() *models.IssueStatusData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statuses
}

// Settings returns the cached progress settings, or nil before the first
// successful fetch.
func (c *Client) Settings() *models.AppSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// RefreshReleases fetches the release list now. Concurrent callers share one
// request; calls inside the debounce window are no-ops against the cache.
func (c *Client) RefreshReleases(ctx context.Context) error {
	if c.debounced(ResourceReleases) {
		return nil
	}
	_, err, _ := c.group.Do(ResourceReleases, func() (interface{}, error) {
		var response struct {
			Releases []models.ReleaseVersion `json:"releases"`
		}
		if err := c.getJSON(ctx, c.projectPath("/releases"), &response); err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.mu.Lock()
		c.releases = reconcileReleases(c.releases, response.Releases)
		c.mu.Unlock()

		c.notify(ResourceReleases)
		return nil, nil
	})
	return err
}

// RefreshStatuses fetches the shared issue-status maps now
func (c *Client) RefreshStatuses(ctx context.Context) error {
	if c.debounced(ResourceStatuses) {
		return nil
	}
	_, err, _ := c.group.Do(ResourceStatuses, func() (interface{}, error) {
		var response models.IssueStatusData
		if err := c.getJSON(ctx, c.projectPath("/issue-statuses"), &response); err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if response.IssueStatuses == nil {
			response.IssueStatuses = map[string]models.IssueStatus{}
		}
		if response.TestStatuses == nil {
			response.TestStatuses = map[string]models.TestStatus{}
		}

		c.mu.Lock()
		c.statuses = &response
		c.mu.Unlock()

		c.notify(ResourceStatuses)
		return nil, nil
	})
	return err
}

// RefreshSettings fetches the progress settings now
func (c *Client) RefreshSettings(ctx context.Context) error {
	if c.debounced(ResourceAppSettings) {
		return nil
	}
	_, err, _ := c.group.Do(ResourceAppSettings, func() (interface{}, error) {
		var response struct {
			Settings *models.AppSettings `json:"settings"`
		}
		if err := c.getJSON(ctx, c.projectPath("/app-settings"), &response); err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.mu.Lock()
		c.settings = response.Settings
		c.mu.Unlock()

		c.notify(ResourceAppSettings)
		return nil, nil
	})
	return err
}

// SetIssueStatus applies the manual status locally right away, mirrors the
// backend's test-status coupling, and persists in the background. A failed
// persist is not rolled back; subscribers get a refresh signal and the next
// poll reconciles.
func (c *Client) SetIssueStatus(ctx context.Context, issueID string, status models.IssueStatus) {
	c.mu.Lock()
	next := cloneStatusData(c.statuses)
	next.IssueStatuses[issueID] = status
	if status != models.IssueFixed && status != models.IssueMerged {
		next.TestStatuses[issueID] = models.TestNotTested
	}
	c.statuses = next
	c.mu.Unlock()

	c.notify(ResourceStatuses)

	go func() {
		payload := map[string]interface{}{"issueId": issueID, "status": status}
		if err := c.sendJSON(context.WithoutCancel(ctx), "PUT", c.projectPath("/issue-status"), payload); err != nil {
			logger.Warn().Err(err).Str("issue", issueID).Msg("Failed to persist issue status; refresh needed")
			c.notify(ResourceStatuses)
		}
	}()
}

// SetTestStatus is the optimistic counterpart for QA state. The backend's
// coercion (no test result while the issue is not Fixed/Merged) is mirrored
// locally so the optimistic value matches what a poll would bring back.
func (c *Client) SetTestStatus(ctx context.Context, issueID string, testStatus models.TestStatus) {
	c.mu.Lock()
	next := cloneStatusData(c.statuses)
	current := next.IssueStatuses[issueID]
	if current == models.IssueFixed || current == models.IssueMerged {
		next.TestStatuses[issueID] = testStatus
	} else {
		next.TestStatuses[issueID] = models.TestNotTested
	}
	c.statuses = next
	c.mu.Unlock()

	c.notify(ResourceStatuses)

	go func() {
		payload := map[string]interface{}{"issueId": issueID, "testStatus": testStatus}
		if err := c.sendJSON(context.WithoutCancel(ctx), "PUT", c.projectPath("/issue-test-status"), payload); err != nil {
			logger.Warn().Err(err).Str("issue", issueID).Msg("Failed to persist test status; refresh needed")
			c.notify(ResourceStatuses)
		}
	}()
}

func cloneStatusData(data *models.IssueStatusData) *models.IssueStatusData {
	next := models.NewIssueStatusData()
	if data == nil {
		return next
	}
	for k, v := range data.IssueStatuses {
		next.IssueStatuses[k] = v
	}
	for k, v := range data.TestStatuses {
		next.TestStatuses[k] = v
	}
	return next
}

// sameRenderedFields compares the fields a list row renders; rows matching on
// all of them keep their identity between polls.
func sameRenderedFields(a *models.ReleaseVersion, b *models.ReleaseVersion) bool {
	return a.Product == b.Product &&
		a.Version == b.Version &&
		a.Status == b.Status &&
		a.FeatureFreezeDate == b.FeatureFreezeDate &&
		a.ReleaseDate == b.ReleaseDate &&
		len(a.PlannedIssues) == len(b.PlannedIssues)
}

// reconcileReleases builds the next cached list from a poll response, reusing
// the previous element for every row whose rendered fields are unchanged.
func reconcileReleases(previous []*models.ReleaseVersion, fetched []models.ReleaseVersion) []*models.ReleaseVersion {
	byID := make(map[string]*models.ReleaseVersion, len(previous))
	for _, release := range previous {
		byID[release.ID] = release
	}

	next := make([]*models.ReleaseVersion, 0, len(fetched))
	for i := range fetched {
		incoming := &fetched[i]
		if existing, ok := byID[incoming.ID]; ok && sameRenderedFields(existing, incoming) {
			next = append(next, existing)
			continue
		}
		next = append(next, incoming)
	}
	return next
}
