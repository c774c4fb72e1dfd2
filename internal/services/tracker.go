package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ve-ev/release-manager-app/internal/config"
	"github.com/ve-ev/release-manager-app/internal/database"
	"github.com/ve-ev/release-manager-app/pkg/logger"
)

// TrackerIssue is the host platform's issue shape as we consume it
type TrackerIssue struct {
	ID       string         `json:"id"`
	Summary  string         `json:"summary"`
	State    string         `json:"state"`
	Subtasks []TrackerIssue `json:"subtasks"`
}

// TrackerField is one custom field on an issue
type TrackerField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TrackerClient talks to the host issue-tracking platform's REST API
type TrackerClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	// cacheTTL bounds how stale resolved fields may get between polls
	cacheTTL time.Duration
}

func NewTrackerClient() *TrackerClient {
	ttl := 30 * time.Second
	if config.AppConfig != nil && config.AppConfig.FieldCacheTTL > 0 {
		ttl = time.Duration(config.AppConfig.FieldCacheTTL) * time.Second
	}
	baseURL, token := "", ""
	if config.AppConfig != nil {
		baseURL = config.AppConfig.TrackerBaseURL
		token = config.AppConfig.TrackerToken
	}
	return &TrackerClient{
		BaseURL:  baseURL,
		Token:    token,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		cacheTTL: ttl,
	}
}

func (t *TrackerClient) get(path string, dest interface{}) error {
	req, err := http.NewRequest(http.MethodGet, t.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("tracker: %s not found", path)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tracker: GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// GetIssue fetches an issue with its subtasks
func (t *TrackerClient) GetIssue(issueID string) (*TrackerIssue, error) {
	cacheKey := "tracker:issue:" + issueID
	if database.Redis != nil {
		var cached TrackerIssue
		if err := database.CacheGet(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var issue TrackerIssue
	if err := t.get("/api/issues/"+issueID, &issue); err != nil {
		return nil, err
	}

	if database.Redis != nil {
		if err := database.CacheSet(cacheKey, issue, t.cacheTTL); err != nil {
			logger.Warn().Err(err).Str("issue", issueID).Msg("Failed to cache issue")
		}
	}
	return &issue, nil
}

// GetIssueFields fetches the full custom-field set of an issue
func (t *TrackerClient) GetIssueFields(issueID string) ([]TrackerField, error) {
	cacheKey := "tracker:fields:" + issueID
	if database.Redis != nil {
		var cached []TrackerField
		if err := database.CacheGet(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var fields []TrackerField
	if err := t.get("/api/issues/"+issueID+"/fields", &fields); err != nil {
		return nil, err
	}

	if database.Redis != nil {
		if err := database.CacheSet(cacheKey, fields, t.cacheTTL); err != nil {
			logger.Warn().Err(err).Str("issue", issueID).Msg("Failed to cache issue fields")
		}
	}
	return fields, nil
}
