package storage

import (
	"context"
	"encoding/json"

	"github.com/ve-ev/release-manager-app/internal/models"
)

// Typed accessors over the property store. Serialization lives here so that
// handlers never touch raw JSON, and so the legacy-shape decode happens in
// exactly one place.

func LoadReleases(ctx context.Context, store PropertyStore, projectID string) ([]models.ReleaseVersion, error) {
	raw, ok, err := store.Get(ctx, ScopeProject, projectID, KeyReleases)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.ReleaseVersion{}, nil
	}
	var releases []models.ReleaseVersion
	if err := json.Unmarshal([]byte(raw), &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

func SaveReleases(ctx context.Context, store PropertyStore, projectID string, releases []models.ReleaseVersion) error {
	raw, err := json.Marshal(releases)
	if err != nil {
		return err
	}
	return store.Set(ctx, ScopeProject, projectID, KeyReleases, string(raw))
}

// legacySettings covers the old stored shape where a single custom field name
// was kept as a plain string instead of an ordered candidate list.
type legacySettings struct {
	CustomFieldName string `json:"customFieldName"`
}

// DecodeSettings converts a stored settings blob to the current shape,
// upgrading the legacy single-field-name form on read.
func DecodeSettings(raw string) (*models.AppSettings, error) {
	var settings models.AppSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, err
	}
	if len(settings.CustomFieldNames) == 0 {
		var legacy legacySettings
		if err := json.Unmarshal([]byte(raw), &legacy); err == nil && legacy.CustomFieldName != "" {
			settings.CustomFieldNames = []string{legacy.CustomFieldName}
		}
	}
	return &settings, nil
}

func LoadSettings(ctx context.Context, store PropertyStore, projectID string) (*models.AppSettings, bool, error) {
	raw, ok, err := store.Get(ctx, ScopeProject, projectID, KeyAppSettings)
	if err != nil || !ok {
		return nil, false, err
	}
	settings, err := DecodeSettings(raw)
	if err != nil {
		return nil, false, err
	}
	return settings, true, nil
}

func SaveSettings(ctx context.Context, store PropertyStore, projectID string, settings *models.AppSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return store.Set(ctx, ScopeProject, projectID, KeyAppSettings, string(raw))
}

func LoadStatusData(ctx context.Context, store PropertyStore, projectID string) (*models.IssueStatusData, error) {
	raw, ok, err := store.Get(ctx, ScopeProject, projectID, KeyIssueStatusData)
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.NewIssueStatusData(), nil
	}
	var data models.IssueStatusData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	if data.IssueStatuses == nil {
		data.IssueStatuses = map[string]models.IssueStatus{}
	}
	if data.TestStatuses == nil {
		data.TestStatuses = map[string]models.TestStatus{}
	}
	return &data, nil
}

func SaveStatusData(ctx context.Context, store PropertyStore, projectID string, data *models.IssueStatusData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return store.Set(ctx, ScopeProject, projectID, KeyIssueStatusData, string(raw))
}

func LoadExpandedVersion(ctx context.Context, store PropertyStore, userID string) (string, error) {
	raw, ok, err := store.Get(ctx, ScopeUser, userID, KeyExpandedVersion)
	if err != nil || !ok {
		return "", err
	}
	var id string
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		// Very old entries stored the bare id
		return raw, nil
	}
	return id, nil
}

func SaveExpandedVersion(ctx context.Context, store PropertyStore, userID, versionID string) error {
	raw, err := json.Marshal(versionID)
	if err != nil {
		return err
	}
	return store.Set(ctx, ScopeUser, userID, KeyExpandedVersion, string(raw))
}
