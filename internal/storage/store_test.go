package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ve-ev/release-manager-app/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.ExtensionProperty{}))
	return NewGormStore(db)
}

func TestPropertyStore_RoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, found, err := store.Get(ctx, ScopeProject, "p1", "releases")
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, store.Set(ctx, ScopeProject, "p1", "releases", `[]`))

	value, found, err := store.Get(ctx, ScopeProject, "p1", "releases")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, value)

	// Last write wins
	assert.NoError(t, store.Set(ctx, ScopeProject, "p1", "releases", `[{"id":"r1"}]`))
	value, _, _ = store.Get(ctx, ScopeProject, "p1", "releases")
	assert.Equal(t, `[{"id":"r1"}]`, value)

	assert.NoError(t, store.Delete(ctx, ScopeProject, "p1", "releases"))
	_, found, _ = store.Get(ctx, ScopeProject, "p1", "releases")
	assert.False(t, found)
}

func TestPropertyStore_ScopesAreIsolated(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	store.Set(ctx, ScopeProject, "o1", "expandedVersion", `"project"`)
	store.Set(ctx, ScopeUser, "o1", "expandedVersion", `"user"`)

	projectValue, _, _ := store.Get(ctx, ScopeProject, "o1", "expandedVersion")
	userValue, _, _ := store.Get(ctx, ScopeUser, "o1", "expandedVersion")
	assert.Equal(t, `"project"`, projectValue)
	assert.Equal(t, `"user"`, userValue)
}

func TestDecodeSettings_CurrentShape(t *testing.T) {
	settings, err := DecodeSettings(`{"customFieldNames":["State","Progress"],"redZoneValues":["Blocked"]}`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"State", "Progress"}, settings.CustomFieldNames)
	assert.Equal(t, []string{"Blocked"}, settings.RedZoneValues)
}

func TestDecodeSettings_LegacySingleFieldName(t *testing.T) {
	settings, err := DecodeSettings(`{"customFieldName":"State"}`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"State"}, settings.CustomFieldNames)
}

func TestStatusDataDefaultsToEmptyMaps(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	data, err := LoadStatusData(ctx, store, "p1")
	assert.NoError(t, err)
	assert.NotNil(t, data.IssueStatuses)
	assert.NotNil(t, data.TestStatuses)

	data.IssueStatuses["ISSUE-1"] = models.IssueFixed
	assert.NoError(t, SaveStatusData(ctx, store, "p1", data))

	reloaded, err := LoadStatusData(ctx, store, "p1")
	assert.NoError(t, err)
	assert.Equal(t, models.IssueFixed, reloaded.IssueStatuses["ISSUE-1"])
}
