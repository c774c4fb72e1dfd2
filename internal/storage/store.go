package storage

import (
	"context"
	"errors"

	"github.com/ve-ev/release-manager-app/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope selects which extension-property bucket a key lives in
type Scope string

const (
	ScopeProject Scope = "project"
	ScopeUser    Scope = "user"
)

// Well-known property keys
const (
	KeyReleases        = "releases"
	KeyAppSettings     = "appSettings"
	KeyIssueStatusData = "issueStatusData"
	KeyExpandedVersion = "expandedVersion"
)

// PropertyStore is the dumb string store of the host platform's
// extension-property storage. Payloads are JSON serialized by the caller.
// Last write wins; there is no atomicity across keys.
type PropertyStore interface {
	Get(ctx context.Context, scope Scope, owner, key string) (string, bool, error)
	Set(ctx context.Context, scope Scope, owner, key, value string) error
	Delete(ctx context.Context, scope Scope, owner, key string) error
}

// GormStore persists properties in a single extension_properties table
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, scope Scope, owner, key string) (string, bool, error) {
	var prop models.ExtensionProperty
	err := s.db.WithContext(ctx).
		First(&prop, "scope = ? AND owner = ? AND key = ?", string(scope), owner, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return prop.Value, true, nil
}

func (s *GormStore) Set(ctx context.Context, scope Scope, owner, key, value string) error {
	prop := models.ExtensionProperty{
		Scope: string(scope),
		Owner: owner,
		Key:   key,
		Value: value,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "owner"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updatedAt"}),
		}).
		Create(&prop).Error
}

func (s *GormStore) Delete(ctx context.Context, scope Scope, owner, key string) error {
	return s.db.WithContext(ctx).
		Delete(&models.ExtensionProperty{}, "scope = ? AND owner = ? AND key = ?", string(scope), owner, key).Error
}
