package models

import "time"

// ExtensionProperty is one JSON blob in the platform-style extension-property
// store: a dumb string value under (scope, owner, key). Owner is a project id
// for project scope and a user id for user scope.
type ExtensionProperty struct {
	Scope     string    `gorm:"primaryKey;type:text" json:"scope"`
	Owner     string    `gorm:"primaryKey;type:text" json:"owner"`
	Key       string    `gorm:"primaryKey;type:text" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}
