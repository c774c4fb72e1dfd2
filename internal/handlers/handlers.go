package handlers

import (
	"github.com/ve-ev/release-manager-app/internal/services"
	"github.com/ve-ev/release-manager-app/internal/storage"
)

// Package-level collaborators, wired in main and swapped by tests
var (
	Store    storage.PropertyStore
	Fields   services.FieldValueSource
	Tracker  *services.TrackerClient
	Resolver *services.Resolver
)

// Init wires the handler package's collaborators
func Init(store storage.PropertyStore, tracker *services.TrackerClient) {
	Store = store
	Tracker = tracker
	Resolver = services.NewResolver(tracker)
	Fields = Resolver
}
