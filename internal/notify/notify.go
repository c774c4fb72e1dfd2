package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ve-ev/release-manager-app/internal/database"
	"github.com/ve-ev/release-manager-app/pkg/logger"
)

// Channel carries refresh events between server instances
const Channel = "release-manager:refresh"

// Resources a session may need to re-fetch
const (
	ResourceReleases    = "releases"
	ResourceStatuses    = "issueStatuses"
	ResourceAppSettings = "appSettings"
)

// Event tells connected sessions that a shared resource changed and the next
// poll (or an immediate refetch) should pick it up.
type Event struct {
	ProjectID string `json:"projectId"`
	Resource  string `json:"resource"`
}

type Handler func(Event)

var (
	handlersMu sync.RWMutex
	handlers   []Handler
)

// OnEvent registers a callback invoked for every event, local or remote
func OnEvent(h Handler) {
	handlersMu.Lock()
	handlers = append(handlers, h)
	handlersMu.Unlock()
}

func dispatch(event Event) {
	handlersMu.RLock()
	defer handlersMu.RUnlock()
	for _, h := range handlers {
		h(event)
	}
}

// Publish fans an event out to every server instance via redis and to the
// local subscribers directly. Without redis it degrades to single-instance
// notification; polling still reconciles eventually.
func Publish(event Event) {
	dispatch(event)

	if database.Redis == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := database.Redis.Publish(database.Ctx, Channel, payload).Err(); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish refresh event")
	}
}

// Listen consumes remote events until ctx is cancelled. Events published by
// this instance are dispatched locally in Publish, so remote dispatch is only
// for messages from other instances; redis does not echo suppression for us,
// and double refresh signals are harmless (refresh is idempotent).
func Listen(ctx context.Context) {
	if database.Redis == nil {
		return
	}
	pubsub := database.Redis.Subscribe(ctx, Channel)
	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logger.Warn().Err(err).Msg("Malformed refresh event")
					continue
				}
				dispatch(event)
			}
		}
	}()
}
