package handlers

import (
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/ve-ev/release-manager-app/internal/notify"
	"github.com/ve-ev/release-manager-app/pkg/logger"
)

var SocketServer *socketio.Server

// Session tracking: which project room each connection watches
var (
	sessionProjects   = make(map[string]string) // socketId -> projectId
	sessionProjectsMu sync.RWMutex
)

// InitSocketServer wires the realtime hub. Browser sessions join their
// project's room and receive "refresh" events whenever shared state mutates,
// so they can refetch ahead of the next poll tick.
func InitSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		logger.Debug().Str("socket", s.ID()).Msg("Session connected")
		return nil
	})

	server.OnEvent("/", "watch_project", func(s socketio.Conn, projectID string) {
		sessionProjectsMu.Lock()
		if prev, ok := sessionProjects[s.ID()]; ok {
			s.Leave(prev)
		}
		sessionProjects[s.ID()] = projectID
		sessionProjectsMu.Unlock()

		s.Join(projectID)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		sessionProjectsMu.Lock()
		delete(sessionProjects, s.ID())
		sessionProjectsMu.Unlock()
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logger.Warn().Err(e).Msg("Socket error")
	})

	// Fan mutation events out to the affected project's sessions
	notify.OnEvent(func(event notify.Event) {
		server.BroadcastToRoom("/", event.ProjectID, "refresh", map[string]interface{}{
			"resource": event.Resource,
		})
	})

	go func() {
		if err := server.Serve(); err != nil {
			logger.Error().Err(err).Msg("Socket server stopped")
		}
	}()

	SocketServer = server
	return server
}

// SocketHandler adapts the socket.io server to gin
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
