package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/handlers"
)

// RegisterUserRoutes wires the per-user surface: permissions and UI state
func RegisterUserRoutes(r gin.IRouter) {
	r.GET("/permissions", handlers.GetPermissions)
	r.GET("/expanded-version", handlers.GetExpandedVersion)
	r.PUT("/expanded-version", handlers.UpdateExpandedVersion)
}
