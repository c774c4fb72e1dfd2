package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/config"
	"github.com/ve-ev/release-manager-app/internal/handlers"
	"github.com/ve-ev/release-manager-app/internal/middleware"
)

// RegisterProjectRoutes wires the project-scoped settings surface
func RegisterProjectRoutes(r gin.IRouter) {
	project := r.Group("/projects/:projectId")
	{
		project.GET("/config", handlers.GetConfig)

		project.GET("/app-settings", handlers.GetAppSettings)
		project.GET("/releases", handlers.ListReleases)
		project.GET("/releases/:id", handlers.GetRelease)
		project.GET("/releases/:id/progress", handlers.GetReleaseProgress)
		project.GET("/issue-statuses", handlers.GetIssueStatuses)

		// Writes require release-manager membership and are rate limited per
		// user so one runaway tab cannot starve the shared store
		protected := project.Group("")
		protected.Use(
			middleware.ManagerMiddleware(config.AppConfig.ManagerGroup),
			middleware.MutationRateLimit(120, time.Minute),
		)
		{
			protected.PUT("/app-settings", handlers.UpdateAppSettings)
			protected.POST("/releases", handlers.CreateRelease)
			protected.PUT("/releases/:id", handlers.UpdateRelease)
			protected.DELETE("/releases/:id", handlers.DeleteRelease)
			protected.PUT("/issue-status", handlers.UpdateIssueStatus)
			protected.PUT("/issue-test-status", handlers.UpdateIssueTestStatus)
		}
	}
}
