package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/handlers"
	"github.com/ve-ev/release-manager-app/internal/middleware"
)

// RegisterIssueRoutes wires the global issue/field resolver surface. These fan
// out to the host platform's API, so they carry their own rate limit.
func RegisterIssueRoutes(r gin.IRouter) {
	issues := r.Group("")
	issues.Use(middleware.ResolverRateLimit())
	{
		issues.GET("/issue", handlers.GetIssue)
		issues.GET("/issue-field", handlers.GetIssueField)
		issues.GET("/issue-field-exists", handlers.GetIssueFieldExists)
		issues.GET("/issue-field-bulk", handlers.GetIssueFieldBulk)
	}
}
