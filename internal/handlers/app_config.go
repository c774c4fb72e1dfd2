package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/config"
	"github.com/ve-ev/release-manager-app/internal/storage"
)

// GetConfig handles GET /projects/:projectId/config — the feature flags and
// custom-field mapping a session needs before rendering anything.
func GetConfig(c *gin.Context) {
	customFieldNames := []string{}
	if settings, found, err := storage.LoadSettings(c.Request.Context(), Store, c.Param("projectId")); err == nil && found {
		customFieldNames = settings.CustomFieldNames
	}

	c.JSON(http.StatusOK, gin.H{
		"manualIssueManagement": config.AppConfig.ManualIssueManagement,
		"metaIssuesEnabled":     config.AppConfig.MetaIssuesEnabled,
		"customFieldNames":      customFieldNames,
	})
}

// GetPermissions handles GET /permissions, derived from the token's group
// membership against the configured manager groups.
func GetPermissions(c *gin.Context) {
	isManager := false
	isLightManager := false

	if groups, exists := c.Get("groups"); exists {
		for _, g := range groups.([]string) {
			if g == config.AppConfig.ManagerGroup {
				isManager = true
			}
			if g == config.AppConfig.LightManagerGroup {
				isLightManager = true
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"isManager":      isManager,
		"isLightManager": isLightManager,
	})
}
