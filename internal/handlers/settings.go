package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/internal/notify"
	"github.com/ve-ev/release-manager-app/internal/storage"
)

// GetAppSettings handles GET /projects/:projectId/app-settings
func GetAppSettings(c *gin.Context) {
	settings, found, err := storage.LoadSettings(c.Request.Context(), Store, c.Param("projectId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	if !found {
		settings = &models.AppSettings{CustomFieldNames: []string{}}
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateAppSettings handles PUT /projects/:projectId/app-settings. The whole
// settings blob is replaced; a write without field-name candidates is rejected
// wholesale and the prior settings stay in place.
func UpdateAppSettings(c *gin.Context) {
	projectID := c.Param("projectId")

	var input models.AppSettings
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.CustomFieldNames) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"customFieldNames must be a non-empty array"}})
		return
	}

	if err := storage.SaveSettings(c.Request.Context(), Store, projectID, &input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	notify.Publish(notify.Event{ProjectID: projectID, Resource: notify.ResourceAppSettings})
	c.JSON(http.StatusOK, gin.H{"settings": input})
}
