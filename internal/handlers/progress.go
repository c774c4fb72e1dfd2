package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/internal/services"
	"github.com/ve-ev/release-manager-app/internal/storage"
)

// GetReleaseProgress handles GET /projects/:projectId/releases/:id/progress.
// It rolls the release's planned issues up into one zone tally using the
// project's zone configuration and manual status overrides.
func GetReleaseProgress(c *gin.Context) {
	ctx := c.Request.Context()
	projectID := c.Param("projectId")

	releases, err := storage.LoadReleases(ctx, Store, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load releases"})
		return
	}

	id := c.Param("id")
	var planned []models.PlannedIssue
	found := false
	for i := range releases {
		if releases[i].ID == id {
			planned = releases[i].PlannedIssues
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Release version not found"})
		return
	}

	settings, _, err := storage.LoadSettings(ctx, Store, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	statuses, err := storage.LoadStatusData(ctx, Store, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load issue statuses"})
		return
	}

	aggregator := services.NewAggregator(Fields, settings, statuses)
	tally := aggregator.ReleaseProgress(ctx, planned)

	c.JSON(http.StatusOK, gin.H{"progress": tally})
}
