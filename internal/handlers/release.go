package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/internal/notify"
	"github.com/ve-ev/release-manager-app/internal/storage"
	"github.com/ve-ev/release-manager-app/pkg/utils"
)

// -- Inputs --

// ReleaseInput is the payload for create and full-replace update. LinkedIssues
// stays raw so a non-array shape can be rejected instead of silently dropped.
type ReleaseInput struct {
	ID                string                `json:"id"`
	Version           string                `json:"version"`
	Product           string                `json:"product"`
	Description       string                `json:"description"`
	AdditionalInfo    string                `json:"additionalInfo"`
	FeatureFreezeDate string                `json:"featureFreezeDate"`
	ReleaseDate       string                `json:"releaseDate"`
	Status            models.ReleaseStatus  `json:"status"`
	FreezeConfirmed   bool                  `json:"freezeConfirmed"`
	PlannedIssues     []models.PlannedIssue `json:"plannedIssues"`
	LinkedIssues      json.RawMessage       `json:"linkedIssues"`
}

const dateLayout = "2006-01-02"

// validateRelease returns human-readable problems; an empty slice means the
// input may be persisted.
func validateRelease(input *ReleaseInput) []string {
	var errs []string

	if input.Version == "" {
		errs = append(errs, "version is required")
	}
	if input.ReleaseDate == "" {
		errs = append(errs, "releaseDate is required")
	}

	releaseDate, releaseErr := time.Parse(dateLayout, input.ReleaseDate)
	if input.ReleaseDate != "" && releaseErr != nil {
		errs = append(errs, "releaseDate must be an ISO date (YYYY-MM-DD)")
	}
	if input.FeatureFreezeDate != "" {
		freezeDate, err := time.Parse(dateLayout, input.FeatureFreezeDate)
		if err != nil {
			errs = append(errs, "featureFreezeDate must be an ISO date (YYYY-MM-DD)")
		} else if releaseErr == nil && input.ReleaseDate != "" && freezeDate.After(releaseDate) {
			errs = append(errs, "featureFreezeDate must not be after releaseDate")
		}
	}

	if input.Status != "" && !models.ValidReleaseStatus(input.Status) {
		errs = append(errs, "status must be one of: Planning, In progress, Released, Overdue, Canceled")
	}

	if len(input.LinkedIssues) > 0 {
		var linked []string
		if err := json.Unmarshal(input.LinkedIssues, &linked); err != nil {
			errs = append(errs, "linkedIssues must be an array")
		}
	}

	return errs
}

func (input *ReleaseInput) toModel() models.ReleaseVersion {
	release := models.ReleaseVersion{
		Version:           input.Version,
		Product:           input.Product,
		Description:       input.Description,
		AdditionalInfo:    input.AdditionalInfo,
		FeatureFreezeDate: input.FeatureFreezeDate,
		ReleaseDate:       input.ReleaseDate,
		Status:            input.Status,
		FreezeConfirmed:   input.FreezeConfirmed,
		PlannedIssues:     input.PlannedIssues,
	}
	if release.Status == "" {
		release.Status = models.StatusPlanning
	}
	if len(input.LinkedIssues) > 0 {
		var linked []string
		if err := json.Unmarshal(input.LinkedIssues, &linked); err == nil {
			release.LinkedIssues = linked
		}
	}
	return release
}

// -- Handlers --

// ListReleases handles GET /projects/:projectId/releases
func ListReleases(c *gin.Context) {
	releases, err := storage.LoadReleases(c.Request.Context(), Store, c.Param("projectId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load releases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"releases": releases})
}

// GetRelease handles GET /projects/:projectId/releases/:id
func GetRelease(c *gin.Context) {
	releases, err := storage.LoadReleases(c.Request.Context(), Store, c.Param("projectId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load releases"})
		return
	}
	id := c.Param("id")
	for _, release := range releases {
		if release.ID == id {
			c.JSON(http.StatusOK, gin.H{"release": release})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Release version not found"})
}

// CreateRelease handles POST /projects/:projectId/releases
func CreateRelease(c *gin.Context) {
	projectID := c.Param("projectId")

	var input ReleaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := validateRelease(&input); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	releases, err := storage.LoadReleases(c.Request.Context(), Store, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load releases"})
		return
	}

	release := input.toModel()
	release.ID = utils.GenerateReleaseID()
	releases = append(releases, release)

	if err := storage.SaveReleases(c.Request.Context(), Store, projectID, releases); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save release"})
		return
	}

	notify.Publish(notify.Event{ProjectID: projectID, Resource: notify.ResourceReleases})
	c.JSON(http.StatusCreated, gin.H{"release": release})
}

// UpdateRelease handles PUT /projects/:projectId/releases/:id — a full replace
// of the stored record; the server-assigned id survives whatever the client sends.
func UpdateRelease(c *gin.Context) {
	projectID := c.Param("projectId")
	id := c.Param("id")

	var input ReleaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := validateRelease(&input); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	releases, err := storage.LoadReleases(c.Request.Context(), Store, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load releases"})
		return
	}

	for i := range releases {
		if releases[i].ID != id {
			continue
		}
		release := input.toModel()
		release.ID = id
		releases[i] = release

		if err := storage.SaveReleases(c.Request.Context(), Store, projectID, releases); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save release"})
			return
		}

		notify.Publish(notify.Event{ProjectID: projectID, Resource: notify.ResourceReleases})
		c.JSON(http.StatusOK, gin.H{"release": release})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Release version not found"})
}

// DeleteRelease handles DELETE /projects/:projectId/releases/:id
func DeleteRelease(c *gin.Context) {
	projectID := c.Param("projectId")
	id := c.Param("id")

	releases, err := storage.LoadReleases(c.Request.Context(), Store, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load releases"})
		return
	}

	for i := range releases {
		if releases[i].ID != id {
			continue
		}
		releases = append(releases[:i], releases[i+1:]...)

		if err := storage.SaveReleases(c.Request.Context(), Store, projectID, releases); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save releases"})
			return
		}

		notify.Publish(notify.Event{ProjectID: projectID, Resource: notify.ResourceReleases})
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Release version not found"})
}
