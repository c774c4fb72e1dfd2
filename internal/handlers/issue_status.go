package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/internal/notify"
	"github.com/ve-ev/release-manager-app/internal/storage"
)

type IssueStatusInput struct {
	IssueID string             `json:"issueId" binding:"required"`
	Status  models.IssueStatus `json:"status" binding:"required"`
}

type TestStatusInput struct {
	IssueID    string            `json:"issueId" binding:"required"`
	TestStatus models.TestStatus `json:"testStatus" binding:"required"`
}

// GetIssueStatuses handles GET /projects/:projectId/issue-statuses
func GetIssueStatuses(c *gin.Context) {
	data, err := storage.LoadStatusData(c.Request.Context(), Store, c.Param("projectId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load issue statuses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"issueStatuses": data.IssueStatuses,
		"testStatuses":  data.TestStatuses,
	})
}

// UpdateIssueStatus handles PUT /projects/:projectId/issue-status. Moving an
// issue out of Fixed/Merged invalidates any QA result, so the test status is
// forced back to "Not tested".
func UpdateIssueStatus(c *gin.Context) {
	projectID := c.Param("projectId")

	var input IssueStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidIssueStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"status must be one of: Unresolved, Fixed, Merged, Discoped"}})
		return
	}

	data, err := storage.LoadStatusData(c.Request.Context(), Store, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load issue statuses"})
		return
	}

	data.IssueStatuses[input.IssueID] = input.Status
	if input.Status != models.IssueFixed && input.Status != models.IssueMerged {
		data.TestStatuses[input.IssueID] = models.TestNotTested
	}

	if err := storage.SaveStatusData(c.Request.Context(), Store, projectID, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save issue statuses"})
		return
	}

	notify.Publish(notify.Event{ProjectID: projectID, Resource: notify.ResourceStatuses})
	c.JSON(http.StatusOK, gin.H{
		"issueStatuses": data.IssueStatuses,
		"testStatuses":  data.TestStatuses,
	})
}

// UpdateIssueTestStatus handles PUT /projects/:projectId/issue-test-status.
// A test status set while the issue is not Fixed/Merged is coerced to
// "Not tested" rather than rejected.
func UpdateIssueTestStatus(c *gin.Context) {
	projectID := c.Param("projectId")

	var input TestStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidTestStatus(input.TestStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"testStatus must be one of: Tested, Not tested, Test NA"}})
		return
	}

	data, err := storage.LoadStatusData(c.Request.Context(), Store, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load issue statuses"})
		return
	}

	status := data.IssueStatuses[input.IssueID]
	if status == models.IssueFixed || status == models.IssueMerged {
		data.TestStatuses[input.IssueID] = input.TestStatus
	} else {
		data.TestStatuses[input.IssueID] = models.TestNotTested
	}

	if err := storage.SaveStatusData(c.Request.Context(), Store, projectID, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save issue statuses"})
		return
	}

	notify.Publish(notify.Event{ProjectID: projectID, Resource: notify.ResourceStatuses})
	c.JSON(http.StatusOK, gin.H{
		"issueStatuses": data.IssueStatuses,
		"testStatuses":  data.TestStatuses,
	})
}
