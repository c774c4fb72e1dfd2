package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/internal/storage"
)

func putIssueStatus(t *testing.T, projectID, issueID string, status models.IssueStatus) *models.IssueStatusData {
	t.Helper()
	c, w := testContext("PUT", "/api/projects/"+projectID+"/issue-status", map[string]interface{}{
		"issueId": issueID,
		"status":  status,
	}, projectParams(projectID))
	UpdateIssueStatus(c)
	assert.Equal(t, http.StatusOK, w.Code)

	data, _ := storage.LoadStatusData(context.Background(), Store, projectID)
	return data
}

func putTestStatus(t *testing.T, projectID, issueID string, testStatus models.TestStatus) *models.IssueStatusData {
	t.Helper()
	c, w := testContext("PUT", "/api/projects/"+projectID+"/issue-test-status", map[string]interface{}{
		"issueId":    issueID,
		"testStatus": testStatus,
	}, projectParams(projectID))
	UpdateIssueTestStatus(c)
	assert.Equal(t, http.StatusOK, w.Code)

	data, _ := storage.LoadStatusData(context.Background(), Store, projectID)
	return data
}

func TestUpdateIssueStatus_LeavingFixedResetsTestStatus(t *testing.T) {
	SetupTestDB()

	putIssueStatus(t, "p-status", "ISSUE-1", models.IssueFixed)
	data := putTestStatus(t, "p-status", "ISSUE-1", models.TestTested)
	assert.Equal(t, models.TestTested, data.TestStatuses["ISSUE-1"])

	// Moving away from Fixed/Merged invalidates the QA result
	data = putIssueStatus(t, "p-status", "ISSUE-1", models.IssueUnresolved)
	assert.Equal(t, models.IssueUnresolved, data.IssueStatuses["ISSUE-1"])
	assert.Equal(t, models.TestNotTested, data.TestStatuses["ISSUE-1"])
}

func TestUpdateIssueTestStatus_CoercedWhileNotFixed(t *testing.T) {
	SetupTestDB()

	putIssueStatus(t, "p-coerce", "ISSUE-2", models.IssueUnresolved)
	data := putTestStatus(t, "p-coerce", "ISSUE-2", models.TestTested)

	// Silently coerced rather than rejected
	assert.Equal(t, models.TestNotTested, data.TestStatuses["ISSUE-2"])
}

func TestUpdateIssueStatus_RejectsUnknownStatus(t *testing.T) {
	SetupTestDB()

	c, w := testContext("PUT", "/api/projects/p-bad/issue-status", map[string]interface{}{
		"issueId": "ISSUE-3",
		"status":  "Done",
	}, projectParams("p-bad"))
	UpdateIssueStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	data, _ := storage.LoadStatusData(context.Background(), Store, "p-bad")
	assert.Empty(t, data.IssueStatuses)
}

func TestGetIssueStatuses_EmptyProject(t *testing.T) {
	SetupTestDB()

	c, w := testContext("GET", "/api/projects/p-empty/issue-statuses", nil, projectParams("p-empty"))
	GetIssueStatuses(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"issueStatuses":{},"testStatuses":{}}`, w.Body.String())
}
