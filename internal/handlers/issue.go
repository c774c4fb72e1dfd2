package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Global (cross-project) resolver surface. fieldName may repeat to form the
// ordered candidate list: ?fieldName=State&fieldName=Progress.

// GetIssue handles GET /issues?issueId=
func GetIssue(c *gin.Context) {
	issueID := c.Query("issueId")
	if issueID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issueId is required"})
		return
	}

	issue, err := Tracker.GetIssue(issueID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// GetIssueField handles GET /issue-field?issueId=&fieldName=...
func GetIssueField(c *gin.Context) {
	issueID := c.Query("issueId")
	candidates := c.QueryArray("fieldName")
	if issueID == "" || len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issueId and fieldName are required"})
		return
	}

	name, ok, err := Resolver.ResolveFieldName(c.Request.Context(), issueID, candidates)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to query issue fields"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"name": "", "value": ""})
		return
	}

	value, _, err := Resolver.FieldValue(c.Request.Context(), issueID, candidates)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to query issue fields"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "value": value})
}

// GetIssueFieldExists handles GET /issue-field-exists?issueId=&fieldName=...
func GetIssueFieldExists(c *gin.Context) {
	issueID := c.Query("issueId")
	candidates := c.QueryArray("fieldName")
	if issueID == "" || len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issueId and fieldName are required"})
		return
	}

	name, ok, err := Resolver.ResolveFieldName(c.Request.Context(), issueID, candidates)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to query issue fields"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": ok, "resolvedName": name})
}

// GetIssueFieldBulk handles GET /issue-field-bulk?issueId=&fieldName=...
// The name resolves once against the parent and applies to every subtask.
func GetIssueFieldBulk(c *gin.Context) {
	issueID := c.Query("issueId")
	candidates := c.QueryArray("fieldName")
	if issueID == "" || len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issueId and fieldName are required"})
		return
	}

	bulk, err := Resolver.BulkFieldValues(c.Request.Context(), issueID, candidates)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to query issue fields"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": bulk})
}
