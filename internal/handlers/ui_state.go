package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/storage"
)

type ExpandedVersionInput struct {
	ExpandedVersion string `json:"expandedVersion"`
}

// GetExpandedVersion handles GET /expanded-version — the per-user echo of
// which release row is expanded in the table.
func GetExpandedVersion(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := storage.LoadExpandedVersion(c.Request.Context(), Store, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load UI state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expandedVersion": id})
}

// UpdateExpandedVersion handles PUT /expanded-version
func UpdateExpandedVersion(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input ExpandedVersionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := storage.SaveExpandedVersion(c.Request.Context(), Store, userID.(string), input.ExpandedVersion); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save UI state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expandedVersion": input.ExpandedVersion})
}
