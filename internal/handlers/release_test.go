package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/internal/storage"
)

func TestCreateRelease_DefaultsStatusToPlanning(t *testing.T) {
	SetupTestDB()

	c, w := testContext("POST", "/api/projects/p-default/releases", map[string]interface{}{
		"version":     "1.0",
		"releaseDate": "2099-01-01",
	}, projectParams("p-default"))

	CreateRelease(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Release models.ReleaseVersion `json:"release"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, models.StatusPlanning, response.Release.Status)
	assert.NotEmpty(t, response.Release.ID)

	stored, _ := storage.LoadReleases(context.Background(), Store, "p-default")
	assert.Len(t, stored, 1)
	assert.Equal(t, models.StatusPlanning, stored[0].Status)
}

func TestCreateRelease_RejectsFreezeAfterRelease(t *testing.T) {
	SetupTestDB()

	c, w := testContext("POST", "/api/projects/p-freeze/releases", map[string]interface{}{
		"version":           "2.0",
		"releaseDate":       "2099-01-01",
		"featureFreezeDate": "2099-06-01",
	}, projectParams("p-freeze"))

	CreateRelease(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors []string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotEmpty(t, response.Errors)

	// Validation failure must not mutate storage
	stored, _ := storage.LoadReleases(context.Background(), Store, "p-freeze")
	assert.Len(t, stored, 0)
}

func TestCreateRelease_AcceptsFreezeOnOrBeforeRelease(t *testing.T) {
	SetupTestDB()

	c, w := testContext("POST", "/api/projects/p-freeze-ok/releases", map[string]interface{}{
		"version":           "2.0",
		"releaseDate":       "2099-06-01",
		"featureFreezeDate": "2099-06-01",
	}, projectParams("p-freeze-ok"))

	CreateRelease(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRelease_RejectsMissingVersionAndDate(t *testing.T) {
	SetupTestDB()

	c, w := testContext("POST", "/api/projects/p-missing/releases", map[string]interface{}{}, projectParams("p-missing"))

	CreateRelease(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors []string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Errors, 2)
}

func TestCreateRelease_RejectsBadStatusAndLinkedIssuesShape(t *testing.T) {
	SetupTestDB()

	c, w := testContext("POST", "/api/projects/p-shape/releases", map[string]interface{}{
		"version":      "1.0",
		"releaseDate":  "2099-01-01",
		"status":       "Shipped",
		"linkedIssues": "ISSUE-1",
	}, projectParams("p-shape"))

	CreateRelease(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors []string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Errors, 2)
}

func TestUpdateRelease_PreservesServerAssignedID(t *testing.T) {
	SetupTestDB()

	c, w := testContext("POST", "/api/projects/p-update/releases", map[string]interface{}{
		"version":     "1.0",
		"releaseDate": "2099-01-01",
	}, projectParams("p-update"))
	CreateRelease(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Release models.ReleaseVersion `json:"release"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	c, w = testContext("PUT", "/api/projects/p-update/releases/"+created.Release.ID, map[string]interface{}{
		"id":          "spoofed-id",
		"version":     "1.1",
		"releaseDate": "2099-02-01",
		"status":      "In progress",
	}, releaseParams("p-update", created.Release.ID))
	UpdateRelease(c)

	assert.Equal(t, http.StatusOK, w.Code)

	stored, _ := storage.LoadReleases(context.Background(), Store, "p-update")
	assert.Len(t, stored, 1)
	assert.Equal(t, created.Release.ID, stored[0].ID)
	assert.Equal(t, "1.1", stored[0].Version)
	assert.Equal(t, models.StatusInProgress, stored[0].Status)
}

func TestUpdateRelease_NotFound(t *testing.T) {
	SetupTestDB()

	c, w := testContext("PUT", "/api/projects/p-up-missing/releases/nope", map[string]interface{}{
		"version":     "1.0",
		"releaseDate": "2099-01-01",
	}, releaseParams("p-up-missing", "nope"))
	UpdateRelease(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRelease_NotFoundLeavesListUnchanged(t *testing.T) {
	SetupTestDB()

	c, w := testContext("POST", "/api/projects/p-delete/releases", map[string]interface{}{
		"version":     "1.0",
		"releaseDate": "2099-01-01",
	}, projectParams("p-delete"))
	CreateRelease(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = testContext("DELETE", "/api/projects/p-delete/releases/unknown", nil, releaseParams("p-delete", "unknown"))
	DeleteRelease(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	stored, _ := storage.LoadReleases(context.Background(), Store, "p-delete")
	assert.Len(t, stored, 1)
}

func TestReleaseLifecycle_CreateGetDelete(t *testing.T) {
	SetupTestDB()

	c, w := testContext("POST", "/api/projects/p-e2e/releases", map[string]interface{}{
		"version":     "1.0",
		"releaseDate": "2099-01-01",
	}, projectParams("p-e2e"))
	CreateRelease(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Release models.ReleaseVersion `json:"release"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)
	assert.NotEmpty(t, created.Release.ID)

	c, w = testContext("GET", "/api/projects/p-e2e/releases/"+created.Release.ID, nil, releaseParams("p-e2e", created.Release.ID))
	GetRelease(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var fetched struct {
		Release models.ReleaseVersion `json:"release"`
	}
	json.Unmarshal(w.Body.Bytes(), &fetched)
	assert.Equal(t, "1.0", fetched.Release.Version)
	assert.Equal(t, "2099-01-01", fetched.Release.ReleaseDate)
	assert.Equal(t, created.Release.ID, fetched.Release.ID)

	c, w = testContext("DELETE", "/api/projects/p-e2e/releases/"+created.Release.ID, nil, releaseParams("p-e2e", created.Release.ID))
	DeleteRelease(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)

	c, w = testContext("GET", "/api/projects/p-e2e/releases/"+created.Release.ID, nil, releaseParams("p-e2e", created.Release.ID))
	GetRelease(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
