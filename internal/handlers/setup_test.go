package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/ve-ev/release-manager-app/internal/database"
	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/internal/services"
	"github.com/ve-ev/release-manager-app/internal/storage"
	"github.com/ve-ev/release-manager-app/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing and wires the
// handler collaborators against it.
func SetupTestDB() {
	logger.Init("development")
	gin.SetMode(gin.TestMode)

	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	database.DB = db
	database.DB.AutoMigrate(&models.ExtensionProperty{})

	Init(storage.NewGormStore(db), services.NewTrackerClient())
}

// testContext builds a gin context with a recorder, an optional JSON body and
// route params.
func testContext(method, path string, body interface{}, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request, _ = http.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params

	return c, w
}

func projectParams(projectID string) gin.Params {
	return gin.Params{{Key: "projectId", Value: projectID}}
}

func releaseParams(projectID, releaseID string) gin.Params {
	return gin.Params{
		{Key: "projectId", Value: projectID},
		{Key: "id", Value: releaseID},
	}
}
