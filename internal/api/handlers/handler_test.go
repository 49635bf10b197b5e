package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-media-library/database/migrations"
	"go-media-library/internal/config"
	"go-media-library/internal/library"
	"go-media-library/internal/models"
	"go-media-library/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestHandler(t *testing.T) (*Handler, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(db))

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = "1h"
	cfg.Storage.MaxUploadSize = 10 << 20
	cfg.Autotag.MaxTags = 5

	h := New(cfg, db, store)
	router := gin.New()
	// Handlers read the authenticated user id from context; stub it in
	// place of the JWT middleware.
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Next()
	})
	return h, router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFolderEndpoints(t *testing.T) {
	h, router := newTestHandler(t)
	router.POST("/folders", h.CreateFolder)
	router.GET("/folders", h.ListFolders)
	router.GET("/folders/:id", h.GetFolder)
	router.DELETE("/folders/:id", h.DeleteFolder)

	w := doJSON(t, router, http.MethodPost, "/folders", gin.H{"name": "Campaigns", "slug": "campaigns"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Duplicate slug at the same level maps to 409.
	w = doJSON(t, router, http.MethodPost, "/folders", gin.H{"name": "Campaigns Two", "slug": "campaigns"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Listing roots includes the new folder with a media count.
	w = doJSON(t, router, http.MethodGet, "/folders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Folders []struct {
			Name       string `json:"name"`
			MediaCount int64  `json:"media_count"`
		} `json:"folders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Folders, 1)
	assert.Equal(t, "Campaigns", listing.Folders[0].Name)
	assert.Equal(t, int64(0), listing.Folders[0].MediaCount)

	// Detail view carries breadcrumbs and the deletion-safety verdict.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/folders/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Breadcrumbs []struct {
			Name string `json:"name"`
		} `json:"breadcrumbs"`
		CanDelete bool `json:"can_delete"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Len(t, detail.Breadcrumbs, 1)
	assert.True(t, detail.CanDelete)

	// Unknown ids map to 404, bad ids to 400.
	w = doJSON(t, router, http.MethodGet, "/folders/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodGet, "/folders/banana", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/folders/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSystemFolderDeleteMapsToBadRequest(t *testing.T) {
	h, router := newTestHandler(t)
	router.POST("/folders", h.CreateFolder)
	router.DELETE("/folders/:id", h.DeleteFolder)

	folder, err := h.folders.Create(library.CreateFolderInput{Name: "Logos", Slug: "logos", IsSystem: true})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/folders/%d", folder.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaxonomyEndpoints(t *testing.T) {
	h, router := newTestHandler(t)
	router.POST("/taxonomy/categories", h.CreateCategory)
	router.GET("/taxonomy/categories", h.ListCategories)
	router.POST("/taxonomy/suggest-category", h.SuggestCategory)
	router.GET("/taxonomy/tags/popular", h.PopularTags)

	w := doJSON(t, router, http.MethodPost, "/taxonomy/categories", gin.H{"name": "Photos", "slug": "photos"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Creating the same slug again returns the existing row with 200.
	w = doJSON(t, router, http.MethodPost, "/taxonomy/categories", gin.H{"name": "Photos Again", "slug": "photos"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/taxonomy/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories struct {
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	require.Len(t, categories.Categories, 1)
	assert.Equal(t, "Photos", categories.Categories[0].Name)

	w = doJSON(t, router, http.MethodPost, "/taxonomy/suggest-category", gin.H{"tags": []string{"photo", "picture"}})
	require.Equal(t, http.StatusOK, w.Code)
	var suggestion struct {
		Category string `json:"category"`
		Matched  bool   `json:"matched"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestion))
	assert.True(t, suggestion.Matched)
	assert.Equal(t, "Photos", suggestion.Category)

	w = doJSON(t, router, http.MethodGet, "/taxonomy/tags/popular?limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSuggestTagsEndpoint(t *testing.T) {
	h, router := newTestHandler(t)
	router.GET("/media/:kind/:id/suggest-tags", h.SuggestTags)

	// Unknown items map to 404, unknown kinds to 400.
	w := doJSON(t, router, http.MethodGet, "/media/image/missing/suggest-tags", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodGet, "/media/sculpture/anything/suggest-tags", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A remote-only video has no stored file to analyze.
	video := models.Video{
		MediaFields:    models.MediaFields{Title: "Remote"},
		RemoteProvider: "youtube",
		RemoteID:       "abc123",
	}
	require.NoError(t, h.media.CreateVideo(&video, nil, nil))
	w = doJSON(t, router, http.MethodGet, "/media/video/"+video.ID+"/suggest-tags", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A stored image gets rule-based suggestions from its pixels.
	path, err := h.store.UploadBytes(pngBytes(t, 300, 200), "campaign.png")
	require.NoError(t, err)
	image := models.Image{MediaFields: models.MediaFields{Title: "Campaign", Path: path}}
	require.NoError(t, h.media.CreateImage(&image, nil, nil))

	w = doJSON(t, router, http.MethodGet, "/media/image/"+image.ID+"/suggest-tags", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var suggestions struct {
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestions))
	assert.Contains(t, suggestions.Tags, "landscape")
	assert.Contains(t, suggestions.Tags, "graphic")
}
