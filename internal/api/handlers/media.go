package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"go-media-library/internal/library"
	"go-media-library/internal/models"
	"go-media-library/internal/processing"

	"github.com/gin-gonic/gin"
)

// listOptions reads the shared listing query parameters.
func listOptions(c *gin.Context) library.ListOptions {
	opts := library.ListOptions{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		OrderBy:      c.Query("order_by"),
	}
	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if folderParam := c.Query("folder_id"); folderParam != "" {
		if id, err := strconv.ParseUint(folderParam, 10, 32); err == nil {
			folderID := uint(id)
			opts.FolderID = &folderID
		}
	}
	return opts
}

// ListImages pages images with category, folder and search filters.
func (h *Handler) ListImages(c *gin.Context) {
	opts := listOptions(c)
	images, total, err := h.media.ListImages(opts)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"images":     images,
		"pagination": pagination(opts.Page, opts.Limit, total),
	})
}

// GetImage returns one image with its categories, renditions and tags.
func (h *Handler) GetImage(c *gin.Context) {
	image, err := h.media.GetImage(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	tags, err := h.taxonomy.ItemTags(models.KindImage, image.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": image, "tags": tags, "url": h.store.GetPublicURL(image.Path)})
}

// ListDocuments pages documents with category, folder and search filters.
func (h *Handler) ListDocuments(c *gin.Context) {
	opts := listOptions(c)
	docs, total, err := h.media.ListDocuments(opts)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents":  docs,
		"pagination": pagination(opts.Page, opts.Limit, total),
	})
}

// GetDocument returns one document with its categories and tags.
func (h *Handler) GetDocument(c *gin.Context) {
	doc, err := h.media.GetDocument(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	tags, err := h.taxonomy.ItemTags(models.KindDocument, doc.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": doc, "tags": tags, "url": h.store.GetPublicURL(doc.Path)})
}

// DownloadDocument returns an expiring link to the stored file.
func (h *Handler) DownloadDocument(c *gin.Context) {
	doc, err := h.media.GetDocument(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if doc.Path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document has no stored file"})
		return
	}

	url, err := h.store.GetPresignedURL(doc.Path, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in": "15m"})
}

// GetVideo returns one video with its categories and tags.
func (h *Handler) GetVideo(c *gin.Context) {
	video, err := h.media.GetVideo(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	tags, err := h.taxonomy.ItemTags(models.KindVideo, video.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"video": video, "tags": tags})
}

// GetAudio returns one audio file with its categories and tags.
func (h *Handler) GetAudio(c *gin.Context) {
	audio, err := h.media.GetAudio(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	tags, err := h.taxonomy.ItemTags(models.KindAudio, audio.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audio": audio, "tags": tags})
}

// DeleteMedia removes a media item of the kind given in the route and its
// stored file.
func (h *Handler) DeleteMedia(kind models.MediaKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		// Capture the stored path before the row disappears.
		path, _ := h.mediaPath(kind, id)

		if err := h.media.DeleteItem(kind, id); err != nil {
			fail(c, err)
			return
		}

		if path != "" {
			if err := h.store.Delete(path); err != nil {
				// Row is gone; an orphaned blob is logged, not fatal.
				log.Printf("Failed to delete stored file %s: %v", path, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s deleted successfully", kind)})
	}
}

// TransformImage serves a transformed version of an image, caching each
// distinct filter spec as a rendition so repeat requests skip the resize.
func (h *Handler) TransformImage(c *gin.Context) {
	image, err := h.media.GetImage(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	options := processing.TransformOptions{
		Fit:    c.Query("fit"),
		Crop:   c.Query("crop"),
		Format: c.Query("format"),
	}
	options.Width, _ = strconv.Atoi(c.Query("width"))
	options.Height, _ = strconv.Atoi(c.Query("height"))
	options.Quality, _ = strconv.Atoi(c.Query("quality"))
	if preset := c.Query("preset"); preset != "" {
		if err := processing.ApplyPreset(&options, preset); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := options.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contentType := options.ContentType(image.MimeType)

	if options.IsEmpty() {
		h.serveStored(c, image.Path, contentType)
		return
	}

	// Cache hit: an existing rendition row points at the stored derivative.
	filter := options.CacheKey()
	var rendition models.ImageRendition
	if err := h.db.Where("image_id = ? AND filter = ?", image.ID, filter).
		First(&rendition).Error; err == nil {
		h.serveStored(c, rendition.Path, contentType)
		return
	}

	reader, err := h.store.Download(image.Path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read stored image"})
		return
	}
	defer reader.Close()

	transformed, err := processing.TransformImage(reader, options)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	width, height, _ := processing.ImageDimensions(bytes.NewReader(transformed))
	storedPath, err := h.store.UploadBytes(transformed, filter+"_"+image.Filename)
	if err == nil {
		h.db.Create(&models.ImageRendition{
			ImageID: image.ID,
			Filter:  filter,
			Path:    storedPath,
			Width:   width,
			Height:  height,
		})
	}

	c.Data(http.StatusOK, contentType, transformed)
}

func (h *Handler) serveStored(c *gin.Context, path, contentType string) {
	reader, err := h.store.Download(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stored file not found"})
		return
	}
	defer reader.Close()
	c.DataFromReader(http.StatusOK, -1, contentType, reader, nil)
}
