package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"go-media-library/internal/library"
	"go-media-library/internal/models"

	"github.com/gin-gonic/gin"
)

const exportPageLimit = 1000

// ExportImages streams the image inventory as CSV or JSON (?format=).
func (h *Handler) ExportImages(c *gin.Context) {
	images, _, err := h.media.ListImages(library.ListOptions{Limit: exportPageLimit})
	if err != nil {
		fail(c, err)
		return
	}

	if c.DefaultQuery("format", "csv") == "json" {
		c.JSON(http.StatusOK, gin.H{"images": images})
		return
	}

	rows := make([][]string, 0, len(images))
	for _, image := range images {
		rows = append(rows, []string{
			image.ID,
			image.Title,
			image.Filename,
			strconv.Itoa(image.Width),
			strconv.Itoa(image.Height),
			strconv.FormatInt(image.Size, 10),
			folderRef(image.FolderID),
			categoryNames(image.Categories),
			image.CreatedAt.Format(time.RFC3339),
		})
	}
	writeCSV(c, "images.csv",
		[]string{"id", "title", "filename", "width", "height", "size", "folder_id", "categories", "created_at"},
		rows)
}

// ExportDocuments streams the document inventory as CSV or JSON, including
// expiry dates so editors can audit upcoming cleanups.
func (h *Handler) ExportDocuments(c *gin.Context) {
	docs, _, err := h.media.ListDocuments(library.ListOptions{Limit: exportPageLimit})
	if err != nil {
		fail(c, err)
		return
	}

	if c.DefaultQuery("format", "csv") == "json" {
		c.JSON(http.StatusOK, gin.H{"documents": docs})
		return
	}

	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		expiry := ""
		if doc.ExpiryDate != nil {
			expiry = doc.ExpiryDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			doc.ID,
			doc.Title,
			doc.Filename,
			doc.Department,
			doc.Version,
			expiry,
			strconv.Itoa(doc.PageCount),
			folderRef(doc.FolderID),
			categoryNames(doc.Categories),
			doc.CreatedAt.Format(time.RFC3339),
		})
	}
	writeCSV(c, "documents.csv",
		[]string{"id", "title", "filename", "department", "version", "expiry_date", "page_count", "folder_id", "categories", "created_at"},
		rows)
}

// CleanupExpiredDocuments sweeps documents past their expiry date. With
// ?dry_run=true it only reports the candidates.
func (h *Handler) CleanupExpiredDocuments(c *gin.Context) {
	dryRun := c.Query("dry_run") == "true"
	docs, err := h.media.CleanupExpiredDocuments(time.Now(), dryRun)
	if err != nil {
		fail(c, err)
		return
	}

	if !dryRun {
		for _, doc := range docs {
			if doc.Path == "" {
				continue
			}
			if err := h.store.Delete(doc.Path); err != nil {
				log.Printf("failed to delete stored file %s: %v", doc.Path, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"dry_run":   dryRun,
		"count":     len(docs),
		"documents": docs,
	})
}

func writeCSV(c *gin.Context, filename string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	w.Write(header)
	for _, row := range rows {
		w.Write(row)
	}
	w.Flush()
}

func folderRef(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func categoryNames(categories []models.Category) string {
	names := ""
	for i, cat := range categories {
		if i > 0 {
			names += "; "
		}
		names += cat.Name
	}
	return names
}
