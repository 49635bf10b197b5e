package handlers

import (
	"log"
	"net/http"

	"go-media-library/internal/models"

	"github.com/gin-gonic/gin"
)

// BatchItem identifies one media item in a batch request.
type BatchItem struct {
	Kind models.MediaKind `json:"kind" binding:"required"`
	ID   string           `json:"id" binding:"required"`
}

// HandleBatchOperation applies one operation to a set of media items of
// mixed kinds, reporting per-item success. Supported operations: "move"
// (re-home into folder_id), "tag"/"untag" (apply or remove the given
// tags) and "delete".
func (h *Handler) HandleBatchOperation(c *gin.Context) {
	var input struct {
		Operation string      `json:"operation" binding:"required"`
		Items     []BatchItem `json:"items" binding:"required,min=1"`
		FolderID  *uint       `json:"folder_id"`
		Tags      []string    `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An operation and a non-empty items list are required"})
		return
	}

	switch input.Operation {
	case "move":
		if input.FolderID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Folder ID required for move operation"})
			return
		}
		// Reject an unknown folder up front rather than once per item.
		if _, err := h.folders.Get(*input.FolderID); err != nil {
			fail(c, err)
			return
		}
	case "tag", "untag":
		if len(input.Tags) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tags required for tag operations"})
			return
		}
	case "delete":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operation"})
		return
	}

	results := make([]gin.H, 0, len(input.Items))
	successCount := 0
	for _, item := range input.Items {
		if err := h.batchApply(input.Operation, item, input.FolderID, input.Tags); err != nil {
			results = append(results, gin.H{
				"kind":    item.Kind,
				"id":      item.ID,
				"success": false,
				"error":   err.Error(),
			})
			continue
		}
		successCount++
		results = append(results, gin.H{"kind": item.Kind, "id": item.ID, "success": true})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Batch operation completed",
		"operation":     input.Operation,
		"total":         len(input.Items),
		"success_count": successCount,
		"results":       results,
	})
}

func (h *Handler) batchApply(operation string, item BatchItem, folderID *uint, tags []string) error {
	switch operation {
	case "move":
		return h.media.MoveToFolder(item.Kind, item.ID, folderID)
	case "tag":
		if _, err := h.mediaPath(item.Kind, item.ID); err != nil {
			return err
		}
		return h.taxonomy.TagItem(item.Kind, item.ID, tags...)
	case "untag":
		if _, err := h.mediaPath(item.Kind, item.ID); err != nil {
			return err
		}
		for _, tag := range tags {
			if err := h.taxonomy.UntagItem(item.Kind, item.ID, tag); err != nil {
				return err
			}
		}
		return nil
	default: // delete
		path, _ := h.mediaPath(item.Kind, item.ID)
		if err := h.media.DeleteItem(item.Kind, item.ID); err != nil {
			return err
		}
		if path != "" {
			if err := h.store.Delete(path); err != nil {
				log.Printf("Failed to delete stored file %s: %v", path, err)
			}
		}
		return nil
	}
}
