package handlers

import (
	"net/http"
	"strconv"

	"go-media-library/internal/library"
	"go-media-library/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateFolder handles folder creation.
func (h *Handler) CreateFolder(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required,min=1,max=255"`
		Slug        string `json:"slug" binding:"required,min=1,max=255"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
		SortOrder   int    `json:"sort_order"`
		ParentID    *uint  `json:"parent_id,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: folder name and slug are required"})
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uint)
	folder, err := h.folders.Create(library.CreateFolderInput{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
		SortOrder:   input.SortOrder,
		ParentID:    input.ParentID,
		CreatedByID: &uid,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, folder)
}

// ListFolders lists root folders, or the children of ?parent_id=, with
// media counts filled in.
func (h *Handler) ListFolders(c *gin.Context) {
	var folders []models.Folder
	var err error

	parentParam := c.Query("parent_id")
	if parentParam == "" || parentParam == "root" {
		folders, err = h.folders.Roots()
	} else {
		parentID, convErr := strconv.ParseUint(parentParam, 10, 32)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent folder ID must be a positive number"})
			return
		}
		folders, err = h.folders.Children(uint(parentID))
	}
	if err != nil {
		fail(c, err)
		return
	}

	folders, err = h.folders.WithCounts(folders)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// GetFolder returns one folder with its children, breadcrumbs and media
// count, for rendering navigation.
func (h *Handler) GetFolder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder ID must be a positive number"})
		return
	}

	folder, err := h.folders.Get(uint(id))
	if err != nil {
		fail(c, err)
		return
	}

	count, err := h.folders.MediaCount(folder.ID)
	if err != nil {
		fail(c, err)
		return
	}
	folder.MediaCount = count

	children, err := h.folders.Children(folder.ID)
	if err != nil {
		fail(c, err)
		return
	}
	breadcrumbs, err := h.folders.Breadcrumbs(folder.ID)
	if err != nil {
		fail(c, err)
		return
	}

	canDelete, err := h.folders.CanDelete(folder.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"folder":      folder,
		"children":    children,
		"breadcrumbs": breadcrumbs,
		"can_delete":  canDelete,
	})
}

// UpdateFolder renames, restyles or re-parents a folder. Re-parenting
// rejects moves that would create a cycle.
func (h *Handler) UpdateFolder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder ID must be a positive number"})
		return
	}

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
		SortOrder   *int   `json:"sort_order"`
		ParentID    *uint  `json:"parent_id"`
		MoveToRoot  bool   `json:"move_to_root"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.folders.Update(uint(id), input.Name, input.Description, input.Icon, input.Color, input.SortOrder)
	if err != nil {
		fail(c, err)
		return
	}

	if input.ParentID != nil || input.MoveToRoot {
		folder, err = h.folders.Move(uint(id), input.ParentID)
		if err != nil {
			fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, folder)
}

// DeleteFolder removes a folder when the deletion-safety check allows it.
func (h *Handler) DeleteFolder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder ID must be a positive number"})
		return
	}

	if err := h.folders.Delete(uint(id)); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Folder deleted successfully"})
}
