package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"go-media-library/internal/library"
	"go-media-library/internal/models"

	"github.com/gin-gonic/gin"
)

// ListCategories lists categories, optionally narrowed to one media kind
// via ?kind=.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.taxonomy.ListCategories(models.MediaKind(c.Query("kind")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory adds a category to the vocabulary, returning the existing
// row when the slug is already taken.
func (h *Handler) CreateCategory(c *gin.Context) {
	var input struct {
		Name         string `json:"name" binding:"required"`
		Slug         string `json:"slug" binding:"required"`
		Description  string `json:"description"`
		CategoryType string `json:"category_type"`
		ApplicableTo string `json:"applicable_to"`
		Icon         string `json:"icon"`
		Color        string `json:"color"`
		SortOrder    int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name and slug are required"})
		return
	}

	category, created, err := h.taxonomy.GetOrCreateCategory(input.Slug, models.Category{
		Name:         input.Name,
		Description:  input.Description,
		CategoryType: input.CategoryType,
		ApplicableTo: input.ApplicableTo,
		Icon:         input.Icon,
		Color:        input.Color,
		SortOrder:    input.SortOrder,
	})
	if err != nil {
		fail(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"category": category, "created": created})
}

// DeleteCategory removes a category; tagged items keep their other
// associations.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category ID must be a positive number"})
		return
	}
	if err := h.taxonomy.DeleteCategory(uint(id)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// ListPredefinedTags lists active predefined tags, optionally filtered by
// ?type=.
func (h *Handler) ListPredefinedTags(c *gin.Context) {
	tags, err := h.taxonomy.ListPredefinedTags(c.Query("type"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// PopularTags returns the most used tags across all media kinds.
func (h *Handler) PopularTags(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	usage, err := h.taxonomy.PopularTags(limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": usage})
}

// RelatedTags returns tags that co-occur with the given ?tags= list.
func (h *Handler) RelatedTags(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	usage, err := h.taxonomy.RelatedTags(c.QueryArray("tags"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": usage})
}

// SuggestCategory proposes a category for a set of candidate tags.
func (h *Handler) SuggestCategory(c *gin.Context) {
	var input struct {
		Tags []string `json:"tags" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A tags list is required"})
		return
	}

	category, ok := h.taxonomy.SuggestCategory(input.Tags)
	c.JSON(http.StatusOK, gin.H{"category": category, "matched": ok})
}

// mediaPath fetches a media item of any kind and returns its stored file
// path, which may be empty for remote videos.
func (h *Handler) mediaPath(kind models.MediaKind, id string) (string, error) {
	switch kind {
	case models.KindImage:
		image, err := h.media.GetImage(id)
		if err != nil {
			return "", err
		}
		return image.Path, nil
	case models.KindDocument:
		doc, err := h.media.GetDocument(id)
		if err != nil {
			return "", err
		}
		return doc.Path, nil
	case models.KindVideo:
		video, err := h.media.GetVideo(id)
		if err != nil {
			return "", err
		}
		return video.Path, nil
	case models.KindAudio:
		audio, err := h.media.GetAudio(id)
		if err != nil {
			return "", err
		}
		return audio.Path, nil
	default:
		return "", fmt.Errorf("%w: unknown media kind %q", library.ErrValidation, kind)
	}
}

// tagTarget reads the media kind and item id from the route, verifies the
// item exists, and hands back its stored path in the same fetch so callers
// never re-read the row.
func (h *Handler) tagTarget(c *gin.Context) (models.MediaKind, string, string, bool) {
	kind := models.MediaKind(c.Param("kind"))
	id := c.Param("id")

	path, err := h.mediaPath(kind, id)
	if err != nil {
		fail(c, err)
		return "", "", "", false
	}
	return kind, id, path, true
}

// TagItem applies free-form tags to a media item.
func (h *Handler) TagItem(c *gin.Context) {
	kind, id, _, ok := h.tagTarget(c)
	if !ok {
		return
	}

	var input struct {
		Tags []string `json:"tags" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A non-empty tags list is required"})
		return
	}

	if err := h.taxonomy.TagItem(kind, id, input.Tags...); err != nil {
		fail(c, err)
		return
	}

	tags, err := h.taxonomy.ItemTags(kind, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// UntagItem removes one tag from a media item.
func (h *Handler) UntagItem(c *gin.Context) {
	kind, id, _, ok := h.tagTarget(c)
	if !ok {
		return
	}

	if err := h.taxonomy.UntagItem(kind, id, c.Param("tag")); err != nil {
		fail(c, err)
		return
	}

	tags, err := h.taxonomy.ItemTags(kind, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// SuggestTags runs the rule-based tagger against a stored media item and
// returns candidate tags without applying them.
func (h *Handler) SuggestTags(c *gin.Context) {
	kind, _, path, ok := h.tagTarget(c)
	if !ok {
		return
	}
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item has no stored file to analyze"})
		return
	}

	local, cleanup, err := h.localCopy(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read stored file"})
		return
	}
	defer cleanup()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	tags, err := h.tagger.SuggestTags(local, kind, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
