package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go-media-library/internal/autotag"
	"go-media-library/internal/config"
	"go-media-library/internal/library"
	"go-media-library/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler bundles the services the HTTP layer dispatches into.
type Handler struct {
	cfg      *config.Config
	db       *gorm.DB
	folders  *library.FolderService
	taxonomy *library.TaxonomyService
	media    *library.MediaService
	store    storage.Storage
	tagger   *autotag.Tagger
}

func New(cfg *config.Config, db *gorm.DB, store storage.Storage) *Handler {
	rules := autotag.DefaultRules()
	if cfg.Autotag.RulesPath != "" {
		if loaded, err := autotag.LoadRules(cfg.Autotag.RulesPath); err == nil {
			rules = loaded
		}
	}
	return &Handler{
		cfg:      cfg,
		db:       db,
		folders:  library.NewFolderService(db),
		taxonomy: library.NewTaxonomyService(db),
		media:    library.NewMediaService(db),
		store:    store,
		tagger:   autotag.New(rules),
	}
}

// fail writes a JSON error response with a status derived from the
// library's error taxonomy.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, library.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, library.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, library.ErrProtected), errors.Is(err, library.ErrValidation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// localCopy spools a stored file to a temp path so tools that need a
// filename can read it. The returned cleanup removes the copy.
func (h *Handler) localCopy(storedPath string) (string, func(), error) {
	reader, err := h.store.Download(storedPath)
	if err != nil {
		return "", nil, err
	}
	defer reader.Close()

	tmp, err := os.CreateTemp("", "stored-*"+filepath.Ext(storedPath))
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	tmp.Close()
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

func pagination(page, limit int, total int64) gin.H {
	return gin.H{
		"current_page": page,
		"total_pages":  (total + int64(limit) - 1) / int64(limit),
		"total_items":  total,
		"per_page":     limit,
	}
}
