package library

import (
	"errors"
	"fmt"
	"strings"

	"go-media-library/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOptions narrows and pages the read-only media listings.
type ListOptions struct {
	CategorySlug string
	FolderID     *uint
	Search       string // matched against title, tag names and department
	OrderBy      string // created_at, title, expiry_date (documents only)
	Page         int
	Limit        int
}

func (o *ListOptions) normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 20
	}
}

// MediaService creates media items and serves the read-only listing,
// filtering and detail surface.
type MediaService struct {
	db       *gorm.DB
	folders  *FolderService
	taxonomy *TaxonomyService
}

func NewMediaService(db *gorm.DB) *MediaService {
	return &MediaService{
		db:       db,
		folders:  NewFolderService(db),
		taxonomy: NewTaxonomyService(db),
	}
}

func (s *MediaService) prepare(fields *models.MediaFields) error {
	if strings.TrimSpace(fields.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if fields.ID == "" {
		fields.ID = uuid.NewString()
	}
	if fields.FolderID != nil {
		if _, err := s.folders.Get(*fields.FolderID); err != nil {
			return err
		}
	}
	return nil
}

func (s *MediaService) attach(kind models.MediaKind, itemID string, categorySlugs, tags []string, setCategories func([]models.Category) error) error {
	if len(categorySlugs) > 0 {
		var categories []models.Category
		for _, slug := range categorySlugs {
			category, err := s.taxonomy.CategoryBySlug(slug)
			if err != nil {
				return err
			}
			categories = append(categories, *category)
		}
		if err := setCategories(categories); err != nil {
			return err
		}
	}
	if len(tags) > 0 {
		if err := s.taxonomy.TagItem(kind, itemID, tags...); err != nil {
			return err
		}
	}
	return nil
}

// CreateImage stores an image row and its category/tag links.
func (s *MediaService) CreateImage(image *models.Image, categorySlugs, tags []string) error {
	if err := s.prepare(&image.MediaFields); err != nil {
		return err
	}
	if err := s.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return s.attach(models.KindImage, image.ID, categorySlugs, tags, func(cats []models.Category) error {
		return s.db.Model(image).Association("Categories").Append(cats)
	})
}

// CreateDocument stores a document row and its category/tag links.
func (s *MediaService) CreateDocument(doc *models.Document, categorySlugs, tags []string) error {
	if err := s.prepare(&doc.MediaFields); err != nil {
		return err
	}
	if err := s.db.Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return s.attach(models.KindDocument, doc.ID, categorySlugs, tags, func(cats []models.Category) error {
		return s.db.Model(doc).Association("Categories").Append(cats)
	})
}

// CreateVideo stores a video row. A video is local (stored file) or remote
// (provider id + embed markup); it needs one of the two, never both.
func (s *MediaService) CreateVideo(video *models.Video, categorySlugs, tags []string) error {
	if video.Path == "" && video.RemoteID == "" {
		return fmt.Errorf("%w: video needs a stored file or a remote id", ErrValidation)
	}
	if err := s.prepare(&video.MediaFields); err != nil {
		return err
	}
	if err := s.db.Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return s.attach(models.KindVideo, video.ID, categorySlugs, tags, func(cats []models.Category) error {
		return s.db.Model(video).Association("Categories").Append(cats)
	})
}

// CreateAudio stores an audio row and its category/tag links.
func (s *MediaService) CreateAudio(audio *models.Audio, categorySlugs, tags []string) error {
	if err := s.prepare(&audio.MediaFields); err != nil {
		return err
	}
	if err := s.db.Create(audio).Error; err != nil {
		return fmt.Errorf("failed to create audio: %w", err)
	}
	return s.attach(models.KindAudio, audio.ID, categorySlugs, tags, func(cats []models.Category) error {
		return s.db.Model(audio).Association("Categories").Append(cats)
	})
}

// ListImages pages images filtered by category, folder and free-text
// search over title and tag names.
func (s *MediaService) ListImages(opts ListOptions) ([]models.Image, int64, error) {
	opts.normalize()
	query := s.db.Model(&models.Image{})

	// Filtering on one category slug joins at most one row per image, so
	// no DISTINCT is needed.
	if opts.CategorySlug != "" {
		query = query.
			Joins("JOIN image_categories ON image_categories.image_id = images.id").
			Joins("JOIN categories ON categories.id = image_categories.category_id").
			Where("categories.slug = ?", opts.CategorySlug)
	}
	if opts.FolderID != nil {
		query = query.Where("images.folder_id = ?", *opts.FolderID)
	}
	if opts.Search != "" {
		pattern := "%" + strings.ToLower(opts.Search) + "%"
		query = query.Where(
			"LOWER(images.title) LIKE ? OR images.id IN (?)",
			pattern,
			s.taggedItemIDs(models.KindImage, pattern),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "images.created_at DESC"
	if opts.OrderBy == "title" {
		order = "images.title ASC"
	}
	var images []models.Image
	if err := query.Order(order).
		Offset((opts.Page - 1) * opts.Limit).Limit(opts.Limit).
		Preload("Categories").
		Find(&images).Error; err != nil {
		return nil, 0, err
	}
	return images, total, nil
}

// ListDocuments pages documents filtered by category, folder and free-text
// search over title, department and tag names.
func (s *MediaService) ListDocuments(opts ListOptions) ([]models.Document, int64, error) {
	opts.normalize()
	query := s.db.Model(&models.Document{})

	if opts.CategorySlug != "" {
		query = query.
			Joins("JOIN document_categories ON document_categories.document_id = documents.id").
			Joins("JOIN categories ON categories.id = document_categories.category_id").
			Where("categories.slug = ?", opts.CategorySlug)
	}
	if opts.FolderID != nil {
		query = query.Where("documents.folder_id = ?", *opts.FolderID)
	}
	if opts.Search != "" {
		pattern := "%" + strings.ToLower(opts.Search) + "%"
		query = query.Where(
			"LOWER(documents.title) LIKE ? OR LOWER(documents.department) LIKE ? OR documents.id IN (?)",
			pattern, pattern,
			s.taggedItemIDs(models.KindDocument, pattern),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "documents.created_at DESC"
	switch opts.OrderBy {
	case "title":
		order = "documents.title ASC"
	case "expiry_date":
		order = "documents.expiry_date ASC"
	}
	var docs []models.Document
	if err := query.Order(order).
		Offset((opts.Page - 1) * opts.Limit).Limit(opts.Limit).
		Preload("Categories").
		Find(&docs).Error; err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// taggedItemIDs builds the subquery matching item ids whose tag names
// match the given LIKE pattern.
func (s *MediaService) taggedItemIDs(kind models.MediaKind, pattern string) *gorm.DB {
	return s.db.Model(&models.TaggedItem{}).
		Select("tagged_items.item_id").
		Joins("JOIN tags ON tags.id = tagged_items.tag_id").
		Where("tagged_items.item_kind = ? AND LOWER(tags.name) LIKE ?", kind, pattern)
}

// GetImage fetches one image with its categories and renditions.
func (s *MediaService) GetImage(id string) (*models.Image, error) {
	var image models.Image
	if err := s.db.Preload("Categories").Preload("Renditions").
		Where("id = ?", id).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: image %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &image, nil
}

// GetDocument fetches one document with its categories.
func (s *MediaService) GetDocument(id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Preload("Categories").Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &doc, nil
}

// GetVideo fetches one video with its categories.
func (s *MediaService) GetVideo(id string) (*models.Video, error) {
	var video models.Video
	if err := s.db.Preload("Categories").Where("id = ?", id).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: video %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &video, nil
}

// GetAudio fetches one audio file with its categories.
func (s *MediaService) GetAudio(id string) (*models.Audio, error) {
	var audio models.Audio
	if err := s.db.Preload("Categories").Where("id = ?", id).First(&audio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: audio %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &audio, nil
}

func kindModel(kind models.MediaKind) (interface{}, error) {
	switch kind {
	case models.KindImage:
		return &models.Image{}, nil
	case models.KindDocument:
		return &models.Document{}, nil
	case models.KindVideo:
		return &models.Video{}, nil
	case models.KindAudio:
		return &models.Audio{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown media kind %q", ErrValidation, kind)
	}
}

// MoveToFolder re-homes a media item of any kind; a nil folder id detaches
// it from its folder.
func (s *MediaService) MoveToFolder(kind models.MediaKind, id string, folderID *uint) error {
	model, err := kindModel(kind)
	if err != nil {
		return err
	}
	if folderID != nil {
		if _, err := s.folders.Get(*folderID); err != nil {
			return err
		}
	}
	result := s.db.Model(model).Where("id = ?", id).Update("folder_id", folderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return nil
}

// DeleteItem removes a media item of any kind along with its tag
// associations. The stored file is the caller's to clean up.
func (s *MediaService) DeleteItem(kind models.MediaKind, id string) error {
	model, err := kindModel(kind)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		return tx.Where("item_kind = ? AND item_id = ?", kind, id).
			Delete(&models.TaggedItem{}).Error
	})
}
