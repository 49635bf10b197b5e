package library

import (
	"errors"
	"fmt"
	"strings"

	"go-media-library/internal/models"

	"gorm.io/gorm"
)

// CategoryKeywords maps a category name to the keywords that vote for it
// when suggesting a category from candidate tags. Order is priority: the
// earliest declared category wins score ties.
type CategoryKeywords struct {
	Name     string
	Keywords []string
}

// DefaultCategoryKeywords is the stock suggestion vocabulary.
var DefaultCategoryKeywords = []CategoryKeywords{
	{"Graphics", []string{"graphic", "design", "illustration", "vector"}},
	{"Photos", []string{"photo", "photography", "picture", "image"}},
	{"Icons", []string{"icon", "symbol", "glyph"}},
	{"Logos", []string{"logo", "brand", "identity"}},
	{"Banners", []string{"banner", "header", "hero-image"}},
	{"Videos", []string{"video", "promo-video", "tutorial"}},
	{"Music", []string{"music", "song", "track"}},
	{"Sound Effects", []string{"sound-effect", "sfx", "audio"}},
	{"Documents", []string{"document", "pdf", "report"}},
}

// TagUsage is a tag name with its association count.
type TagUsage struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TaxonomyService manages the category and tag vocabularies and the
// polymorphic tag associations.
type TaxonomyService struct {
	db       *gorm.DB
	keywords []CategoryKeywords
}

func NewTaxonomyService(db *gorm.DB) *TaxonomyService {
	return &TaxonomyService{db: db, keywords: DefaultCategoryKeywords}
}

// SetCategoryKeywords overrides the suggestion vocabulary.
func (s *TaxonomyService) SetCategoryKeywords(kw []CategoryKeywords) {
	s.keywords = kw
}

// GetOrCreateCategory returns the category with the given slug, creating it
// from defaults when missing. Defaults are never applied to existing rows.
func (s *TaxonomyService) GetOrCreateCategory(slug string, defaults models.Category) (*models.Category, bool, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, false, fmt.Errorf("%w: category slug is required", ErrValidation)
	}
	var category models.Category
	err := s.db.Where("slug = ?", slug).First(&category).Error
	if err == nil {
		return &category, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	defaults.Slug = slug
	if defaults.Name == "" {
		defaults.Name = slug
	}
	if err := s.db.Create(&defaults).Error; err != nil {
		// Lost a get-or-create race: the unique index made the insert
		// fail, so fall back to the lookup.
		if existing, lookupErr := s.CategoryBySlug(slug); lookupErr == nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create category: %w", err)
	}
	return &defaults, true, nil
}

// CategoryBySlug fetches a category by slug.
func (s *TaxonomyService) CategoryBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %q", ErrNotFound, slug)
		}
		return nil, err
	}
	return &category, nil
}

// ListCategories lists categories, optionally narrowed to one media kind,
// ordered by sort order then name.
func (s *TaxonomyService) ListCategories(kind models.MediaKind) ([]models.Category, error) {
	query := s.db.Order("sort_order, name")
	if kind != "" {
		query = query.Where("applicable_to = ? OR applicable_to = ''", kind)
	}
	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory removes a category and clears its item associations.
// Items themselves are untouched.
func (s *TaxonomyService) DeleteCategory(id uint) error {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"image_categories", "document_categories", "video_categories", "audio_categories"} {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE category_id = ?", table), id).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&category).Error
	})
}

// GetOrCreateTag returns the predefined tag with the given slug, creating
// it from defaults when missing. Defaults never overwrite existing rows.
func (s *TaxonomyService) GetOrCreateTag(slug string, defaults models.PredefinedTag) (*models.PredefinedTag, bool, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, false, fmt.Errorf("%w: tag slug is required", ErrValidation)
	}
	var tag models.PredefinedTag
	err := s.db.Where("slug = ?", slug).First(&tag).Error
	if err == nil {
		return &tag, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	defaults.Slug = slug
	if defaults.Name == "" {
		defaults.Name = slug
	}
	if err := s.db.Create(&defaults).Error; err != nil {
		var existing models.PredefinedTag
		if lookupErr := s.db.Where("slug = ?", slug).First(&existing).Error; lookupErr == nil {
			return &existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create predefined tag: %w", err)
	}
	return &defaults, true, nil
}

// ListPredefinedTags lists active predefined tags, optionally filtered by
// type, ordered by sort order then name. Inactive tags are excluded from
// suggestions but their associations remain.
func (s *TaxonomyService) ListPredefinedTags(tagType string) ([]models.PredefinedTag, error) {
	query := s.db.Where("is_active = ?", true).Order("sort_order, name")
	if tagType != "" {
		query = query.Where("tag_type = ?", tagType)
	}
	var tags []models.PredefinedTag
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// TagItem applies free-form tag names to a media item, creating vocabulary
// entries as needed. Re-applying an existing tag is a no-op.
func (s *TaxonomyService) TagItem(kind models.MediaKind, itemID string, names ...string) error {
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", ErrValidation)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			var tag models.Tag
			if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
				return err
			}
			var count int64
			if err := tx.Model(&models.TaggedItem{}).
				Where("tag_id = ? AND item_kind = ? AND item_id = ?", tag.ID, kind, itemID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			assoc := models.TaggedItem{TagID: tag.ID, ItemKind: kind, ItemID: itemID}
			if err := tx.Create(&assoc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UntagItem removes a tag association from an item.
func (s *TaxonomyService) UntagItem(kind models.MediaKind, itemID, name string) error {
	var tag models.Tag
	if err := s.db.Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: tag %q", ErrNotFound, name)
		}
		return err
	}
	return s.db.Where("tag_id = ? AND item_kind = ? AND item_id = ?", tag.ID, kind, itemID).
		Delete(&models.TaggedItem{}).Error
}

// ItemTags lists the tag names on an item, oldest association first.
func (s *TaxonomyService) ItemTags(kind models.MediaKind, itemID string) ([]string, error) {
	var names []string
	err := s.db.Model(&models.TaggedItem{}).
		Joins("JOIN tags ON tags.id = tagged_items.tag_id").
		Where("tagged_items.item_kind = ? AND tagged_items.item_id = ?", kind, itemID).
		Order("tagged_items.id").
		Pluck("tags.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// PopularTags returns up to limit tags ordered by descending usage count
// across all media kinds, ties broken by insertion order.
func (s *TaxonomyService) PopularTags(limit int) ([]TagUsage, error) {
	if limit <= 0 {
		return nil, nil
	}
	var usage []TagUsage
	err := s.db.Raw(`
		SELECT tags.name AS name, COUNT(tagged_items.id) AS count
		FROM tags
		JOIN tagged_items ON tagged_items.tag_id = tags.id
		GROUP BY tags.id, tags.name
		ORDER BY count DESC, tags.id ASC
		LIMIT ?`, limit).Scan(&usage).Error
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// RelatedTags returns up to limit tags that co-occur on items already
// carrying any of the given tags, excluding the given tags themselves,
// ordered by descending co-occurrence. Empty input yields an empty result.
func (s *TaxonomyService) RelatedTags(given []string, limit int) ([]TagUsage, error) {
	if len(given) == 0 || limit <= 0 {
		return nil, nil
	}
	var usage []TagUsage
	err := s.db.Raw(`
		SELECT t.name AS name, COUNT(ti.id) AS count
		FROM tagged_items ti
		JOIN tags t ON t.id = ti.tag_id
		WHERE (ti.item_kind, ti.item_id) IN (
			SELECT ti2.item_kind, ti2.item_id
			FROM tagged_items ti2
			JOIN tags t2 ON t2.id = ti2.tag_id
			WHERE t2.name IN ?
		)
		AND t.name NOT IN ?
		GROUP BY t.id, t.name
		ORDER BY count DESC, t.id ASC
		LIMIT ?`, given, given, limit).Scan(&usage).Error
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// SuggestCategory scores each configured category by how many candidate
// tags contain one of its keywords as a substring, case-insensitive. The
// highest score wins; ties go to the earliest declared category. The
// second result is false when every category scores zero.
func (s *TaxonomyService) SuggestCategory(candidateTags []string) (string, bool) {
	best := ""
	bestScore := 0
	for _, entry := range s.keywords {
		score := 0
		for _, tag := range candidateTags {
			lower := strings.ToLower(tag)
			for _, kw := range entry.Keywords {
				if strings.Contains(lower, kw) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best = entry.Name
			bestScore = score
		}
	}
	return best, bestScore > 0
}
