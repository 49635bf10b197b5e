package library

import (
	"time"

	"go-media-library/internal/models"

	"gorm.io/gorm"
)

// ExpiredDocuments lists documents whose expiry date is before today.
func (s *MediaService) ExpiredDocuments(now time.Time) ([]models.Document, error) {
	today := now.Truncate(24 * time.Hour)
	var docs []models.Document
	if err := s.db.Where("expiry_date IS NOT NULL AND expiry_date < ?", today).
		Order("expiry_date").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CleanupExpiredDocuments deletes documents past their expiry date and
// returns the affected rows. In dry-run mode it only lists candidates and
// mutates nothing.
func (s *MediaService) CleanupExpiredDocuments(now time.Time, dryRun bool) ([]models.Document, error) {
	docs, err := s.ExpiredDocuments(now)
	if err != nil {
		return nil, err
	}
	if dryRun || len(docs) == 0 {
		return docs, nil
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, doc := range docs {
			if err := tx.Delete(&models.Document{}, "id = ?", doc.ID).Error; err != nil {
				return err
			}
			if err := tx.Where("item_kind = ? AND item_id = ?", models.KindDocument, doc.ID).
				Delete(&models.TaggedItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
