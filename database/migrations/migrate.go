package migrations

import (
	"go-media-library/internal/models"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the library uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.Category{},
		&models.Tag{},
		&models.PredefinedTag{},
		&models.TaggedItem{},
		&models.Image{},
		&models.ImageRendition{},
		&models.Document{},
		&models.Video{},
		&models.Audio{},
	)
}
