package models

import (
	"time"
)

// Folder is one node in the hierarchy used to organize media. A nil
// ParentID marks a root-level folder. System folders are protected from
// deletion regardless of contents.
type Folder struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"not null;uniqueIndex:idx_folders_parent_slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon" gorm:"default:fa-folder"`
	Color       string    `json:"color" gorm:"default:#3b82f6"`
	SortOrder   int       `json:"sort_order" gorm:"default:0"`
	IsSystem    bool      `json:"is_system" gorm:"default:false"`
	ParentID    *uint     `json:"parent_id" gorm:"uniqueIndex:idx_folders_parent_slug"`
	Parent      *Folder   `json:"-" gorm:"foreignKey:ParentID"`
	CreatedByID *uint     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Filled by queries, not stored.
	MediaCount int64 `json:"media_count" gorm:"-"`
}

func (Folder) TableName() string {
	return "folders"
}
