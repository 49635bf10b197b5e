package models

import "time"

// Tag is one entry in the free-form tagging vocabulary. Item associations
// live in TaggedItem so one tag name can label any media kind.
type Tag struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

// PredefinedTag is a curated suggestion for the free-form vocabulary. It
// never links to media directly; applying one just creates a Tag with the
// same name. Inactive tags drop out of suggestion lists but existing item
// associations are left alone.
type PredefinedTag struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	TagType     string    `json:"tag_type"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	SortOrder   int       `json:"sort_order" gorm:"default:0"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (PredefinedTag) TableName() string {
	return "predefined_tags"
}

// TaggedItem associates a tag with a media item of any kind. Keyed by
// (tag, kind, item) so the popular/related tag queries stay uniform across
// the four media tables.
type TaggedItem struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	TagID     uint      `json:"tag_id" gorm:"not null;uniqueIndex:idx_tagged_items_assoc"`
	Tag       Tag       `json:"tag" gorm:"foreignKey:TagID"`
	ItemKind  MediaKind `json:"item_kind" gorm:"type:varchar(16);not null;uniqueIndex:idx_tagged_items_assoc"`
	ItemID    string    `json:"item_id" gorm:"not null;uniqueIndex:idx_tagged_items_assoc"`
	CreatedAt time.Time `json:"created_at"`
}

func (TaggedItem) TableName() string {
	return "tagged_items"
}
