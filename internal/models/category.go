package models

import "time"

// Category is a flat, globally unique classification label, independent of
// the folder hierarchy. ApplicableTo narrows which media kind the category
// is offered for; empty means any.
type Category struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Name         string    `json:"name" gorm:"uniqueIndex;not null"`
	Slug         string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description  string    `json:"description"`
	CategoryType string    `json:"category_type"`
	ApplicableTo string    `json:"applicable_to"`
	Icon         string    `json:"icon"`
	Color        string    `json:"color"`
	SortOrder    int       `json:"sort_order" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
