package faq

import "time"

type Category struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	Slug         string    `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	DisplayOrder int       `gorm:"not null" json:"display_order"`
	IsActive     bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Category) TableName() string { return "faq_categories" }

type Item struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID      uint64    `gorm:"index;not null" json:"category_id"`
	Question        string    `gorm:"type:varchar(512);not null" json:"question"`
	Answer          string    `gorm:"type:text;not null" json:"answer"`
	DisplayOrder    int       `gorm:"not null" json:"display_order"`
	Views           int64     `gorm:"not null" json:"views"`
	HelpfulCount    int64     `gorm:"not null" json:"helpful_count"`
	NotHelpfulCount int64     `gorm:"not null" json:"not_helpful_count"`
	IsActive        bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Item) TableName() string { return "faq_items" }
