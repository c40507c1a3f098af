package models

import "time"

// BaseModel is embedded by every entity. Unlike gorm.Model it carries no
// DeletedAt column: rows are removed for real, never soft-deleted.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
