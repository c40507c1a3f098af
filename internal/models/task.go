package models

import "time"

// A task belongs to exactly one of a user (personal task) or a team.
type Task struct {
	BaseModel

	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"size:1024"`
	Status      string `gorm:"size:50;not null;default:pending"`
	DueDate     *time.Time
	OwnerID     *uint `gorm:"index"`
	TeamID      *uint `gorm:"index"`

	// Relationships
	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Team  *Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
