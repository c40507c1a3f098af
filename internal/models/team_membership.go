package models

import "time"

type TeamMembership struct {
	BaseModel

	TeamID      uint      `gorm:"not null;uniqueIndex:idx_team_user"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_team_user"`
	IsModerator bool      `gorm:"not null;default:false"`
	JoinedAt    time.Time `gorm:"not null"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
