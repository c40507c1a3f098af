package models

type User struct {
	BaseModel

	Username     string `gorm:"size:50;uniqueIndex;not null"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FullName     string `gorm:"size:100"`

	// Relationships
	Memberships []TeamMembership `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks       []Task           `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
