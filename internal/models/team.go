package models

type Team struct {
	BaseModel

	Name string `gorm:"size:100;uniqueIndex;not null"`

	// Relationships
	Memberships []TeamMembership `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks       []Task           `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
