package models

type Project struct {
	BaseModel

	Name    string `gorm:"not null"`
	OwnerID uint   `gorm:"not null;index"`

	// Relationships
	Owner       User         `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []Membership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks       []Task       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
