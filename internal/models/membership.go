package models

// Membership authorizes a user to access a project. The composite unique
// index makes duplicate invites fail at the store instead of relying on a
// check-then-insert, which races under concurrent requests.
type Membership struct {
	BaseModel

	UserID    uint `gorm:"not null;uniqueIndex:idx_user_project"`
	ProjectID uint `gorm:"not null;uniqueIndex:idx_user_project"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
