package models

type Task struct {
	BaseModel

	ProjectID   uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null"` // "todo", "in-progress", "done"
	AssigneeID  *uint  `gorm:"index"`

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee *User   `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
