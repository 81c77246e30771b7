package models

import "time"

// BaseModel is gorm.Model without DeletedAt: rows in this schema are
// hard-deleted so that foreign-key cascades and the membership uniqueness
// index behave the same for live and removed rows.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
