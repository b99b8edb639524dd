package models

import (
	"time"
)

// BaseModel provides the auto-increment key and timestamps shared by every table
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
