package models

import (
	"time"
)

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

type Song struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	FilePath  string    `gorm:"not null" json:"file_path"`
	Duration  int       `json:"duration"` // seconds, probed from the container at upload
	PlayCount int64     `gorm:"not null;default:0" json:"play_count"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	GenreID   uint      `gorm:"not null" json:"genre_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Creator User  `gorm:"foreignKey:CreatorID" json:"-"`
	Genre   Genre `gorm:"foreignKey:GenreID" json:"genre"`
}
