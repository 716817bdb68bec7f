package models

import (
	"time"
)

type Playlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Owner User           `gorm:"foreignKey:UserID" json:"-"`
	Songs []PlaylistSong `gorm:"foreignKey:PlaylistID" json:"-"`
}

// PlaylistSong links a playlist to a song with an ordering hint. A song
// appears at most once per playlist; positions are advisory and are not
// compacted on removal.
type PlaylistSong struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PlaylistID uint `gorm:"not null;index" json:"playlist_id"`
	SongID     uint `gorm:"not null;index" json:"song_id"`
	Position   int  `gorm:"not null" json:"position"`

	// Relationships
	Song Song `gorm:"foreignKey:SongID" json:"song"`
}

type ReorderEntry struct {
	SongID   uint `json:"song_id"`
	Position int  `json:"position"`
}

type ReorderRequest struct {
	Order []ReorderEntry `json:"order" binding:"required"`
}
