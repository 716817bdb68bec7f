package repository

import (
	"errors"

	"tunex/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSongNotFound  = errors.New("song not found")
	ErrGenreNotFound = errors.New("genre not found")
)

// CreatorStats aggregates the numbers shown on the creator dashboard.
type CreatorStats struct {
	TotalSongs int64        `json:"total_songs"`
	TotalPlays int64        `json:"total_plays"`
	TopSong    *models.Song `json:"top_song,omitempty"`
}

type SongRepository interface {
	CreateSong(song *models.Song) error
	GetSongByID(id uint) (*models.Song, error)
	GetAllSongs() ([]models.Song, error)
	GetSongsByCreator(creatorID uint) ([]models.Song, error)
	UpdateSong(song *models.Song) error
	DeleteSong(song *models.Song) error
	IncrementPlayCount(songID uint) error
	GetCreatorStats(creatorID uint) (*CreatorStats, error)
	GetAllGenres() ([]models.Genre, error)
	GetGenreByID(id uint) (*models.Genre, error)
}

type songRepo struct {
	db *gorm.DB
}

func NewSongRepository(db *gorm.DB) SongRepository {
	return &songRepo{db: db}
}

func (r *songRepo) CreateSong(song *models.Song) error {
	return r.db.Create(song).Error
}

func (r *songRepo) GetSongByID(id uint) (*models.Song, error) {
	var song models.Song
	err := r.db.Preload("Genre").First(&song, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return &song, nil
}

func (r *songRepo) GetAllSongs() ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Preload("Genre").Order("created_at DESC").Find(&songs).Error
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

func (r *songRepo) GetSongsByCreator(creatorID uint) ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Preload("Genre").Where("creator_id = ?", creatorID).
		Order("created_at DESC").Find(&songs).Error
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

func (r *songRepo) UpdateSong(song *models.Song) error {
	return r.db.Save(song).Error
}

// DeleteSong removes the song and every playlist membership that references
// it, in one transaction.
func (r *songRepo) DeleteSong(song *models.Song) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", song.ID).Delete(&models.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(song).Error
	})
}

// IncrementPlayCount bumps play_count by exactly one as a single-row update.
// Every call increments; debouncing is the caller's problem, and there is none.
func (r *songRepo) IncrementPlayCount(songID uint) error {
	return r.db.Model(&models.Song{}).Where("id = ?", songID).
		UpdateColumn("play_count", gorm.Expr("play_count + 1")).Error
}

func (r *songRepo) GetCreatorStats(creatorID uint) (*CreatorStats, error) {
	stats := &CreatorStats{}

	if err := r.db.Model(&models.Song{}).Where("creator_id = ?", creatorID).
		Count(&stats.TotalSongs).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Song{}).Where("creator_id = ?", creatorID).
		Select("COALESCE(SUM(play_count), 0)").Scan(&stats.TotalPlays).Error; err != nil {
		return nil, err
	}

	if stats.TotalSongs > 0 {
		var top models.Song
		err := r.db.Preload("Genre").Where("creator_id = ?", creatorID).
			Order("play_count DESC").First(&top).Error
		if err != nil {
			return nil, err
		}
		stats.TopSong = &top
	}

	return stats, nil
}

func (r *songRepo) GetAllGenres() ([]models.Genre, error) {
	var genres []models.Genre
	err := r.db.Order("id").Find(&genres).Error
	return genres, err
}

func (r *songRepo) GetGenreByID(id uint) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.First(&genre, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return &genre, nil
}
