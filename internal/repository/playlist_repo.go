package repository

import (
	"errors"

	"tunex/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPlaylistNotFound    = errors.New("playlist not found")
	ErrDuplicateMembership = errors.New("song already in playlist")
)

type PlaylistRepository interface {
	CreatePlaylist(playlist *models.Playlist) error
	GetPlaylistByID(id uint) (*models.Playlist, error)
	GetPlaylistsByUser(userID uint) ([]models.Playlist, error)
	RenamePlaylist(playlist *models.Playlist, name string) error
	DeletePlaylist(playlist *models.Playlist) error
	GetPlaylistSongs(playlistID uint) ([]models.PlaylistSong, error)
	AddSong(playlistID, songID uint) error
	RemoveSong(playlistID, songID uint) error
	ReorderSongs(playlistID uint, order []models.ReorderEntry) error
}

type playlistRepo struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepo{db: db}
}

func (r *playlistRepo) CreatePlaylist(playlist *models.Playlist) error {
	return r.db.Create(playlist).Error
}

func (r *playlistRepo) GetPlaylistByID(id uint) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.db.First(&playlist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return &playlist, nil
}

func (r *playlistRepo) GetPlaylistsByUser(userID uint) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&playlists).Error
	if err != nil {
		return nil, err
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	return playlists, nil
}

func (r *playlistRepo) RenamePlaylist(playlist *models.Playlist, name string) error {
	playlist.Name = name
	return r.db.Save(playlist).Error
}

// DeletePlaylist removes the playlist and all of its memberships in one
// transaction.
func (r *playlistRepo) DeletePlaylist(playlist *models.Playlist) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlist.ID).Delete(&models.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(playlist).Error
	})
}

func (r *playlistRepo) GetPlaylistSongs(playlistID uint) ([]models.PlaylistSong, error) {
	var memberships []models.PlaylistSong
	err := r.db.Preload("Song").Preload("Song.Genre").
		Where("playlist_id = ?", playlistID).
		Order("position").Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	if memberships == nil {
		memberships = []models.PlaylistSong{}
	}
	return memberships, nil
}

// AddSong appends the song at max(position)+1, or position 1 when the
// playlist is empty. A song appears at most once per playlist; the duplicate
// check and position assignment run in the same transaction.
func (r *playlistRepo) AddSong(playlistID, songID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PlaylistSong{}).
			Where("playlist_id = ? AND song_id = ?", playlistID, songID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateMembership
		}

		var lastPosition int
		if err := tx.Model(&models.PlaylistSong{}).
			Where("playlist_id = ?", playlistID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&lastPosition).Error; err != nil {
			return err
		}

		return tx.Create(&models.PlaylistSong{
			PlaylistID: playlistID,
			SongID:     songID,
			Position:   lastPosition + 1,
		}).Error
	})
}

// RemoveSong deletes the membership row if present. Remaining positions are
// left as they are, not renumbered.
func (r *playlistRepo) RemoveSong(playlistID, songID uint) error {
	return r.db.Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&models.PlaylistSong{}).Error
}

// ReorderSongs overwrites the position of each membership named in order.
// Memberships not listed keep their position. Submitted positions are not
// validated for uniqueness or contiguity.
func (r *playlistRepo) ReorderSongs(playlistID uint, order []models.ReorderEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range order {
			if err := tx.Model(&models.PlaylistSong{}).
				Where("playlist_id = ? AND song_id = ?", playlistID, entry.SongID).
				UpdateColumn("position", entry.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
