package repository

import (
	"path/filepath"
	"testing"

	"tunex/internal/database"
	"tunex/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tunex.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	repo := NewUserRepository(db)
	hash, err := repo.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     "user_" + role,
		Email:        email,
		PasswordHash: hash,
	}
	if err := repo.CreateUserWithRole(user, role); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createTestSong(t *testing.T, db *gorm.DB, creatorID uint, title string) *models.Song {
	t.Helper()

	var genre models.Genre
	if err := db.First(&genre).Error; err != nil {
		t.Fatalf("no seeded genre: %v", err)
	}

	song := &models.Song{
		Title:     title,
		FilePath:  "/uploads/" + title + ".mp3",
		Duration:  180,
		CreatorID: creatorID,
		GenreID:   genre.ID,
	}
	if err := NewSongRepository(db).CreateSong(song); err != nil {
		t.Fatalf("failed to create song %s: %v", title, err)
	}
	return song
}

func membershipCount(t *testing.T, db *gorm.DB, playlistID, songID uint) int64 {
	t.Helper()

	var count int64
	query := db.Model(&models.PlaylistSong{})
	if playlistID > 0 {
		query = query.Where("playlist_id = ?", playlistID)
	}
	if songID > 0 {
		query = query.Where("song_id = ?", songID)
	}
	if err := query.Count(&count).Error; err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	return count
}
