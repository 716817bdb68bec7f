package handlers_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"tunex/internal/config"
	"tunex/internal/database"
	"tunex/internal/handlers"
	"tunex/internal/middleware"
	"tunex/internal/models"
	"tunex/internal/repository"
	"tunex/internal/routes"
	"tunex/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires the full router over an on-disk sqlite database in a
// temp dir, the same assembly main performs.
func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.GlobalConfig = &config.Config{
		JWTSecret:   "test-secret",
		Env:         "development",
		UploadDir:   t.TempDir(),
		MaxUploadMB: 4,
		ServerPort:  "8080",
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tunex.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	songRepo := repository.NewSongRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)

	uploader, err := services.NewUploadService(config.GlobalConfig.UploadDir)
	if err != nil {
		t.Fatalf("failed to create upload service: %v", err)
	}

	router := routes.SetupRoutes(
		handlers.NewAuthHandler(userRepo),
		handlers.NewSongHandler(songRepo, uploader),
		handlers.NewPlaylistHandler(playlistRepo, songRepo),
	)

	return router, db
}

func registerUser(t *testing.T, db *gorm.DB, email string, roles ...string) *models.User {
	t.Helper()

	repo := repository.NewUserRepository(db)
	hash, err := repo.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: hash,
	}
	if err := repo.CreateUserWithRole(user, roles[0]); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	for _, roleName := range roles[1:] {
		var role models.Role
		if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
			t.Fatalf("role %s not seeded: %v", roleName, err)
		}
		if err := db.Model(user).Association("Roles").Append(&role); err != nil {
			t.Fatalf("failed to append role: %v", err)
		}
	}
	return user
}

// login posts the login form and returns the session cookie.
func login(t *testing.T, router *gin.Engine, email, role string) *http.Cookie {
	t.Helper()

	w := postForm(router, "/login", url.Values{
		"email":    {email},
		"password": {"password123"},
		"role":     {role},
	}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("login for %s as %s: expected 302, got %d (%s)", email, role, w.Code, w.Body.String())
	}

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatalf("login for %s did not set a session cookie", email)
	return nil
}

func postForm(router *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doRequest(router *gin.Engine, method, path string, body io.Reader, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSong(t *testing.T, db *gorm.DB, creatorID uint, title string) *models.Song {
	t.Helper()

	var genre models.Genre
	if err := db.First(&genre).Error; err != nil {
		t.Fatalf("no seeded genre: %v", err)
	}

	song := &models.Song{
		Title:     title,
		FilePath:  "/uploads/" + title + ".mp3",
		Duration:  120,
		CreatorID: creatorID,
		GenreID:   genre.ID,
	}
	if err := repository.NewSongRepository(db).CreateSong(song); err != nil {
		t.Fatalf("failed to create song: %v", err)
	}
	return song
}

// makeWAV builds a valid PCM WAV: 16-bit mono 8kHz silence.
func makeWAV(seconds int) []byte {
	const (
		sampleRate    = 8000
		bitsPerSample = 16
	)
	byteRate := sampleRate * bitsPerSample / 8
	dataSize := uint32(byteRate * seconds)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample/8))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	buf.Write(make([]byte, dataSize))

	return buf.Bytes()
}
