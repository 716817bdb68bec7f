package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tunex/internal/middleware"
	"tunex/internal/models"
	"tunex/internal/repository"
	"tunex/internal/services"
)

type SongHandler struct {
	songRepo repository.SongRepository
	uploader services.UploadService
}

func NewSongHandler(songRepo repository.SongRepository, uploader services.UploadService) *SongHandler {
	return &SongHandler{
		songRepo: songRepo,
		uploader: uploader,
	}
}

func (h *SongHandler) CreatorDashboard(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	songs, err := h.songRepo.GetSongsByCreator(identity.UserID)
	if err != nil {
		log.Printf("[CreatorDashboard] ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch songs",
		})
		return
	}

	stats, err := h.songRepo.GetCreatorStats(identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch stats",
		})
		return
	}

	genres, err := h.songRepo.GetAllGenres()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch genres",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"username": identity.Username,
			"songs":    songs,
			"genres":   genres,
			"stats":    stats,
		},
	})
}

func (h *SongHandler) Upload(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	title := strings.TrimSpace(c.PostForm("title"))
	genreIDStr := c.PostForm("genre_id")
	if title == "" || genreIDStr == "" {
		c.String(http.StatusBadRequest, "Missing fields")
		return
	}

	genreID, err := strconv.ParseUint(genreIDStr, 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid genre")
		return
	}
	if _, err := h.songRepo.GetGenreByID(uint(genreID)); err != nil {
		c.String(http.StatusBadRequest, "Invalid genre")
		return
	}

	file, err := c.FormFile("song")
	if err != nil {
		c.String(http.StatusBadRequest, "Missing fields")
		return
	}

	stored, err := h.uploader.Store(file)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedMedia) {
			c.String(http.StatusUnsupportedMediaType, "Invalid file: only mp3 and wav are allowed")
			return
		}
		log.Printf("[Upload] ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to store file",
		})
		return
	}

	song := &models.Song{
		Title:     title,
		FilePath:  stored.Path,
		Duration:  stored.Duration,
		CreatorID: identity.UserID,
		GenreID:   uint(genreID),
	}

	if err := h.songRepo.CreateSong(song); err != nil {
		// keep the disk in step with the database
		_ = h.uploader.Remove(stored.Path)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create song",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard/creator")
}

func (h *SongHandler) Edit(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	song, ok := h.songByParam(c)
	if !ok {
		return
	}
	if song.CreatorID != identity.UserID {
		c.String(http.StatusForbidden, "Unauthorized")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		c.String(http.StatusBadRequest, "Missing fields")
		return
	}

	song.Title = title
	if err := h.songRepo.UpdateSong(song); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update song",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard/creator")
}

func (h *SongHandler) Delete(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	song, ok := h.songByParam(c)
	if !ok {
		return
	}
	if song.CreatorID != identity.UserID {
		c.String(http.StatusForbidden, "Unauthorized")
		return
	}

	if err := h.songRepo.DeleteSong(song); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete song",
		})
		return
	}

	if err := h.uploader.Remove(song.FilePath); err != nil {
		log.Printf("[Delete] failed to remove %s: %v", song.FilePath, err)
	}

	c.Redirect(http.StatusSeeOther, "/dashboard/creator")
}

// Play bumps the play counter for USER sessions. Anonymous and non-USER
// callers get the same empty 204 without an increment.
func (h *SongHandler) Play(c *gin.Context) {
	song, ok := h.songByParam(c)
	if !ok {
		return
	}

	identity, authed := middleware.CurrentIdentity(c)
	if authed && identity.Role == models.RoleUser {
		if err := h.songRepo.IncrementPlayCount(song.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to record play",
			})
			return
		}
	}

	c.Status(http.StatusNoContent)
}

func (h *SongHandler) songByParam(c *gin.Context) (*models.Song, bool) {
	id, err := strconv.ParseUint(c.Param("song_id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid song ID")
		return nil, false
	}

	song, err := h.songRepo.GetSongByID(uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			c.String(http.StatusNotFound, "Song not found")
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch song",
		})
		return nil, false
	}
	return song, true
}
