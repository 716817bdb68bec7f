package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tunex/internal/middleware"
	"tunex/internal/models"
	"tunex/internal/repository"
)

type PlaylistHandler struct {
	playlistRepo repository.PlaylistRepository
	songRepo     repository.SongRepository
}

func NewPlaylistHandler(playlistRepo repository.PlaylistRepository, songRepo repository.SongRepository) *PlaylistHandler {
	return &PlaylistHandler{
		playlistRepo: playlistRepo,
		songRepo:     songRepo,
	}
}

func (h *PlaylistHandler) UserDashboard(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	songs, err := h.songRepo.GetAllSongs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch songs",
		})
		return
	}

	playlists, err := h.playlistRepo.GetPlaylistsByUser(identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch playlists",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"username":  identity.Username,
			"songs":     songs,
			"playlists": playlists,
		},
	})
}

func (h *PlaylistHandler) Create(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.String(http.StatusBadRequest, "Missing fields")
		return
	}

	playlist := &models.Playlist{
		Name:   name,
		UserID: identity.UserID,
	}

	if err := h.playlistRepo.CreatePlaylist(playlist); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create playlist",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard/user")
}

func (h *PlaylistHandler) View(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	playlist, ok := h.ownedPlaylistByParam(c, identity)
	if !ok {
		return
	}

	memberships, err := h.playlistRepo.GetPlaylistSongs(playlist.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch playlist songs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"playlist": playlist,
			"songs":    memberships,
		},
	})
}

func (h *PlaylistHandler) Rename(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	playlist, ok := h.ownedPlaylistByParam(c, identity)
	if !ok {
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.String(http.StatusBadRequest, "Missing fields")
		return
	}

	if err := h.playlistRepo.RenamePlaylist(playlist, name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to rename playlist",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard/user")
}

func (h *PlaylistHandler) Delete(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	playlist, ok := h.ownedPlaylistByParam(c, identity)
	if !ok {
		return
	}

	if err := h.playlistRepo.DeletePlaylist(playlist); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete playlist",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard/user")
}

// AddSong appends a song to an owned playlist. Adding a song that is already
// a member is a silent no-op: same redirect, no new row.
func (h *PlaylistHandler) AddSong(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	playlistID, songID, ok := h.membershipForm(c)
	if !ok {
		return
	}

	playlist, ok := h.ownedPlaylist(c, identity, playlistID)
	if !ok {
		return
	}

	if _, err := h.songRepo.GetSongByID(songID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			c.String(http.StatusNotFound, "Song not found")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch song",
		})
		return
	}

	if err := h.playlistRepo.AddSong(playlist.ID, songID); err != nil &&
		!errors.Is(err, repository.ErrDuplicateMembership) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to add song",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard/user")
}

func (h *PlaylistHandler) RemoveSong(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	playlistID, songID, ok := h.membershipForm(c)
	if !ok {
		return
	}

	playlist, ok := h.ownedPlaylist(c, identity, playlistID)
	if !ok {
		return
	}

	if err := h.playlistRepo.RemoveSong(playlist.ID, songID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to remove song",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard/user")
}

func (h *PlaylistHandler) Reorder(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	playlist, ok := h.ownedPlaylistByParam(c, identity)
	if !ok {
		return
	}

	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.playlistRepo.ReorderSongs(playlist.ID, req.Order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to reorder playlist",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PlaylistHandler) membershipForm(c *gin.Context) (playlistID, songID uint, ok bool) {
	pid, err := strconv.ParseUint(c.PostForm("playlist_id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid playlist ID")
		return 0, 0, false
	}
	sid, err := strconv.ParseUint(c.PostForm("song_id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid song ID")
		return 0, 0, false
	}
	return uint(pid), uint(sid), true
}

func (h *PlaylistHandler) ownedPlaylistByParam(c *gin.Context, identity *middleware.Identity) (*models.Playlist, bool) {
	id, err := strconv.ParseUint(c.Param("playlist_id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid playlist ID")
		return nil, false
	}
	return h.ownedPlaylist(c, identity, uint(id))
}

func (h *PlaylistHandler) ownedPlaylist(c *gin.Context, identity *middleware.Identity, id uint) (*models.Playlist, bool) {
	playlist, err := h.playlistRepo.GetPlaylistByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			c.String(http.StatusNotFound, "Playlist not found")
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch playlist",
		})
		return nil, false
	}
	if playlist.UserID != identity.UserID {
		c.String(http.StatusForbidden, "Unauthorized")
		return nil, false
	}
	return playlist, true
}
