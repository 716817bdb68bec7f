package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"tunex/internal/models"
	"tunex/internal/repository"

	"gorm.io/gorm"
)

func membershipPosition(t *testing.T, db *gorm.DB, playlistID, songID uint) (int, bool) {
	t.Helper()

	var membership models.PlaylistSong
	err := db.Where("playlist_id = ? AND song_id = ?", playlistID, songID).First(&membership).Error
	if err != nil {
		return 0, false
	}
	return membership.Position, true
}

func TestPlaylistLifecycle(t *testing.T) {
	router, db := newTestApp(t)

	creator := registerUser(t, db, "creator@example.com", models.RoleCreator)
	listener := registerUser(t, db, "listener@example.com", models.RoleUser)
	song1 := createSong(t, db, creator.ID, "Song One")
	song2 := createSong(t, db, creator.ID, "Song Two")

	cookie := login(t, router, "listener@example.com", models.RoleUser)

	// create
	w := postForm(router, "/playlist/create", url.Values{"name": {"Gym"}}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create: expected 303, got %d", w.Code)
	}

	var playlist models.Playlist
	if err := db.Where("name = ? AND user_id = ?", "Gym", listener.ID).First(&playlist).Error; err != nil {
		t.Fatalf("playlist not persisted: %v", err)
	}

	addForm := func(songID uint) url.Values {
		return url.Values{
			"playlist_id": {fmt.Sprint(playlist.ID)},
			"song_id":     {fmt.Sprint(songID)},
		}
	}

	// add both songs
	for _, songID := range []uint{song1.ID, song2.ID} {
		w = postForm(router, "/playlist/add", addForm(songID), cookie)
		if w.Code != http.StatusSeeOther {
			t.Fatalf("add: expected 303, got %d", w.Code)
		}
	}
	if pos, _ := membershipPosition(t, db, playlist.ID, song1.ID); pos != 1 {
		t.Errorf("song1 should sit at position 1, got %d", pos)
	}
	if pos, _ := membershipPosition(t, db, playlist.ID, song2.ID); pos != 2 {
		t.Errorf("song2 should sit at position 2, got %d", pos)
	}

	// duplicate add: same redirect, still one row
	w = postForm(router, "/playlist/add", addForm(song1.ID), cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("duplicate add: expected 303, got %d", w.Code)
	}
	var count int64
	db.Model(&models.PlaylistSong{}).
		Where("playlist_id = ? AND song_id = ?", playlist.ID, song1.ID).Count(&count)
	if count != 1 {
		t.Errorf("duplicate add should leave exactly one membership, got %d", count)
	}

	// remove song1; song2 keeps position 2
	w = postForm(router, "/playlist/remove", addForm(song1.ID), cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("remove: expected 303, got %d", w.Code)
	}
	if _, exists := membershipPosition(t, db, playlist.ID, song1.ID); exists {
		t.Error("song1 membership should be gone")
	}
	if pos, _ := membershipPosition(t, db, playlist.ID, song2.ID); pos != 2 {
		t.Errorf("song2 should keep position 2 after removal, got %d", pos)
	}

	// view lists remaining songs in position order
	w = doRequest(router, http.MethodGet, fmt.Sprintf("/playlist/%d", playlist.ID), nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("view: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Song Two") {
		t.Error("view should include the remaining song")
	}
	if strings.Contains(w.Body.String(), "Song One") {
		t.Error("view should not include the removed song")
	}

	// rename
	w = postForm(router, fmt.Sprintf("/playlist/rename/%d", playlist.ID),
		url.Values{"name": {"Workout"}}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("rename: expected 303, got %d", w.Code)
	}
	var renamed models.Playlist
	db.First(&renamed, playlist.ID)
	if renamed.Name != "Workout" {
		t.Errorf("expected renamed playlist, got %q", renamed.Name)
	}

	// delete cascades memberships
	w = postForm(router, fmt.Sprintf("/playlist/delete/%d", playlist.ID), url.Values{}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("delete: expected 303, got %d", w.Code)
	}
	db.Model(&models.PlaylistSong{}).Where("playlist_id = ?", playlist.ID).Count(&count)
	if count != 0 {
		t.Errorf("memberships should be gone with the playlist, got %d", count)
	}
}

func TestReorderEndpoint(t *testing.T) {
	router, db := newTestApp(t)

	creator := registerUser(t, db, "creator@example.com", models.RoleCreator)
	listener := registerUser(t, db, "listener@example.com", models.RoleUser)
	song1 := createSong(t, db, creator.ID, "Song One")
	song2 := createSong(t, db, creator.ID, "Song Two")

	cookie := login(t, router, "listener@example.com", models.RoleUser)

	playlistRepo := repository.NewPlaylistRepository(db)
	playlist := &models.Playlist{Name: "Gym", UserID: listener.ID}
	if err := playlistRepo.CreatePlaylist(playlist); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}
	for _, songID := range []uint{song1.ID, song2.ID} {
		if err := playlistRepo.AddSong(playlist.ID, songID); err != nil {
			t.Fatalf("failed to add song: %v", err)
		}
	}

	reorderPath := fmt.Sprintf("/playlist/reorder/%d", playlist.ID)

	t.Run("PartialReorder", func(t *testing.T) {
		body := fmt.Sprintf(`{"order":[{"song_id":%d,"position":5}]}`, song2.ID)
		w := doRequest(router, http.MethodPost, reorderPath, strings.NewReader(body), cookie)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d (%s)", w.Code, w.Body.String())
		}
		if pos, _ := membershipPosition(t, db, playlist.ID, song2.ID); pos != 5 {
			t.Errorf("song2 should move to position 5, got %d", pos)
		}
		if pos, _ := membershipPosition(t, db, playlist.ID, song1.ID); pos != 1 {
			t.Errorf("song1 should be untouched at position 1, got %d", pos)
		}
	})

	t.Run("MalformedBodyIs400", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, reorderPath, strings.NewReader(`{"order":`), cookie)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestPlaylistOwnership(t *testing.T) {
	router, db := newTestApp(t)

	owner := registerUser(t, db, "owner@example.com", models.RoleUser)
	registerUser(t, db, "intruder@example.com", models.RoleUser)

	playlistRepo := repository.NewPlaylistRepository(db)
	playlist := &models.Playlist{Name: "Private", UserID: owner.ID}
	if err := playlistRepo.CreatePlaylist(playlist); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	cookie := login(t, router, "intruder@example.com", models.RoleUser)

	t.Run("ViewForbidden", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, fmt.Sprintf("/playlist/%d", playlist.ID), nil, cookie)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
		if w.Body.String() != "Unauthorized" {
			t.Errorf("expected plain Unauthorized body, got %q", w.Body.String())
		}
	})

	t.Run("RenameForbidden", func(t *testing.T) {
		w := postForm(router, fmt.Sprintf("/playlist/rename/%d", playlist.ID),
			url.Values{"name": {"Mine Now"}}, cookie)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("ReorderForbidden", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, fmt.Sprintf("/playlist/reorder/%d", playlist.ID),
			strings.NewReader(`{"order":[]}`), cookie)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("UnknownPlaylistIs404", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/playlist/99999", nil, cookie)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}
