package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitpunk-fm/zinecast/internal/catalog"
)

func playlistJSON(p *catalog.PlaylistModel) gin.H {
	tracks := make([]gin.H, 0, len(p.Tracks))
	for _, t := range p.Tracks {
		tracks = append(tracks, gin.H{
			"feedGuid": t.FeedGUID,
			"itemGuid": t.ItemGUID,
			"position": t.Position,
		})
	}
	return gin.H{
		"id":          p.PlaylistID,
		"name":        p.Name,
		"description": p.Description,
		"pictureUrl":  p.ArtworkURL,
		"remoteUrl":   p.RemoteURL,
		"curated":     p.ProfileID == "",
		"tracks":      tracks,
	}
}

// GET /api/playlists
func listPlaylists(c *gin.Context) {
	lists, err := catalog.ListPlaylists(profileID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	data := make([]gin.H, 0, len(lists))
	for i := range lists {
		data = append(data, playlistJSON(&lists[i]))
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": data})
}

// GET /api/playlists/:id
func getPlaylist(c *gin.Context) {
	p, err := catalog.GetPlaylist(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": playlistJSON(p)})
}

// POST /api/playlists
func createPlaylist(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "profile token required"})
		return
	}
	var requestBody struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil || requestBody.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	p := &catalog.PlaylistModel{
		ProfileID:   pid,
		Name:        requestBody.Name,
		Description: requestBody.Description,
	}
	if err := catalog.CreatePlaylist(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": playlistJSON(p)})
}

// PUT /api/playlists/:id
func updatePlaylist(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "profile token required"})
		return
	}
	var requestBody struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := catalog.UpdatePlaylist(pid, c.Param("id"), requestBody.Name, requestBody.Description)
	if err != nil {
		playlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": playlistJSON(p)})
}

// DELETE /api/playlists/:id
func deletePlaylist(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "profile token required"})
		return
	}
	if err := catalog.DeletePlaylist(pid, c.Param("id")); err != nil {
		playlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000"})
}

// POST /api/playlists/:id/tracks
func addPlaylistTrack(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "profile token required"})
		return
	}
	var requestBody struct {
		FeedGUID string `json:"feedGuid"`
		ItemGUID string `json:"itemGuid"`
	}
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil ||
		requestBody.FeedGUID == "" || requestBody.ItemGUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feedGuid and itemGuid required"})
		return
	}
	err := catalog.AddPlaylistTrack(pid, c.Param("id"), requestBody.FeedGUID, requestBody.ItemGUID)
	if err != nil {
		playlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000"})
}

// DELETE /api/playlists/:id/tracks
func removePlaylistTrack(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "profile token required"})
		return
	}
	var requestBody struct {
		FeedGUID string `json:"feedGuid"`
		ItemGUID string `json:"itemGuid"`
	}
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := catalog.RemovePlaylistTrack(pid, c.Param("id"), requestBody.FeedGUID, requestBody.ItemGUID)
	if err != nil {
		playlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000"})
}

// GET /api/playlists/:id/resolve: remote items joined against the catalog,
// PodcastIndex fallback for the rest
func resolvePlaylist(c *gin.Context) {
	p, err := catalog.GetPlaylist(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	if p.RemoteURL != "" {
		tracks, err := resolver.ResolveRemote(ctx, p.RemoteURL)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "playlist fetch failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": "20000", "data": tracks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": resolver.ResolveStored(ctx, p)})
}

func playlistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your playlist"})
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
	}
}
