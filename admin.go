package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bitpunk-fm/zinecast/internal/auth"
	"github.com/bitpunk-fm/zinecast/internal/base"
	"github.com/bitpunk-fm/zinecast/internal/catalog"
	"github.com/bitpunk-fm/zinecast/internal/ingest"
	"github.com/bitpunk-fm/zinecast/internal/task"
)

// adminRequired accepts either an admin JWT or the raw admin secret.
func adminRequired(c *gin.Context) {
	h := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
		return
	}
	if token == base.Config.AdminSecret {
		c.Next()
		return
	}
	claims, err := auth.Verify(base.Config.AuthSecret, token)
	if err != nil || !claims.Admin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not an admin"})
		return
	}
	c.Next()
}

// POST /api/admin/login: exchanges the admin secret for a JWT.
func adminLogin(c *gin.Context) {
	var requestBody struct {
		Secret string `json:"secret"`
	}
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil ||
		requestBody.Secret == "" || requestBody.Secret != base.Config.AdminSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bad admin secret"})
		return
	}
	token, err := auth.MintAdmin(base.Config.AuthSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token mint failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": gin.H{"token": token}})
}

// POST /api/admin/import: pulls an RSS feed into the catalog, by URL or by
// podcast:guid via PodcastIndex. Runs on a feedlet worker when one is
// polling, otherwise inline.
func adminImport(c *gin.Context) {
	var requestBody struct {
		FeedURL  string `json:"feedUrl"`
		FeedGUID string `json:"feedGuid"`
	}
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil ||
		(requestBody.FeedURL == "" && requestBody.FeedGUID == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feedUrl or feedGuid required"})
		return
	}

	if requestBody.FeedURL == "" {
		p, err := pindex.PodcastByGUID(c.Request.Context(), requestBody.FeedGUID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "feed guid not found on index"})
			return
		}
		requestBody.FeedURL = p.FeedURL
	}

	var summary *ingest.Summary
	if task.Scheduler != nil && task.Scheduler.HasWorkers() {
		t := task.Scheduler.NewTask("feed:import", map[string]string{"feedUrl": requestBody.FeedURL})
		result := task.Scheduler.Call(t, 2*time.Minute)
		switch {
		case result == nil:
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "worker timed out"})
			return
		case !result.Success:
			c.JSON(http.StatusBadGateway, gin.H{"error": result.Error})
			return
		}
		payload, err := ingest.Decode(result.Result)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		summary, err = ingest.Persist(payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	} else {
		var err error
		summary, err = ingest.ImportFeed(c.Request.Context(), requestBody.FeedURL)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}

	log.Info().Str("feed", summary.FeedGUID).Int("tracks", summary.Tracks).Msg("feed imported")
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": summary})
}

// POST /api/admin/playlists: creates a curated playlist (empty profile id).
func adminCreatePlaylist(c *gin.Context) {
	var requestBody struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ArtworkURL  string `json:"pictureUrl"`
		RemoteURL   string `json:"remoteUrl"`
	}
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil || requestBody.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	p := &catalog.PlaylistModel{
		Name:        requestBody.Name,
		Description: requestBody.Description,
		ArtworkURL:  requestBody.ArtworkURL,
		RemoteURL:   requestBody.RemoteURL,
	}
	if err := catalog.CreatePlaylist(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": playlistJSON(p)})
}
