package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bitpunk-fm/zinecast/internal/auth"
	"github.com/bitpunk-fm/zinecast/internal/base"
	"github.com/bitpunk-fm/zinecast/internal/catalog"
)

// profileClaims extracts the verified bearer claims, nil when absent.
func profileClaims(c *gin.Context) *auth.Claims {
	h := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return nil
	}
	claims, err := auth.Verify(base.Config.AuthSecret, token)
	if err != nil {
		return nil
	}
	return claims
}

func profileID(c *gin.Context) string {
	if claims := profileClaims(c); claims != nil {
		return claims.ProfileID
	}
	return ""
}

// POST /api/auth/session: mints a profile token, anonymous unless the
// caller supplies a Nostr pubkey to tag favorites with
func createAuthSession(c *gin.Context) {
	var requestBody struct {
		Pubkey string `json:"pubkey"`
	}
	_ = c.ShouldBindBodyWithJSON(&requestBody)

	pid := uuid.New().String()
	token, err := auth.MintProfile(base.Config.AuthSecret, pid, requestBody.Pubkey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token mint failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": gin.H{"token": token, "profileId": pid}})
}

type favoriteRequest struct {
	TrackGUID string `json:"trackGuid"`
	FeedGUID  string `json:"feedGuid"`
}

// GET /api/favorites
func listFavorites(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "profile token required"})
		return
	}
	favs, err := catalog.ListFavorites(pid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	data := make([]gin.H, 0, len(favs))
	for _, f := range favs {
		data = append(data, gin.H{
			"trackGuid": f.TrackGUID,
			"feedGuid":  f.FeedGUID,
			"eventId":   f.NostrEventID,
			"createdAt": f.CreatedAt.UnixMilli(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": data})
}

// POST /api/favorites
func addFavorite(c *gin.Context) {
	claims := profileClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "profile token required"})
		return
	}
	var requestBody favoriteRequest
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fav, created, err := catalog.AddFavorite(claims.ProfileID, requestBody.TrackGUID, requestBody.FeedGUID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// relay publish is best effort; the favorite stands either way
	if created && fav != nil && nostrPublisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			title := favoriteTitle(requestBody.TrackGUID, requestBody.FeedGUID)
			eventID, err := nostrPublisher.PublishFavorite(ctx, claims.Pubkey,
				requestBody.TrackGUID, requestBody.FeedGUID, title)
			if err != nil {
				log.Warn().Err(err).Msg("nostr favorite publish failed")
				return
			}
			if err := catalog.SetFavoriteEvent(fav.ID, eventID); err != nil {
				log.Warn().Err(err).Msg("favorite event id not saved")
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": gin.H{"created": created}})
}

// DELETE /api/favorites
func removeFavorite(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "profile token required"})
		return
	}
	var requestBody favoriteRequest
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventID, err := catalog.RemoveFavorite(pid, requestBody.TrackGUID, requestBody.FeedGUID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
		return
	}

	if eventID != "" && nostrPublisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			if err := nostrPublisher.PublishDeletion(ctx, eventID); err != nil {
				log.Warn().Err(err).Msg("nostr deletion publish failed")
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"code": "20000"})
}

func favoriteTitle(trackGUID, feedGUID string) string {
	if trackGUID != "" {
		if t, err := catalog.GetTrackByGUID(trackGUID); err == nil {
			return t.Title
		}
		return trackGUID
	}
	if f, err := catalog.GetFeedByGUID(feedGUID); err == nil && f != nil {
		return f.Title
	}
	return feedGUID
}
