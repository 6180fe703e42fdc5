package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bitpunk-fm/zinecast/internal/catalog"
	"github.com/bitpunk-fm/zinecast/internal/lnurl"
)

// POST /api/boost: splits a sat amount over the target's value recipients
// and returns one invoice per recipient.
func createBoost(c *gin.Context) {
	var requestBody struct {
		TrackGUID string `json:"trackGuid"`
		FeedGUID  string `json:"feedGuid"`
		Sats      int64  `json:"sats"`
		Message   string `json:"message"`
		Sender    string `json:"sender"`
	}
	if err := c.ShouldBindBodyWithJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestBody.Sats <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sats must be positive"})
		return
	}

	var feedID, trackID uint
	var trackTitle string
	if requestBody.TrackGUID != "" {
		track, err := catalog.GetTrackByGUID(requestBody.TrackGUID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "track not found"})
			return
		}
		feedID, trackID, trackTitle = track.FeedID, track.ID, track.Title
	} else if requestBody.FeedGUID != "" {
		feed, err := catalog.GetFeedByGUID(requestBody.FeedGUID)
		if err != nil || feed == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
			return
		}
		feedID, trackTitle = feed.ID, feed.Title
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trackGuid or feedGuid required"})
		return
	}

	splits, err := catalog.ValueRecipients(feedID, trackID)
	if err != nil || len(splits) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no value recipients for this target"})
		return
	}
	recipients := make([]lnurl.Recipient, 0, len(splits))
	for _, s := range splits {
		recipients = append(recipients, lnurl.Recipient{
			Name:    s.Name,
			Address: s.Address,
			Split:   s.Split,
			Fee:     s.Fee,
		})
	}

	comment := requestBody.Message
	if comment == "" {
		comment = "boost: " + trackTitle
	}
	if requestBody.Sender != "" {
		comment = requestBody.Sender + ": " + comment
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
	defer cancel()
	invoices := lnClient.BoostInvoices(ctx, recipients, requestBody.Sats*1000, comment)
	if len(invoices) == 0 {
		c.JSON(http.StatusBadGateway, gin.H{"error": "no payable recipients"})
		return
	}

	boost := &catalog.BoostModel{
		ProfileID:  profileID(c),
		TrackGUID:  requestBody.TrackGUID,
		FeedGUID:   requestBody.FeedGUID,
		AmountMsat: requestBody.Sats * 1000,
		Message:    requestBody.Message,
		Recipients: len(invoices),
	}
	if err := catalog.RecordBoost(boost); err != nil {
		log.Warn().Err(err).Msg("boost ledger write failed")
	}

	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": gin.H{"invoices": invoices}})
}
