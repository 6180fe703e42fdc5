package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitpunk-fm/zinecast/internal/catalog"
)

func feedJSON(f *catalog.FeedModel) gin.H {
	return gin.H{
		"guid":          f.GUID,
		"title":         f.Title,
		"artist":        f.Artist,
		"medium":        f.Medium,
		"description":   f.Description,
		"feedUrl":       f.FeedURL,
		"pictureUrl":    f.ArtworkURL,
		"publisherGuid": f.PublisherGUID,
		"explicit":      f.Explicit,
		"playCount":     f.PlayCount,
		"slug":          catalog.NormalizeSlug(f.Title),
	}
}

func trackJSON(t *catalog.TrackModel) gin.H {
	return gin.H{
		"guid":       t.GUID,
		"feedGuid":   t.FeedGUID,
		"title":      t.Title,
		"artist":     t.Artist,
		"url":        t.AudioURL,
		"pictureUrl": t.ArtworkURL,
		"duration":   t.Duration,
		"number":     t.Number,
		"playCount":  t.PlayCount,
	}
}

// GET /api/albums?q=&pageIndex=&pageSize=
func listAlbums(c *gin.Context) {
	page := queryInt64(c, "pageIndex", 1)
	pageSize := queryInt64(c, "pageSize", 50)

	feeds, total, err := catalog.SearchFeeds(c.Query("q"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	data := make([]gin.H, 0, len(feeds))
	for i := range feeds {
		data = append(data, feedJSON(&feeds[i]))
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": data, "totalSize": total})
}

// GET /api/albums/:slug: fuzzy slug resolution, tracks included
func getAlbum(c *gin.Context) {
	feed, err := catalog.ResolveFeedBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
		return
	}
	tracks := make([]gin.H, 0, len(feed.Tracks))
	for i := range feed.Tracks {
		tracks = append(tracks, trackJSON(&feed.Tracks[i]))
	}
	album := feedJSON(feed)
	album["tracks"] = tracks
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": album})
}

// POST /api/tracks/:guid/played: play count bookkeeping
func trackPlayed(c *gin.Context) {
	if err := catalog.IncrementPlayCount(c.Param("guid")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "track not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000"})
}

// GET /api/publishers
func listPublishers(c *gin.Context) {
	pubs, err := catalog.ListPublishers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	data := make([]gin.H, 0, len(pubs))
	for i := range pubs {
		data = append(data, feedJSON(&pubs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": data})
}

// GET /api/publishers/:guid: publisher with its albums
func getPublisher(c *gin.Context) {
	guid := c.Param("guid")
	pub, err := catalog.GetFeedByGUID(guid)
	if err != nil || pub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "publisher not found"})
		return
	}
	albums, err := catalog.FeedsByPublisher(guid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	data := feedJSON(pub)
	albumList := make([]gin.H, 0, len(albums))
	for i := range albums {
		albumList = append(albumList, feedJSON(&albums[i]))
	}
	data["albums"] = albumList
	c.JSON(http.StatusOK, gin.H{"code": "20000", "data": data})
}

func queryInt64(c *gin.Context, key string, def int64) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
