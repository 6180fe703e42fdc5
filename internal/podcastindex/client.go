package podcastindex

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/imroc/req/v3"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Episode is the catalog-shaped view of a PodcastIndex episode lookup.
type Episode struct {
	GUID       string
	FeedGUID   string
	FeedTitle  string
	Title      string
	Artist     string
	AudioURL   string
	ArtworkURL string
	Duration   int64 // milliseconds
}

// Podcast is the catalog-shaped view of a PodcastIndex feed lookup.
type Podcast struct {
	GUID       string
	Title      string
	Author     string
	FeedURL    string
	ArtworkURL string
	Medium     string
}

type Client struct {
	api    string
	key    string
	secret string

	http    *req.Client
	limiter *rate.Limiter
	cache   *expirable.LRU[string, gjson.Result]
	now     func() time.Time
}

func NewClient(api, key, secret string) *Client {
	return &Client{
		api:     api,
		key:     key,
		secret:  secret,
		http:    req.C().SetTimeout(20 * time.Second).SetUserAgent("zinecast/1.0"),
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		cache:   expirable.NewLRU[string, gjson.Result](512, nil, 30*time.Minute),
		now:     time.Now,
	}
}

// authHeaders builds the PodcastIndex request signature:
// sha1(key + secret + unix time) alongside the key and date headers.
func (c *Client) authHeaders() map[string]string {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	sum := sha1.Sum([]byte(c.key + c.secret + ts))
	return map[string]string{
		"X-Auth-Key":    c.key,
		"X-Auth-Date":   ts,
		"Authorization": hex.EncodeToString(sum[:]),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	key := path + "?" + query.Encode()
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.authHeaders()).
		Get(c.api + path + "?" + query.Encode())
	if err != nil {
		return gjson.Result{}, err
	}
	if resp.IsErrorState() {
		return gjson.Result{}, fmt.Errorf("podcastindex: %s: status %d", path, resp.StatusCode)
	}

	r := gjson.Parse(resp.String())
	c.cache.Add(key, r)
	return r, nil
}

// EpisodeByGUID resolves a remote item the local catalog does not carry.
func (c *Client) EpisodeByGUID(ctx context.Context, itemGUID, feedGUID string) (*Episode, error) {
	q := url.Values{}
	q.Set("guid", itemGUID)
	q.Set("podcastguid", feedGUID)
	r, err := c.get(ctx, "/episodes/byguid", q)
	if err != nil {
		return nil, err
	}

	ep := r.Get("episode")
	if !ep.Exists() || ep.Get("guid").String() == "" {
		return nil, fmt.Errorf("podcastindex: episode %s not found", itemGUID)
	}
	artwork := ep.Get("image").String()
	if artwork == "" {
		artwork = ep.Get("feedImage").String()
	}
	return &Episode{
		GUID:       ep.Get("guid").String(),
		FeedGUID:   feedGUID,
		FeedTitle:  ep.Get("feedTitle").String(),
		Title:      ep.Get("title").String(),
		Artist:     ep.Get("feedTitle").String(),
		AudioURL:   ep.Get("enclosureUrl").String(),
		ArtworkURL: artwork,
		Duration:   ep.Get("duration").Int() * 1000,
	}, nil
}

// PodcastByGUID looks a feed up by its podcast:guid.
func (c *Client) PodcastByGUID(ctx context.Context, guid string) (*Podcast, error) {
	q := url.Values{}
	q.Set("guid", guid)
	r, err := c.get(ctx, "/podcasts/byguid", q)
	if err != nil {
		return nil, err
	}

	f := r.Get("feed")
	if !f.Exists() || f.Get("podcastGuid").String() == "" {
		return nil, fmt.Errorf("podcastindex: podcast %s not found", guid)
	}
	return &Podcast{
		GUID:       f.Get("podcastGuid").String(),
		Title:      f.Get("title").String(),
		Author:     f.Get("author").String(),
		FeedURL:    f.Get("url").String(),
		ArtworkURL: f.Get("artwork").String(),
		Medium:     f.Get("medium").String(),
	}, nil
}
