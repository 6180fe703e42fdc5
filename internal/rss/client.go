package rss

import (
	"fmt"
	"time"

	"github.com/imroc/req/v3"
)

var client = req.C().
	SetTimeout(30 * time.Second).
	SetUserAgent("zinecast/1.0")

// Fetch downloads a feed or playlist XML document.
func Fetch(url string) (string, error) {
	resp, err := client.R().Get(url)
	if err != nil {
		return "", err
	}
	if resp.IsErrorState() {
		return "", fmt.Errorf("rss: fetch %s: status %d", url, resp.StatusCode)
	}
	return resp.String(), nil
}
