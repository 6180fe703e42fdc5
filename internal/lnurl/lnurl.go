package lnurl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/tidwall/gjson"
)

// PayParams is the payRequest descriptor served by an LNURL-pay endpoint.
type PayParams struct {
	Callback       string
	MinSendable    int64 // msat
	MaxSendable    int64 // msat
	CommentAllowed int64
}

type Client struct {
	http *req.Client
}

func NewClient() *Client {
	return &Client{
		http: req.C().SetTimeout(15 * time.Second).SetUserAgent("zinecast/1.0"),
	}
}

// Endpoint turns a lightning address into its LNURL-pay URL. Bare https
// endpoints pass through untouched.
func Endpoint(address string) (string, error) {
	if strings.HasPrefix(address, "https://") {
		return address, nil
	}
	name, domain, ok := strings.Cut(address, "@")
	if !ok || name == "" || domain == "" {
		return "", fmt.Errorf("lnurl: bad lightning address %q", address)
	}
	return fmt.Sprintf("https://%s/.well-known/lnurlp/%s", domain, name), nil
}

func (c *Client) getJSON(ctx context.Context, u string) (gjson.Result, error) {
	resp, err := c.http.R().SetContext(ctx).Get(u)
	if err != nil {
		return gjson.Result{}, err
	}
	if resp.IsErrorState() {
		return gjson.Result{}, fmt.Errorf("lnurl: %s: status %d", u, resp.StatusCode)
	}
	r := gjson.Parse(resp.String())
	if strings.EqualFold(r.Get("status").String(), "error") {
		return gjson.Result{}, fmt.Errorf("lnurl: %s", r.Get("reason").String())
	}
	return r, nil
}

// PayParams fetches and validates the payRequest descriptor.
func (c *Client) PayParams(ctx context.Context, endpoint string) (*PayParams, error) {
	r, err := c.getJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if r.Get("tag").String() != "payRequest" {
		return nil, fmt.Errorf("lnurl: %s is not a payRequest endpoint", endpoint)
	}
	p := &PayParams{
		Callback:       r.Get("callback").String(),
		MinSendable:    r.Get("minSendable").Int(),
		MaxSendable:    r.Get("maxSendable").Int(),
		CommentAllowed: r.Get("commentAllowed").Int(),
	}
	if p.Callback == "" {
		return nil, fmt.Errorf("lnurl: %s missing callback", endpoint)
	}
	return p, nil
}

// RequestInvoice runs the full LNURL-pay flow for one recipient.
func (c *Client) RequestInvoice(ctx context.Context, address string, amountMsat int64, comment string) (string, error) {
	endpoint, err := Endpoint(address)
	if err != nil {
		return "", err
	}
	params, err := c.PayParams(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if amountMsat < params.MinSendable {
		return "", fmt.Errorf("lnurl: %d msat below minimum %d", amountMsat, params.MinSendable)
	}
	if params.MaxSendable > 0 && amountMsat > params.MaxSendable {
		return "", fmt.Errorf("lnurl: %d msat above maximum %d", amountMsat, params.MaxSendable)
	}

	cb, err := url.Parse(params.Callback)
	if err != nil {
		return "", fmt.Errorf("lnurl: bad callback: %w", err)
	}
	q := cb.Query()
	q.Set("amount", strconv.FormatInt(amountMsat, 10))
	if comment != "" && params.CommentAllowed > 0 {
		if int64(len(comment)) > params.CommentAllowed {
			comment = comment[:params.CommentAllowed]
		}
		q.Set("comment", comment)
	}
	cb.RawQuery = q.Encode()

	r, err := c.getJSON(ctx, cb.String())
	if err != nil {
		return "", err
	}
	invoice := r.Get("pr").String()
	if invoice == "" {
		return "", fmt.Errorf("lnurl: callback returned no invoice")
	}
	return invoice, nil
}
