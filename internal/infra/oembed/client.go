// Package oembed provides a client for oEmbed metadata lookups.
package oembed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/osa030/harmony/internal/app/enrich"
)

// DefaultBaseURL is the YouTube oEmbed endpoint.
const DefaultBaseURL = "https://www.youtube.com/oembed"

// ErrMalformedResponse is returned when the provider answers without a title.
var ErrMalformedResponse = errors.New("malformed oembed response")

// Response represents the subset of the oEmbed response that is used.
type Response struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Config represents oEmbed client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64 // 0 disables throttling
}

// Client is an oEmbed lookup client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Ensure Client implements enrich.Provider.
var _ enrich.Provider = (*Client)(nil)

// New creates a new oEmbed client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	if cfg.RatePerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}
	return c
}

// Lookup fetches title, author and thumbnail for link.
// Any transport error, non-OK status or response without a title is an error.
func (c *Client) Lookup(ctx context.Context, link string) (enrich.Metadata, error) {
	if strings.TrimSpace(link) == "" {
		return enrich.Metadata{}, errors.New("link is required")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return enrich.Metadata{}, errors.Wrap(err, "rate limiter")
		}
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("url", link)
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return enrich.Metadata{}, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return enrich.Metadata{}, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return enrich.Metadata{}, errors.Newf("oembed status %d", resp.StatusCode)
	}

	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return enrich.Metadata{}, errors.Wrap(err, "failed to parse response")
	}
	if body.Title == "" {
		return enrich.Metadata{}, ErrMalformedResponse
	}

	return enrich.Metadata{
		DisplayName:  body.Title,
		Artist:       body.AuthorName,
		ThumbnailURL: body.ThumbnailURL,
	}, nil
}
