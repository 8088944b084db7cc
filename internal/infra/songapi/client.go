// Package songapi provides a client for the song persistence service.
package songapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/harmony/internal/domain/song"
)

// Errors
var (
	ErrFetchFailed  = errors.New("song service request failed")
	ErrNoCredential = errors.New("no credential")
	ErrUnauthorized = errors.New("credential rejected")
	ErrForbidden    = errors.New("not allowed")
)

// Config represents song service client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a song service client. Every call carries the bearer credential
// passed by the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new song service client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// List returns the songs of the credential's identity plus all global songs,
// newest first. A non-empty search filters by title.
func (c *Client) List(ctx context.Context, credential, search string) ([]song.Song, error) {
	reqURL := c.baseURL + "/songs"
	if search = strings.TrimSpace(search); search != "" {
		reqURL += "?" + url.Values{"search": {search}}.Encode()
	}

	var songs []song.Song
	if err := c.do(ctx, http.MethodGet, reqURL, credential, nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// Create saves a song owned by the credential's identity.
func (c *Client) Create(ctx context.Context, credential string, s song.NewSong) (*song.Song, error) {
	var created song.Song
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/songs", credential, s, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateGlobal saves a global song. Only privileged identities may do this.
func (c *Client) CreateGlobal(ctx context.Context, credential string, s song.NewSong) (*song.Song, error) {
	var created song.Song
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/songs/admin", credential, s, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) do(ctx context.Context, method, reqURL, credential string, body, out any) error {
	if credential == "" {
		return ErrNoCredential
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to send request"), ErrFetchFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := errors.Newf("song service status %d: %s %s", resp.StatusCode, method, reqURL)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			err = errors.Mark(err, ErrUnauthorized)
		case http.StatusForbidden:
			err = errors.Mark(err, ErrForbidden)
		}
		return errors.Mark(err, ErrFetchFailed)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Mark(errors.Wrap(err, "failed to parse response"), ErrFetchFailed)
	}
	return nil
}
